package pdf

import (
	"fmt"
	"os"

	lpdf "github.com/ledongthuc/pdf"
)

// PageSource gives page-level access to an opened PDF.
type PageSource interface {
	// NumPage returns the number of pages.
	NumPage() int

	// PageText returns the embedded text of the 1-based page.
	PageText(page int) (string, error)

	// Close releases the underlying file.
	Close() error
}

// Opener opens a PDF for native text extraction.
type Opener func(path string) (PageSource, error)

// openNative opens path with the pure-Go PDF reader. The reader panics on
// some malformed inputs, so panics are turned into errors.
func openNative(path string) (src PageSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			src = nil
			err = fmt.Errorf("parse %s: %v", path, r)
		}
	}()

	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &nativeSource{file: f, reader: r}, nil
}

type nativeSource struct {
	file   *os.File
	reader *lpdf.Reader
}

func (s *nativeSource) NumPage() int {
	return s.reader.NumPage()
}

func (s *nativeSource) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page %d: %v", n, r)
		}
	}()

	p := s.reader.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func (s *nativeSource) Close() error {
	return s.file.Close()
}

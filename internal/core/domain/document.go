package domain

import "time"

// ExtractionMethod records how a page's text was obtained.
type ExtractionMethod string

// Available extraction methods.
const (
	// ExtractionNative means the text was embedded in the PDF.
	ExtractionNative ExtractionMethod = "native"

	// ExtractionOCR means the page was rendered and recognised.
	ExtractionOCR ExtractionMethod = "ocr"

	// ExtractionNone means no strategy produced text for the page.
	ExtractionNone ExtractionMethod = "none"
)

// String returns the string representation.
func (m ExtractionMethod) String() string {
	return string(m)
}

// Page is one page of a source PDF.
type Page struct {
	// Number is the 1-based page number in document order.
	Number int

	// Text is the extracted text. It may be empty.
	Text string

	// Method is the strategy that produced Text.
	Method ExtractionMethod
}

// IsBlank returns true if the page carries no usable text.
func (p Page) IsBlank() bool {
	return isBlank(p.Text)
}

// Document is one loaded source PDF.
// Documents are immutable once loaded and are superseded, not merged,
// when the same identifier is loaded again.
type Document struct {
	// ID is the stable identifier (the file name).
	ID string

	// Path is the absolute path the document was loaded from.
	Path string

	// Pages holds every page in document order, including blank ones.
	Pages []Page

	// LoadedAt is when the document was ingested.
	LoadedAt time.Time
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// HasPage returns true if number is inside the document's page range.
func (d *Document) HasPage(number int) bool {
	return number >= 1 && number <= len(d.Pages)
}

// TextPages returns the number of pages with non-blank text.
func (d *Document) TextPages() int {
	n := 0
	for _, p := range d.Pages {
		if !p.IsBlank() {
			n++
		}
	}
	return n
}

// OCRPages returns the number of pages whose text came from OCR.
func (d *Document) OCRPages() int {
	n := 0
	for _, p := range d.Pages {
		if p.Method == ExtractionOCR {
			n++
		}
	}
	return n
}

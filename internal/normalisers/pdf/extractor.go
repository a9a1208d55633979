// Package pdf extracts per-page text from PDF files.
//
// Each page runs through an ordered chain of strategies: embedded text first,
// then OCR of a rendered raster when a recognizer is available. A page no
// strategy can read is kept with empty text so page numbering stays intact.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// DefaultScale renders scanned pages at twice the PDF's native 72 dpi.
const DefaultScale = 2.0

// magic must appear near the start of every PDF file.
var magic = []byte("%PDF-")

// headerWindow is how far into the file the magic may appear.
const headerWindow = 1024

// Extractor reads PDF files page by page.
type Extractor struct {
	open       Opener
	recognizer driven.Recognizer
	renderer   Renderer
	scale      float64
	tempDir    string
}

// Option configures the extractor.
type Option func(*Extractor)

// WithRecognizer enables the OCR fallback. A nil recognizer disables it.
func WithRecognizer(r driven.Recognizer) Option {
	return func(e *Extractor) {
		e.recognizer = r
	}
}

// WithRenderer sets the page rasteriser used before OCR.
func WithRenderer(r Renderer) Option {
	return func(e *Extractor) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithScale sets the render multiplier over 72 dpi.
func WithScale(scale float64) Option {
	return func(e *Extractor) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

// WithOpener replaces the native PDF reader.
func WithOpener(open Opener) Option {
	return func(e *Extractor) {
		if open != nil {
			e.open = open
		}
	}
}

// WithTempDir sets the parent directory for transient raster files.
func WithTempDir(dir string) Option {
	return func(e *Extractor) {
		e.tempDir = dir
	}
}

// New creates an extractor. Without WithRecognizer, scanned pages stay blank.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		open:  openNative,
		scale: DefaultScale,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.renderer == nil {
		e.renderer = NewPoppler(nil)
	}
	return e
}

// OCRAvailable reports whether blank pages can be recognised.
func (e *Extractor) OCRAvailable() bool {
	return e.recognizer != nil && e.recognizer.Available() && e.renderer.Available()
}

// strategy tries to produce text for one page. ok is false when the
// strategy has no result for the page.
type strategy struct {
	method domain.ExtractionMethod
	run    func(ctx context.Context, page int) (text string, ok bool)
}

// Extract returns every page of the PDF at path.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	if err := checkPDF(path); err != nil {
		return nil, err
	}

	src, err := e.open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", filepath.Base(path), domain.ErrCorruptPDF, err)
	}
	defer src.Close()

	total := src.NumPage()
	if total <= 0 {
		return nil, fmt.Errorf("%s: %w: no pages", filepath.Base(path), domain.ErrCorruptPDF)
	}

	ocr := e.OCRAvailable()
	raster := &rasterDir{parent: e.tempDir}
	defer raster.remove()

	chain := []strategy{{method: domain.ExtractionNative, run: e.nativeText(src)}}
	if ocr {
		chain = append(chain, strategy{method: domain.ExtractionOCR, run: e.ocrText(path, raster)})
	}

	pages := make([]domain.Page, 0, total)
	empty := 0
	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := domain.Page{Number: n, Method: domain.ExtractionNone}
		for _, s := range chain {
			if text, ok := s.run(ctx, n); ok {
				page.Text = text
				page.Method = s.method
				break
			}
		}
		if page.IsBlank() {
			empty++
			logger.Debug("%s page %d: no text", filepath.Base(path), n)
		}
		pages = append(pages, page)
	}

	if empty == total {
		if !ocr {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), domain.ErrNoTextOCRUnavailable)
		}
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), domain.ErrNoTextOCRFoundNothing)
	}

	return pages, nil
}

func (e *Extractor) nativeText(src PageSource) func(context.Context, int) (string, bool) {
	return func(_ context.Context, page int) (string, bool) {
		text, err := src.PageText(page)
		if err != nil {
			logger.Warn("native text page %d: %v", page, err)
			return "", false
		}
		text = cleanText(text)
		return text, text != ""
	}
}

func (e *Extractor) ocrText(path string, raster *rasterDir) func(context.Context, int) (string, bool) {
	return func(ctx context.Context, page int) (string, bool) {
		dir, err := raster.get()
		if err != nil {
			logger.Warn("%v", ocrError(page, err))
			return "", false
		}
		image, err := e.renderer.Render(ctx, path, page, dpiForScale(e.scale), dir)
		if err != nil {
			logger.Warn("%v", ocrError(page, err))
			return "", false
		}
		defer os.Remove(image)

		text, err := e.recognizer.Recognize(ctx, image)
		if err != nil {
			logger.Warn("%v", ocrError(page, err))
			return "", false
		}
		text = cleanText(text)
		return text, text != ""
	}
}

// checkPDF validates that path exists and looks like a PDF.
func checkPDF(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, domain.ErrPathNotFound)
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%s: %w", filepath.Base(path), domain.ErrNotAPDF)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, headerWindow)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !bytes.Contains(head[:n], magic) {
		return fmt.Errorf("%s: %w: missing %%PDF header", filepath.Base(path), domain.ErrNotAPDF)
	}
	return nil
}

// cleanText drops NUL and other control characters some PDFs embed, keeping
// newlines and tabs, and trims the result.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r == '\r' {
			return '\n'
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// rasterDir is a lazily created temp dir for page images.
type rasterDir struct {
	parent string
	path   string
}

func (d *rasterDir) get() (string, error) {
	if d.path != "" {
		return d.path, nil
	}
	dir, err := os.MkdirTemp(d.parent, "edubridge-ocr-*")
	if err != nil {
		return "", err
	}
	d.path = dir
	return dir, nil
}

func (d *rasterDir) remove() {
	if d.path != "" {
		os.RemoveAll(d.path)
	}
}

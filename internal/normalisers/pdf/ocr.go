package pdf

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

// Ensure Tesseract implements the interface.
var _ driven.Recognizer = (*Tesseract)(nil)

// Renderer rasterises a single PDF page to an image file.
type Renderer interface {
	// Available reports whether rendering can be used.
	Available() bool

	// Render writes page (1-based) of pdfPath at dpi into dir and returns the image path.
	Render(ctx context.Context, pdfPath string, page, dpi int, dir string) (string, error)
}

// Poppler renders pages with pdftoppm.
type Poppler struct {
	runner CommandRunner
	once   sync.Once
	ok     bool
}

// NewPoppler creates a renderer that shells out to pdftoppm.
func NewPoppler(runner CommandRunner) *Poppler {
	if runner == nil {
		runner = execRunner{}
	}
	return &Poppler{runner: runner}
}

// Available reports whether pdftoppm is on PATH. The lookup runs once.
func (p *Poppler) Available() bool {
	p.once.Do(func() {
		_, err := lookPath(rendererTool)
		p.ok = err == nil
	})
	return p.ok
}

// Render rasterises one page to PNG.
func (p *Poppler) Render(ctx context.Context, pdfPath string, page, dpi int, dir string) (string, error) {
	prefix := filepath.Join(dir, "page-"+strconv.Itoa(page))
	n := strconv.Itoa(page)
	_, err := p.runner.Run(ctx, rendererTool,
		"-f", n, "-l", n,
		"-r", strconv.Itoa(dpi),
		"-png", "-singlefile",
		pdfPath, prefix,
	)
	if err != nil {
		return "", err
	}
	return prefix + ".png", nil
}

// Tesseract recognises text with the tesseract CLI.
type Tesseract struct {
	runner   CommandRunner
	language string
	once     sync.Once
	ok       bool
}

// NewTesseract creates a recognizer for the given language code (e.g. "eng").
func NewTesseract(runner CommandRunner, language string) *Tesseract {
	if runner == nil {
		runner = execRunner{}
	}
	if language == "" {
		language = "eng"
	}
	return &Tesseract{runner: runner, language: language}
}

// Available reports whether tesseract is on PATH. The lookup runs once.
func (t *Tesseract) Available() bool {
	t.once.Do(func() {
		_, err := lookPath(recognizerTool)
		t.ok = err == nil
	})
	return t.ok
}

// Recognize returns the text tesseract finds in the image.
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	out, err := t.runner.Run(ctx, recognizerTool, imagePath, "stdout", "-l", t.language)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// dpiForScale converts a render multiplier over the 72 dpi PDF user space
// into a resolution.
func dpiForScale(scale float64) int {
	if scale <= 0 {
		scale = DefaultScale
	}
	return int(math.Round(72 * scale))
}

// ocrError labels a per-page OCR failure.
func ocrError(page int, err error) error {
	return fmt.Errorf("ocr page %d: %w", page, err)
}

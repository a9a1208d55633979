package driven

import (
	"context"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

// TextExtractor converts a PDF file into its pages.
type TextExtractor interface {
	// Extract returns every page of the document in order, including blank ones.
	// Fails with domain.ErrPathNotFound, domain.ErrNotAPDF, domain.ErrCorruptPDF
	// or a domain.ErrNoExtractableText variant.
	Extract(ctx context.Context, path string) ([]domain.Page, error)
}

// Recognizer performs optical character recognition on a raster image.
type Recognizer interface {
	// Available reports whether the recognition engine can be used.
	// Implementations check once and cache the answer.
	Available() bool

	// Recognize returns the text found in the image at imagePath.
	// An empty string with a nil error means nothing was recognised.
	Recognize(ctx context.Context, imagePath string) (string, error)
}

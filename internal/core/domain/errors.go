package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or backend type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the generator is not configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index could not be opened.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// Extraction Errors.

	// ErrPathNotFound indicates the file or directory does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrNotAPDF indicates the file is not a PDF document.
	ErrNotAPDF = errors.New("not a PDF file")

	// ErrCorruptPDF indicates the PDF could not be parsed or has no pages.
	ErrCorruptPDF = errors.New("corrupt or empty PDF")

	// ErrNoExtractableText indicates every page of a document came back empty.
	// Use errors.Is against this value to match either variant below.
	ErrNoExtractableText = errors.New("no extractable text")

	// ErrNoTextOCRUnavailable is returned when pages had no native text and
	// no OCR engine was available to try.
	ErrNoTextOCRUnavailable = fmt.Errorf("%w: OCR engine unavailable", ErrNoExtractableText)

	// ErrNoTextOCRFoundNothing is returned when OCR ran on every blank page
	// and still found no text.
	ErrNoTextOCRFoundNothing = fmt.Errorf("%w: OCR found no text", ErrNoExtractableText)

	// Pipeline Errors.

	// ErrNoSegments indicates chunking produced no segments for a document with text.
	ErrNoSegments = errors.New("chunking produced no segments")

	// ErrNoDocuments indicates a directory held no PDF files.
	ErrNoDocuments = errors.New("no PDF documents found")

	// ErrEmbedding indicates the embedder failed fatally.
	ErrEmbedding = errors.New("embedding failed")

	// ErrIndexPersistence indicates the index snapshot could not be saved or loaded.
	ErrIndexPersistence = errors.New("index persistence failed")

	// ErrIndexMismatch indicates a vector does not fit the index it is used with,
	// either by dimension or by the embedding model that built the index.
	ErrIndexMismatch = errors.New("embedding does not match index")

	// ErrGenerator indicates the text generator failed.
	ErrGenerator = errors.New("generator failed")
)

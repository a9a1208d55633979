package domain

import (
	"fmt"
	"strings"
)

// Segment is one retrievable unit of text.
// Every segment traces back to exactly one document page.
type Segment struct {
	// ID is derived from the document, page and position, so re-chunking
	// identical input yields identical IDs.
	ID string

	// DocumentID is the owning document identifier.
	DocumentID string

	// Page is the 1-based page where the segment starts.
	Page int

	// Position is the ordinal of the segment within its document.
	Position int

	// Start and End are byte offsets of Text within the page text.
	Start int
	End   int

	// Text is the segment body. Never empty.
	Text string
}

// Citation returns the "document + page" label used in answer contexts.
func (s Segment) Citation() string {
	return fmt.Sprintf("Document: %s | Page %d", s.DocumentID, s.Page)
}

// EmbeddingRecord pairs a segment with its vector.
type EmbeddingRecord struct {
	Segment Segment
	Vector  []float32
}

// ScoredSegment is a single query hit.
type ScoredSegment struct {
	Segment Segment

	// Score is the cosine similarity between the query and the segment.
	Score float64
}

// IndexStats describes the contents of a vector index.
type IndexStats struct {
	// Backend names the index implementation (sqlite, memory, pgvector, qdrant).
	Backend string

	// Location is the path or address the index persists to.
	Location string

	// Records is the number of stored embedding records.
	Records int

	// Documents lists the distinct document identifiers, sorted.
	Documents []string

	// Dimensions is the vector size, or 0 for an empty index.
	Dimensions int

	// Model is the embedding model the index was built with.
	Model string
}

// IsEmpty returns true if the index holds no records.
func (s IndexStats) IsEmpty() bool {
	return s.Records == 0
}

// IndexSnapshot is the durable form of an in-memory index.
type IndexSnapshot struct {
	Model      string
	Dimensions int
	Records    []EmbeddingRecord
}

// Replacement is a single change applied to a vector index: the records of
// Documents (or every record, when All is set) are dropped and Records added.
type Replacement struct {
	All       bool
	Documents []string
	Records   []EmbeddingRecord
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

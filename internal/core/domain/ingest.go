package domain

// IngestOptions controls how a load interacts with the existing index.
type IngestOptions struct {
	// Accumulate keeps previously loaded documents. When false the index is
	// replaced wholesale by the newly loaded documents.
	Accumulate bool

	// Progress, if set, is called after each file is processed.
	Progress func(path string, done, total int)
}

// DocumentSummary describes one successfully ingested document.
type DocumentSummary struct {
	ID        string `json:"id"`
	Pages     int    `json:"pages"`
	TextPages int    `json:"text_pages"`
	OCRPages  int    `json:"ocr_pages"`
	Segments  int    `json:"segments"`
}

// IngestFailure records why one file could not be ingested.
type IngestFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// IngestResult is the outcome of a load.
// Failures are reported here rather than returned as errors so that one bad
// file never hides the documents that loaded fine.
type IngestResult struct {
	// Success is true when at least one document was ingested and no file failed.
	Success bool `json:"success"`

	// Files is the number of PDF files considered.
	Files int `json:"files"`

	// Segments is the number of segments added to the index.
	Segments int `json:"segments"`

	// Documents lists the documents that were ingested.
	Documents []DocumentSummary `json:"documents"`

	// Failures lists the files that were skipped.
	Failures []IngestFailure `json:"failures,omitempty"`
}

// Loaded returns the number of documents ingested.
func (r *IngestResult) Loaded() int {
	return len(r.Documents)
}

// Reason returns the first failure reason, or an empty string.
func (r *IngestResult) Reason() string {
	if len(r.Failures) == 0 {
		return ""
	}
	return r.Failures[0].Reason
}

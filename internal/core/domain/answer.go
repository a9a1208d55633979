package domain

// NotFound is the sentinel answer returned when the loaded documents do not
// support an answer.
const NotFound = "Not Found"

// NoDocumentsLoaded is the reply given to questions asked before any PDF is loaded.
const NoDocumentsLoaded = "Need to validate: No PDF loaded. Use 'load <pdf_path>' command first."

// Reply is the result of handling one line of user input.
type Reply struct {
	// Input is the normalised input text.
	Input string `json:"input"`

	// Intent is the classified intent.
	Intent IntentKind `json:"-"`

	// IntentName is Intent as a string, for JSON output.
	IntentName string `json:"intent"`

	// Command is the first word of a system command, empty otherwise.
	Command string `json:"command,omitempty"`

	// Args is the remainder of a system command line, with its case preserved.
	Args string `json:"args,omitempty"`

	// Answer is the text shown to the user.
	Answer string `json:"answer,omitempty"`

	// Sources are the segments the answer was grounded on.
	Sources []Segment `json:"sources,omitempty"`
}

// IsNotFound returns true if the reply is the grounding sentinel.
func (r Reply) IsNotFound() bool {
	return r.Answer == NotFound
}

// Status summarises the tutor's readiness.
type Status struct {
	// Loaded is true when the index holds at least one record.
	Loaded bool `json:"loaded"`

	// Documents lists the loaded document identifiers.
	Documents []string `json:"documents"`

	// Segments is the number of indexed segments.
	Segments int `json:"segments"`

	// Model is the generator model name.
	Model string `json:"model"`

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string `json:"embedding_model"`

	// BaseURL is the generator endpoint.
	BaseURL string `json:"base_url"`

	// GeneratorReachable reports whether the generator answered a ping.
	GeneratorReachable bool `json:"generator_reachable"`

	// GeneratorError holds the ping failure, if any.
	GeneratorError string `json:"generator_error,omitempty"`

	// OCRAvailable reports whether scanned pages can be recognised.
	OCRAvailable bool `json:"ocr_available"`

	// IndexBackend and IndexLocation describe where vectors live.
	IndexBackend  string `json:"index_backend"`
	IndexLocation string `json:"index_location"`
}

// State returns "Ready" or "No PDF loaded".
func (s Status) State() string {
	if s.Loaded {
		return "Ready"
	}
	return "No PDF loaded"
}

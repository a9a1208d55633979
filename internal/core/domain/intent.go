package domain

// IntentKind tags what a line of user input is asking for.
type IntentKind int

// Intent kinds, in classification priority order.
const (
	// IntentContentQuery is a question answered from the loaded documents.
	IntentContentQuery IntentKind = iota

	// IntentSystemCommand is a REPL command such as load or status.
	IntentSystemCommand

	// IntentConceptual asks for a definition or explanation.
	IntentConceptual

	// IntentTechnical asks how to do something.
	IntentTechnical
)

// System commands recognised as the first word of the input.
const (
	CommandLoad   = "load"
	CommandHelp   = "help"
	CommandExit   = "exit"
	CommandQuit   = "quit"
	CommandStatus = "status"
	CommandClear  = "clear"
)

// String returns the string representation of the intent.
func (k IntentKind) String() string {
	switch k {
	case IntentContentQuery:
		return "content_query"
	case IntentSystemCommand:
		return "system_command"
	case IntentConceptual:
		return "conceptual"
	case IntentTechnical:
		return "technical"
	default:
		return "unknown"
	}
}

// IsQuestion returns true for intents that flow into retrieval.
func (k IntentKind) IsQuestion() bool {
	return k != IntentSystemCommand
}

// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

// QuestionSubmitted is sent when the user submits a line in the chat.
type QuestionSubmitted struct {
	Input string
}

// AnswerReceived carries the tutor's reply back to the chat.
type AnswerReceived struct {
	Input string
	Reply *domain.Reply
	Err   error
}

// LoadCompleted carries the outcome of a load command.
type LoadCompleted struct {
	Path   string
	Result *domain.IngestResult
	Err    error
}

// StatusLoaded carries a readiness report.
// Requested is set when the user asked for it; otherwise only the status bar
// is refreshed.
type StatusLoaded struct {
	Status    *domain.Status
	Requested bool
	Err       error
}

// TranscriptCleared is sent by the clear command.
type TranscriptCleared struct{}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the question and answer view.
	ViewChat
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals a setting was written.
type SettingsSaved struct {
	Key string
	Err error
}

package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

// classify mimics the tutor's system command detection for REPL tests.
func classify(_ context.Context, input string) (*domain.Reply, error) {
	word, args, _ := strings.Cut(strings.TrimSpace(input), " ")
	switch strings.ToLower(word) {
	case domain.CommandLoad, domain.CommandHelp, domain.CommandExit,
		domain.CommandQuit, domain.CommandStatus, domain.CommandClear:
		return &domain.Reply{
			Input:   input,
			Intent:  domain.IntentSystemCommand,
			Command: strings.ToLower(word),
			Args:    strings.TrimSpace(args),
		}, nil
	}
	return &domain.Reply{
		Input:   input,
		Intent:  domain.IntentContentQuery,
		Answer:  "Answer for " + input,
		Sources: []domain.Segment{{DocumentID: "notes.pdf", Page: 1}},
	}, nil
}

func TestREPL_Session(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.tutor.AskFunc = classify

	stdin := "\n   \nload notes.pdf\nwhat is osmosis?\nstatus\nhelp\nclear\nexit\nnever read\n"
	out, err := executeCommand(stdin, "repl")

	require.NoError(t, err)
	assert.Contains(t, out, "EDUBRIDGE AI TUTOR")
	assert.Contains(t, out, "[OK] Connected to http://localhost:11434 (llama3.2:1b)")
	assert.Equal(t, []string{"notes.pdf"}, ts.ingest.Paths())
	assert.False(t, ts.ingest.Options()[0].Accumulate)
	assert.Contains(t, out, "Loaded 1 of 1 document, 4 segments.")
	assert.Contains(t, out, "You can now ask questions about these documents.")
	assert.Contains(t, out, "Answer for what is osmosis?")
	assert.Contains(t, out, "  [1] Document: notes.pdf | Page 1")
	assert.Contains(t, out, "PDF Loaded: No")
	assert.Contains(t, out, "AVAILABLE COMMANDS:")
	assert.Contains(t, out, "Screen cleared.")
	assert.Contains(t, out, "Exiting EduBridge...")
	assert.NotContains(t, strings.Join(ts.tutor.Inputs(), "|"), "never read")
}

func TestREPL_BareLoadUsesLibraryDir(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.tutor.AskFunc = classify

	_, err := executeCommand("load\nquit\n", "repl")

	require.NoError(t, err)
	assert.Equal(t, []string{"syllabus"}, ts.ingest.Paths())
}

func TestREPL_BareLoadWithoutLibraryDir(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.tutor.AskFunc = classify
	libraryDir = ""

	out, err := executeCommand("load\n", "repl")

	require.NoError(t, err)
	assert.Contains(t, out, "Usage: load <pdf_path>")
	assert.Empty(t, ts.ingest.Paths())
}

func TestREPL_ErrorsDoNotEndSession(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.tutor.AskFunc = classify
	ts.ingest.LoadFunc = func(context.Context, string, domain.IngestOptions) (*domain.IngestResult, error) {
		return &domain.IngestResult{}, domain.ErrNoDocuments
	}

	out, err := executeCommand("load empty\nwhy?\n", "repl")

	require.NoError(t, err)
	assert.Contains(t, out, "Error: no PDF documents found")
	assert.Contains(t, out, "Answer for why?")
}

func TestREPL_UnreachableGenerator(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.status.StatusFunc = func(context.Context) (*domain.Status, error) {
		return &domain.Status{Model: "llama3.2:1b", BaseURL: "http://gpu:11434", GeneratorError: "connection refused"}, nil
	}

	out, err := executeCommand("", "repl")

	require.NoError(t, err)
	assert.Contains(t, out, "[WARNING] Cannot reach the generator: connection refused")
	assert.Contains(t, out, "http://gpu:11434")
}

func TestREPL_AskError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.tutor.AskFunc = func(context.Context, string) (*domain.Reply, error) {
		return nil, errors.New("index closed")
	}

	out, err := executeCommand("question\n", "repl")

	require.NoError(t, err)
	assert.Contains(t, out, "Error: index closed")
}

func TestREPL_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	tutorService = nil

	_, err := executeCommand("", "repl")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tutor service not configured")
}

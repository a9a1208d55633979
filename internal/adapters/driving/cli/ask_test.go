package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

func groundedReply(input string) *domain.Reply {
	return &domain.Reply{
		Input:      input,
		Intent:     domain.IntentConceptual,
		IntentName: "conceptual",
		Answer:     "Photosynthesis turns light into chemical energy.",
		Sources: []domain.Segment{
			{DocumentID: "biology.pdf", Page: 4, Text: "Photosynthesis ..."},
			{DocumentID: "biology.pdf", Page: 5, Text: "Chlorophyll ..."},
		},
	}
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("", "ask")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestAskCmd_JoinsWords(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.tutor.AskFunc = func(_ context.Context, input string) (*domain.Reply, error) {
		return groundedReply(input), nil
	}

	out, err := executeCommand("", "ask", "What", "is", "photosynthesis?")

	require.NoError(t, err)
	assert.Equal(t, []string{"What is photosynthesis?"}, ts.tutor.Inputs())
	assert.Contains(t, out, "Photosynthesis turns light into chemical energy.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "  [1] Document: biology.pdf | Page 4")
	assert.Contains(t, out, "  [2] Document: biology.pdf | Page 5")
}

func TestAskCmd_NotFound(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("", "ask", "Who won the 1998 world cup?")

	require.NoError(t, err)
	assert.Equal(t, "Not Found\n", out)
}

func TestAskCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.tutor.AskFunc = func(_ context.Context, input string) (*domain.Reply, error) {
		return groundedReply(input), nil
	}

	out, err := executeCommand("", "ask", "--json", "What is photosynthesis?")

	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "conceptual", got["intent"])
	assert.Equal(t, "Photosynthesis turns light into chemical energy.", got["answer"])
	assert.Len(t, got["sources"], 2)
}

func TestAskCmd_SystemCommand(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.tutor.AskFunc = func(_ context.Context, input string) (*domain.Reply, error) {
		return &domain.Reply{
			Input:      input,
			Intent:     domain.IntentSystemCommand,
			IntentName: "system_command",
			Command:    domain.CommandLoad,
			Args:       "notes.pdf",
		}, nil
	}

	out, err := executeCommand("", "ask", "load", "notes.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, `"load" is an interactive command. Run 'edubridge load <path>'.`)
	assert.Empty(t, ts.ingest.Paths())
}

func TestAskCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.tutor.AskFunc = func(context.Context, string) (*domain.Reply, error) {
		return nil, domain.ErrIndexMismatch
	}

	_, err := executeCommand("", "ask", "question")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIndexMismatch))
	assert.Contains(t, err.Error(), "ask failed")
}

func TestAskCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	tutorService = nil

	_, err := executeCommand("", "ask", "question")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tutor service not configured")
}

func TestCommandHint(t *testing.T) {
	assert.Contains(t, commandHint(domain.CommandStatus), "edubridge status")
	assert.Contains(t, commandHint(domain.CommandHelp), "--help")
	assert.Contains(t, commandHint(domain.CommandExit), "edubridge repl")
}

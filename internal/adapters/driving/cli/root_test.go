package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Commands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"load", "ask", "retrieve", "status", "settings", "pull", "repl", "tui", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
}

func TestBuildServices_Lazy(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	built = false
	var got Options
	calls := 0
	statusMock := &MockStatusService{}
	builder = func(_ context.Context, opts Options) (*Services, error) {
		calls++
		got = opts
		return &Services{Status: statusMock}, nil
	}

	out, err := executeCommand("", "status", "--config-dir", "/tmp/edu", "--verbose")

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, Options{ConfigDir: "/tmp/edu", Verbose: true}, got)
	assert.Same(t, statusMock, statusService)
	assert.Contains(t, out, "Model: llama3.2:1b")

	// Already built: a second command reuses the services.
	_, err = executeCommand("", "status")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestBuildServices_SettingsOnly(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	built = false
	var got Options
	builder = func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{Settings: NewMockSettingsService()}, nil
	}

	_, err := executeCommand("", "settings", "show")

	require.NoError(t, err)
	assert.True(t, got.SettingsOnly)
}

func TestBuildServices_Error(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	built = false
	builder = func(context.Context, Options) (*Services, error) {
		return nil, errors.New("opening index: locked")
	}

	_, err := executeCommand("", "status")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening index: locked")
}

func TestSetServices_Nil(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	SetServices(nil)

	assert.Same(t, ts.tutor, tutorService)
}

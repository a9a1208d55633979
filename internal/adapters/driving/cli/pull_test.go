package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPullCmd_DefaultModel(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	model := "unset"
	ts.models.PullFunc = func(_ context.Context, m string, progress func(string)) error {
		model = m
		for _, s := range []string{"pulling manifest", "downloading", "downloading", "success"} {
			progress(s)
		}
		return nil
	}

	out, err := executeCommand("", "pull")

	require.NoError(t, err)
	assert.Empty(t, model)
	assert.Equal(t, "pulling manifest\ndownloading\nsuccess\nModel ready.\n", out)
}

func TestPullCmd_NamedModel(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	var model string
	ts.models.PullFunc = func(_ context.Context, m string, _ func(string)) error {
		model = m
		return nil
	}

	_, err := executeCommand("", "pull", "mistral")

	require.NoError(t, err)
	assert.Equal(t, "mistral", model)
}

func TestPullCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.models.PullFunc = func(context.Context, string, func(string)) error {
		return errors.New("manifest unknown")
	}

	_, err := executeCommand("", "pull", "nope")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pull failed: manifest unknown")
}

func TestPullCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	modelService = nil

	_, err := executeCommand("", "pull")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model service not configured")
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

func TestIntentClassifier_Classify(t *testing.T) {
	c := NewIntentClassifier()

	tests := []struct {
		input      string
		want       domain.IntentKind
		normalised string
	}{
		{"load notes.pdf", domain.IntentSystemCommand, "load notes.pdf"},
		{"  STATUS  ", domain.IntentSystemCommand, "status"},
		{"Help", domain.IntentSystemCommand, "help"},
		{"exit", domain.IntentSystemCommand, "exit"},
		{"quit now", domain.IntentSystemCommand, "quit now"},
		{"clear", domain.IntentSystemCommand, "clear"},
		{"What is   photosynthesis?", domain.IntentConceptual, "what is photosynthesis?"},
		{"Explain the water cycle", domain.IntentConceptual, "explain the water cycle"},
		{"How to implement a queue", domain.IntentTechnical, "how to implement a queue"},
		{"Which algorithm sorts fastest", domain.IntentTechnical, "which algorithm sorts fastest"},
		{"Who wrote chapter three?", domain.IntentContentQuery, "who wrote chapter three?"},
		{"", domain.IntentContentQuery, ""},
		// Commands only count as the first word.
		{"please load it", domain.IntentContentQuery, "please load it"},
		// Conceptual outranks technical.
		{"explain how to implement a stack", domain.IntentConceptual, "explain how to implement a stack"},
		// System commands outrank keywords.
		{"load what is this", domain.IntentSystemCommand, "load what is this"},
		// Matching is by substring, as in the keyword lists.
		{"Describe the process of mitosis", domain.IntentConceptual, "describe the process of mitosis"},
		{"Summarise the processing stage", domain.IntentTechnical, "summarise the processing stage"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, normalised := c.Classify(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.normalised, normalised)
		})
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		input, command, args string
	}{
		{"load /Docs/My File.pdf", "load", "/Docs/My File.pdf"},
		{"  LOAD   \"notes.pdf\" ", "load", "\"notes.pdf\""},
		{"status", "status", ""},
		{"", "", ""},
		{"   ", "", ""},
	}
	for _, tt := range tests {
		command, args := SplitCommand(tt.input)
		assert.Equal(t, tt.command, command, tt.input)
		assert.Equal(t, tt.args, args, tt.input)
	}
}

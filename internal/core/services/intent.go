package services

import (
	"strings"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

var systemCommands = map[string]bool{
	domain.CommandLoad:   true,
	domain.CommandHelp:   true,
	domain.CommandExit:   true,
	domain.CommandQuit:   true,
	domain.CommandStatus: true,
	domain.CommandClear:  true,
}

var conceptualKeywords = []string{
	"what is", "define", "explain", "describe", "meaning of",
	"concept of", "introduction to", "overview of",
}

var technicalKeywords = []string{
	"how to", "implement", "code", "algorithm", "steps to",
	"procedure", "process", "method", "technique", "approach",
}

// intentRule pairs a predicate over normalised input with the kind it selects.
type intentRule struct {
	kind  domain.IntentKind
	match func(normalised string) bool
}

// IntentClassifier tags input with an intent using an ordered rule table.
// The first matching rule wins.
type IntentClassifier struct {
	rules []intentRule
}

// NewIntentClassifier creates a classifier with the built-in keyword tables.
func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{
		rules: []intentRule{
			{kind: domain.IntentSystemCommand, match: isSystemCommand},
			{kind: domain.IntentConceptual, match: containsAny(conceptualKeywords)},
			{kind: domain.IntentTechnical, match: containsAny(technicalKeywords)},
		},
	}
}

// Classify returns the intent of input and its normalised form: trimmed,
// whitespace collapsed and lower-cased.
func (c *IntentClassifier) Classify(input string) (domain.IntentKind, string) {
	normalised := strings.ToLower(collapseSpace(input))
	for _, r := range c.rules {
		if r.match(normalised) {
			return r.kind, normalised
		}
	}
	return domain.IntentContentQuery, normalised
}

// SplitCommand returns the lower-cased first word of input and the rest of
// the line with its case preserved.
func SplitCommand(input string) (command, args string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", ""
	}
	command = strings.ToLower(fields[0])
	rest := strings.TrimSpace(input)
	rest = strings.TrimSpace(rest[len(fields[0]):])
	return command, rest
}

func isSystemCommand(normalised string) bool {
	command, _ := SplitCommand(normalised)
	return systemCommands[command]
}

func containsAny(keywords []string) func(string) bool {
	return func(s string) bool {
		for _, kw := range keywords {
			if strings.Contains(s, kw) {
				return true
			}
		}
		return false
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

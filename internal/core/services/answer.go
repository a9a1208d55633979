package services

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/logger"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/observability"
)

// fallbackAnswerPrompt is used when no prompt store is configured.
const fallbackAnswerPrompt = `Context:
{context}

Question: {question}

Answer only from the context. If it does not contain the answer, reply only with: Not Found`

// AnswerAssembler turns retrieved segments into a grounded answer.
type AnswerAssembler struct {
	generator driven.Generator
	prompts   driven.PromptStore
	llm       domain.LLMSettings
	strict    bool
}

// NewAnswerAssembler creates an assembler. prompts may be nil.
func NewAnswerAssembler(
	generator driven.Generator,
	prompts driven.PromptStore,
	llm domain.LLMSettings,
	answer domain.AnswerSettings,
) *AnswerAssembler {
	return &AnswerAssembler{
		generator: generator,
		prompts:   prompts,
		llm:       llm,
		strict:    answer.Strict,
	}
}

// Answer generates an answer to question using only segments.
// With no segments it returns domain.NotFound without calling the generator.
// Generator failures, panics included, are returned as text, never as an error.
func (a *AnswerAssembler) Answer(ctx context.Context, question string, segments []domain.Segment) string {
	if len(segments) == 0 {
		logger.Debug("No segments, answering %q", domain.NotFound)
		return domain.NotFound
	}
	if a.generator == nil {
		return generationError(domain.ErrLLMUnavailable)
	}

	ctx, span := observability.StartSpan(ctx, "answer.generate",
		attribute.Int("answer.segments", len(segments)),
		attribute.String("answer.model", a.generator.ModelName()),
	)

	prompt := strings.NewReplacer(
		"{context}", BuildContext(segments),
		"{question}", question,
	).Replace(a.template(driven.PromptAnswer, fallbackAnswerPrompt))

	logger.Section("Answer Generation")
	logger.Debug("Prompt: %d chars from %d segments", len(prompt), len(segments))

	done := logger.Stage("generate with %s", a.generator.ModelName())
	raw, err := a.generate(ctx, prompt, driven.GenerateOptions{
		System:      a.template(driven.PromptSystem, ""),
		MaxTokens:   a.llm.MaxTokens,
		Temperature: a.llm.Temperature,
	})
	done()
	observability.EndSpan(span, err)
	if err != nil {
		logger.Warn("Generator failed: %v", err)
		return generationError(err)
	}

	answer := NormaliseAnswer(raw, a.strict)
	logger.Debug("Answer: %q", answer)
	return answer
}

// generate calls the generator, turning a panic into an error.
func (a *AnswerAssembler) generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()
	return a.generator.Generate(ctx, prompt, opts)
}

func (a *AnswerAssembler) template(name, fallback string) string {
	if a.prompts == nil {
		return fallback
	}
	t, err := a.prompts.Load(name)
	if err != nil {
		logger.Warn("Prompt %q unavailable, using built-in: %v", name, err)
		return fallback
	}
	return t
}

// BuildContext renders segments as citation-headed blocks separated by blank lines.
func BuildContext(segments []domain.Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = fmt.Sprintf("[%s]\n%s", s.Citation(), s.Text)
	}
	return strings.Join(parts, "\n\n")
}

// NormaliseAnswer trims the generator output and maps refusals to domain.NotFound.
// A refusal is an empty reply or "not found" or "unknown" in any case.
// In strict mode a refusal wrapped in quotes or ending in a period also
// counts, as does a first line reading "Answer: Not Found".
func NormaliseAnswer(raw string, strict bool) string {
	answer := strings.TrimSpace(raw)
	switch strings.ToLower(answer) {
	case "", "not found", "unknown":
		return domain.NotFound
	}
	if !strict {
		return answer
	}

	first, _, _ := strings.Cut(answer, "\n")
	if label, rest, ok := strings.Cut(first, ":"); ok && strings.EqualFold(strings.TrimSpace(label), "answer") {
		first = rest
	}
	if isLooseRefusal(answer) || isLooseRefusal(first) {
		return domain.NotFound
	}
	return answer
}

func isLooseRefusal(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, "\"'`*")
	s = strings.TrimSpace(strings.TrimRight(s, ".!"))
	return s == "not found" || s == "unknown"
}

func generationError(err error) string {
	return fmt.Sprintf("Error generating response: %v", err)
}

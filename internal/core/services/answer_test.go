package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

func newAssembler(gen *spyGenerator, strict bool) *AnswerAssembler {
	prompts := stubPrompts{
		driven.PromptAnswer: "CTX:\n{context}\nQ: {question}",
		driven.PromptSystem: "Use only the context.",
	}
	llm := domain.LLMSettings{Temperature: 0.1, MaxTokens: 256}
	return NewAnswerAssembler(gen, prompts, llm, domain.AnswerSettings{Strict: strict})
}

func TestAnswerAssembler_NoSegmentsSkipsGenerator(t *testing.T) {
	gen := &spyGenerator{response: "anything"}
	a := newAssembler(gen, true)

	assert.Equal(t, domain.NotFound, a.Answer(context.Background(), "q", nil))
	assert.Equal(t, domain.NotFound, a.Answer(context.Background(), "q", []domain.Segment{}))
	assert.Zero(t, gen.calls())
}

func TestAnswerAssembler_PromptCarriesOnlyRetrievedContext(t *testing.T) {
	gen := &spyGenerator{response: "  Chlorophyll absorbs light.  "}
	a := newAssembler(gen, true)

	segments := []domain.Segment{
		seg("bio.pdf", 3, 0, "Chlorophyll absorbs light."),
		seg("bio.pdf", 7, 1, "Plants release oxygen."),
	}
	answer := a.Answer(context.Background(), "What absorbs light?", segments)

	assert.Equal(t, "Chlorophyll absorbs light.", answer)
	require.Equal(t, 1, gen.calls())
	assert.Equal(t,
		"CTX:\n[Document: bio.pdf | Page 3]\nChlorophyll absorbs light.\n\n"+
			"[Document: bio.pdf | Page 7]\nPlants release oxygen.\nQ: What absorbs light?",
		gen.prompts[0])
	assert.Equal(t, "Use only the context.", gen.opts[0].System)
	assert.InDelta(t, 0.1, gen.opts[0].Temperature, 1e-9)
	assert.Equal(t, 256, gen.opts[0].MaxTokens)
}

func TestAnswerAssembler_PlaceholdersInContextAreNotExpanded(t *testing.T) {
	gen := &spyGenerator{response: "ok"}
	a := newAssembler(gen, true)

	a.Answer(context.Background(), "why?", []domain.Segment{seg("a.pdf", 1, 0, "literal {question} text")})

	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.prompts[0], "literal {question} text")
}

func TestAnswerAssembler_GeneratorError(t *testing.T) {
	gen := &spyGenerator{err: errors.New("connection refused")}
	a := newAssembler(gen, true)

	answer := a.Answer(context.Background(), "q", []domain.Segment{seg("a.pdf", 1, 0, "text")})
	assert.Equal(t, "Error generating response: connection refused", answer)
}

func TestAnswerAssembler_GeneratorPanicBecomesErrorText(t *testing.T) {
	gen := &spyGenerator{panicMsg: "nil response body"}
	a := newAssembler(gen, true)

	var answer string
	require.NotPanics(t, func() {
		answer = a.Answer(context.Background(), "q", []domain.Segment{seg("a.pdf", 1, 0, "text")})
	})
	assert.Equal(t, "Error generating response: generator panicked: nil response body", answer)
	assert.Equal(t, 1, gen.calls())
}

func TestAnswerAssembler_NilGenerator(t *testing.T) {
	a := NewAnswerAssembler(nil, nil, domain.LLMSettings{}, domain.AnswerSettings{})

	answer := a.Answer(context.Background(), "q", []domain.Segment{seg("a.pdf", 1, 0, "text")})
	assert.Equal(t, "Error generating response: "+domain.ErrLLMUnavailable.Error(), answer)
}

func TestAnswerAssembler_FallbackPrompt(t *testing.T) {
	gen := &spyGenerator{response: "ok"}
	a := NewAnswerAssembler(gen, stubPrompts{}, domain.LLMSettings{}, domain.AnswerSettings{})

	a.Answer(context.Background(), "q?", []domain.Segment{seg("a.pdf", 2, 0, "body")})

	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.prompts[0], "[Document: a.pdf | Page 2]\nbody")
	assert.Contains(t, gen.prompts[0], "Question: q?")
	assert.Empty(t, gen.opts[0].System)
}

func TestNormaliseAnswer(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		strict bool
		want   string
	}{
		{"empty", "", false, domain.NotFound},
		{"whitespace", " \n\t", false, domain.NotFound},
		{"not found lower", "not found", false, domain.NotFound},
		{"not found padded", "  NOT FOUND \n", false, domain.NotFound},
		{"unknown", "Unknown", false, domain.NotFound},
		{"answer trimmed", "\n Paris \n", false, "Paris"},
		{"lenient keeps period", "Not found.", false, "Not found."},
		{"strict period", "Not found.", true, domain.NotFound},
		{"strict quoted", `"Not Found"`, true, domain.NotFound},
		{"strict labelled", "Answer: Not Found", true, domain.NotFound},
		{"strict labelled with explanation", "Answer: Not Found\nExplanation: the context is silent.", true, domain.NotFound},
		{"strict real answer", "Answer: Paris\nSource: Document: geo.pdf | Page 2", true, "Answer: Paris\nSource: Document: geo.pdf | Page 2"},
		{"strict mentions not found later", "Paris.\nThe river was not found.", true, "Paris.\nThe river was not found."},
		{"lenient labelled", "Answer: Not Found", false, "Answer: Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormaliseAnswer(tt.raw, tt.strict))
		})
	}
}

func TestBuildContext(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
	assert.Equal(t,
		"[Document: x.pdf | Page 1]\na\n\n[Document: y.pdf | Page 9]\nb",
		BuildContext([]domain.Segment{seg("x.pdf", 1, 0, "a"), seg("y.pdf", 9, 0, "b")}))
}

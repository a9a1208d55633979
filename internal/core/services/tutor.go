package services

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driving"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/logger"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/observability"
)

// Ensure TutorService implements the interface.
var _ driving.TutorService = (*TutorService)(nil)

// TutorService routes user input through classification, retrieval and
// answer assembly.
type TutorService struct {
	classifier *IntentClassifier
	retriever  driving.RetrievalService
	assembler  *AnswerAssembler
	index      driven.VectorIndex
}

// NewTutorService creates a new tutor service.
func NewTutorService(
	classifier *IntentClassifier,
	retriever driving.RetrievalService,
	assembler *AnswerAssembler,
	index driven.VectorIndex,
) *TutorService {
	if classifier == nil {
		classifier = NewIntentClassifier()
	}
	return &TutorService{
		classifier: classifier,
		retriever:  retriever,
		assembler:  assembler,
		index:      index,
	}
}

// Ask handles one line of input. System commands come back with Command and
// Args set and no answer; everything else is answered from the index.
func (s *TutorService) Ask(ctx context.Context, input string) (_ *domain.Reply, err error) {
	kind, normalised := s.classifier.Classify(input)
	if normalised == "" {
		return nil, fmt.Errorf("%w: empty input", domain.ErrInvalidInput)
	}

	question := collapseSpace(input)
	reply := &domain.Reply{Input: question, Intent: kind, IntentName: kind.String()}

	logger.Section("Ask")
	logger.Debug("Intent: %s", kind)

	if !kind.IsQuestion() {
		// Arguments keep their inner spacing, file names may depend on it.
		reply.Command, reply.Args = SplitCommand(strings.TrimSpace(input))
		return reply, nil
	}

	ctx, span := observability.StartSpan(ctx, "tutor.ask", attribute.String("tutor.intent", kind.String()))
	defer func() { observability.EndSpan(span, err) }()

	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("index stats: %w", err)
	}
	if stats.IsEmpty() {
		reply.Answer = domain.NoDocumentsLoaded
		return reply, nil
	}

	segments, err := s.retriever.Retrieve(ctx, question, 0)
	if err != nil {
		return nil, err
	}

	reply.Answer = s.assembler.Answer(ctx, question, segments)
	if !reply.IsNotFound() {
		reply.Sources = segments
	}
	return reply, nil
}

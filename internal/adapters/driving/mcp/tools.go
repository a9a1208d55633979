package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

// defaultRetrieveLimit matches the tutor's default context size.
const defaultRetrieveLimit = 3

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the loaded PDFs"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string          `json:"answer"`
	Intent   string          `json:"intent"`
	NotFound bool            `json:"not_found"`
	Sources  []SegmentOutput `json:"sources,omitempty"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the text to find relevant passages for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 3)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Segments []SegmentOutput `json:"segments"`
	Count    int             `json:"count"`
}

// SegmentOutput is one cited passage.
type SegmentOutput struct {
	DocumentID string  `json:"document_id"`
	Page       int     `json:"page"`
	Citation   string  `json:"citation"`
	Text       string  `json:"text"`
	Score      float64 `json:"score,omitempty"`
}

// StatusInput is the (empty) input schema for the status tool.
type StatusInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the loaded PDF documents. Replies 'Not Found' when they do not contain the answer.",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Return the passages of the loaded PDF documents most similar to a query, with document and page citations",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report which PDFs are loaded and whether the answer model is reachable",
	}, s.handleStatus)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	reply, err := s.ports.Tutor.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	if !reply.Intent.IsQuestion() {
		return nil, AskOutput{}, fmt.Errorf("%w: %q is a command, not a question", domain.ErrInvalidInput, reply.Command)
	}

	output := AskOutput{
		Answer:   reply.Answer,
		Intent:   reply.IntentName,
		NotFound: reply.IsNotFound(),
	}
	for _, seg := range reply.Sources {
		output.Sources = append(output.Sources, segmentOutput(seg, 0))
	}
	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	if s.ports.Retrieval == nil {
		return nil, RetrieveOutput{}, fmt.Errorf("mcp: retrieval service is not available")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRetrieveLimit
	}

	hits, err := s.ports.Retrieval.RetrieveScored(ctx, input.Query, limit)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Segments: make([]SegmentOutput, len(hits)),
		Count:    len(hits),
	}
	for i, h := range hits {
		output.Segments[i] = segmentOutput(h.Segment, h.Score)
	}
	return nil, output, nil
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, domain.Status, error) {
	if s.ports.Status == nil {
		return nil, domain.Status{}, fmt.Errorf("mcp: status service is not available")
	}
	status, err := s.ports.Status.Status(ctx)
	if err != nil {
		return nil, domain.Status{}, err
	}
	return nil, *status, nil
}

func segmentOutput(seg domain.Segment, score float64) SegmentOutput {
	return SegmentOutput{
		DocumentID: seg.DocumentID,
		Page:       seg.Page,
		Citation:   seg.Citation(),
		Text:       seg.Text,
		Score:      score,
	}
}

package mcp

import (
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Tutor answers questions from the loaded documents.
	Tutor driving.TutorService

	// Retrieval exposes raw segment lookup.
	Retrieval driving.RetrievalService

	// Status reports what is loaded.
	Status driving.StatusService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Tutor == nil {
		return ErrMissingTutorService
	}
	// Retrieval and Status are optional; their tools report unavailability.
	return nil
}

// Package tui provides the interactive terminal chat for edubridge.
// It is a driving adapter: every action goes through a driving port.
package tui

import (
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI calls.
type Ports struct {
	// Tutor answers questions and classifies commands.
	Tutor driving.TutorService

	// Ingest loads PDFs for the load command.
	Ingest driving.IngestService

	// Status reports readiness for the status command and status bar.
	Status driving.StatusService

	// Settings backs the settings view. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a Ports aggregate with the required services.
func NewPorts(tutor driving.TutorService, ingest driving.IngestService, status driving.StatusService) *Ports {
	return &Ports{
		Tutor:  tutor,
		Ingest: ingest,
		Status: status,
	}
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Tutor == nil {
		return ErrMissingTutorService
	}
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	if p.Status == nil {
		return ErrMissingStatusService
	}
	return nil
}

package tui

import "errors"

// ErrMissingTutorService is returned when the tutor service is not provided.
var ErrMissingTutorService = errors.New("tui: tutor service is required")

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("tui: ingest service is required")

// ErrMissingStatusService is returned when the status service is not provided.
var ErrMissingStatusService = errors.New("tui: status service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")

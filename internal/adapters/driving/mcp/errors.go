// Package mcp provides an MCP (Model Context Protocol) server adapter for EduBridge.
// It lets AI assistants ask grounded questions about the loaded course PDFs.
package mcp

import "errors"

// ErrMissingTutorService is returned when the tutor service is not provided.
var ErrMissingTutorService = errors.New("mcp: tutor service is required")

// Package domain defines the core business entities for EduBridge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document and Page: A loaded PDF and its extracted pages
//   - Segment: A bounded, citable unit of page text
//   - EmbeddingRecord: A segment paired with its vector
//   - Reply and Status: What the tutor hands back to a caller
//   - AppSettings: The explicit configuration built once at startup
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

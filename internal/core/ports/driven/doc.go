// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor: Turns a PDF file into per-page text
//   - SegmentPipeline: Splits page text into segments
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - VectorIndex: Stores embedding records and answers top-k lookups
//   - Generator: Produces answers from a grounded prompt
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Recognizer: Optical recognition for pages without embedded text.
//     Without it, blank pages stay blank.
//   - IndexSnapshotStore: Durable snapshots for in-memory indexes.
//     Without it, the index lives only as long as the process.
//   - ModelPuller: Downloads generator models on request.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven

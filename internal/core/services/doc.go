// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. The ask flow is IntentClassifier,
// Retriever, then AnswerAssembler; loading goes through IngestService.
package services

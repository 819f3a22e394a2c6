// Package domain defines the core business entities for topiclens.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A raw corpus unit (article or video transcript)
//   - Topic: A durable, named cluster of related documents
//   - TemporalPoint: A per-topic, per-bucket document count
//   - RunResult: The outcome of one retrain run
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

// Package domain defines the core entities for askdoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - AskRequest: One question against pasted text or one uploaded file
//   - Upload: A client-supplied file name plus the location of its bytes
//   - Candidate: One ranked answer returned by a QA capability
//   - Answer: The final answer handed back to a surface
//   - Result: Either an Answer or a Failure, never both
//   - ScratchArea: A per-request directory for materialized uploads
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

// Package domain defines the core business entities for ConahGPT.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FileDescriptor: A file listed from the document store
//   - Document: The positioned passages read from one file
//   - Chunk: A retrievable unit of text with its citation locator
//   - Snapshot: One complete, immutable crawl of the document store
//   - Answer: The reply to a question, with its citations
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

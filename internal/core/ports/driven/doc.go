// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ContentRepository: Page tree access (filesystem)
//   - TextRenderer: Clean text extraction for indexing
//   - IndexEngine / IndexHandle: Full-text index (SQLite FTS5 or Bleve)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ProgressReporter: Per-page indexing progress
//   - IndexDocumentHook / QueryHook: Extension points for record enrichment and hit collection
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

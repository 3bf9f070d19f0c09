// Package sqlite implements the index engine on SQLite FTS5.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Each index is a single database file below the data
// directory holding a "pages" content table and a "pages_fts" FTS5 table kept
// in sync by triggers. Hits are ranked with FTS5's built-in BM25.
//
// # Schema
//
// The content tables are managed through versioned migrations stored in the
// migrations/ directory. The FTS5 table is created by the engine because its
// tokenizer depends on the configured stemmer.
//
// # Stemming
//
// Only English stemming is available ("porter" or "english"), through the FTS5
// porter tokenizer. Other stemmers are rejected with domain.ErrUnsupportedType.
package sqlite

package driving

import (
	"context"
	"time"
)

// IndexService maintains the full-text index.
type IndexService interface {
	// Build rebuilds the whole index from the content repository.
	Build(ctx context.Context) (*BuildReport, error)

	// Remove deletes the record of the page at route in lang.
	// An empty lang means the active language. A missing index is a no-op.
	Remove(ctx context.Context, route, lang string) error

	// Upsert replaces the record of the page at route in lang if the page
	// still matches the indexing filter. A missing index is a no-op.
	Upsert(ctx context.Context, route, lang string) error
}

// BuildReport summarises a full index build.
type BuildReport struct {
	// Generation identifies this build.
	Generation string

	// Records is the number of records written.
	Records int

	// Skipped is the number of pages left out.
	Skipped int

	// Duration is the wall-clock build time.
	Duration time.Duration
}

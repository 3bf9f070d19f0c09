package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// IndexEngine connects to full-text index storage.
// Implementations are bound to a storage location and a driver at
// construction; handles are opened per operation.
type IndexEngine interface {
	// CreateIndex creates an empty index, replacing any existing one.
	CreateIndex(ctx context.Context, name string) (IndexHandle, error)

	// SelectIndex opens an existing index.
	// Returns domain.ErrIndexNotFound if the index was never built.
	SelectIndex(ctx context.Context, name string) (IndexHandle, error)
}

// IndexHandle is an open index.
type IndexHandle interface {
	// SetLanguage enables stemming for the named language.
	// Only effective before the first record is written.
	SetLanguage(stemmer string) error

	// Insert adds a record to the index.
	Insert(ctx context.Context, record domain.IndexRecord) error

	// Delete removes the record with the given id.
	// Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Run drains the record source into the index and commits.
	Run(ctx context.Context, source RecordSource) (int, error)

	// Search performs a plain relevance search. A non-empty phrase
	// restricts matches to that exact word sequence.
	Search(ctx context.Context, query string, params SearchParams) (domain.RawHitSet, error)

	// SearchBoolean evaluates query as a boolean expression where
	// whitespace means AND, "or" means OR, "-" negates and
	// parentheses group.
	SearchBoolean(ctx context.Context, query string, params SearchParams) (domain.RawHitSet, error)

	// Close releases resources.
	Close() error
}

// SearchParams configures an engine search.
type SearchParams struct {
	// Limit is the maximum number of ids returned.
	Limit int

	// Phrase is an explicit phrase hint for plain searches.
	Phrase string

	// AsYouType treats the last term as a prefix.
	AsYouType bool

	// Fuzzy enables approximate term matching.
	Fuzzy bool
}

// RecordSource produces the records of a full index build.
type RecordSource interface {
	// Records returns a lazy, finite sequence of records.
	// Configuration errors are returned before iteration starts.
	Records(ctx context.Context) (iter.Seq[domain.IndexRecord], error)
}

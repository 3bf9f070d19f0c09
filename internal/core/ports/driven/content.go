package driven

import (
	"context"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// ContentRepository provides read access to the page tree.
type ContentRepository interface {
	// Page returns the page at route.
	// Returns domain.ErrNotFound if no page has that route.
	Page(ctx context.Context, route string) (*domain.Page, error)

	// PageAt loads the page stored in file, labelled with lang.
	// The page has no parent; callers link it themselves.
	// Returns domain.ErrNotFound if file does not exist.
	PageAt(ctx context.Context, file, lang string) (*domain.Page, error)

	// Collection returns the pages selected by filter, in tree order.
	// Returns domain.ErrConfiguration if the filter is malformed.
	Collection(ctx context.Context, filter domain.CollectionFilter) ([]*domain.Page, error)

	// All returns every published, routable page in tree order.
	All(ctx context.Context) ([]*domain.Page, error)
}

// TextRenderer turns a page into indexable text.
type TextRenderer interface {
	// RenderCleanText returns tag-stripped, whitespace-normalised text.
	// A search.template front matter entry selects a template whose
	// output replaces the page body.
	RenderCleanText(ctx context.Context, page *domain.Page) (string, error)
}

// ProgressReporter receives per-page indexing progress.
type ProgressReporter interface {
	// Added is called after a record was produced.
	Added(count int, lang, route string)

	// Skipped is called when a page is left out. err is nil when the
	// page was excluded by its indexing flag.
	Skipped(count int, route string, err error)
}

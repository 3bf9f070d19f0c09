package driving

import (
	"context"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Defaults returns a request pre-filled from configuration.
	Defaults() domain.QueryRequest

	// Search classifies the query, runs it and post-processes the hits.
	// Returns domain.ErrIndexNotFound if the index was never built.
	Search(ctx context.Context, req domain.QueryRequest) (*domain.ResultEnvelope, error)

	// SearchJSON runs Search and returns the pretty-printed envelope.
	SearchJSON(ctx context.Context, req domain.QueryRequest) ([]byte, error)
}

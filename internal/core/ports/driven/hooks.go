package driven

import (
	"context"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// IndexDocumentHook is called for every record produced while indexing or
// updating. Hooks may modify the record before it reaches the engine.
type IndexDocumentHook func(ctx context.Context, page *domain.Page, record *domain.IndexRecord)

// QueryHook is called for every accepted search hit.
type QueryHook func(ctx context.Context, event domain.QueryEvent)

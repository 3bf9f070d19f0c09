package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// ResultProcessor turns raw hit ids into resolved pages.
type ResultProcessor struct {
	resolver *TranslationResolver
	hooks    *Hooks
}

// NewResultProcessor creates a result processor.
// The hooks parameter is optional (can be nil).
func NewResultProcessor(resolver *TranslationResolver, hooks *Hooks) *ResultProcessor {
	return &ResultProcessor{resolver: resolver, hooks: hooks}
}

// Process walks hits in engine order, drops ids whose language is not
// accepted by req, resolves the rest and fires the query hooks for each
// resolved page.
//
// The limit is checked before each id is handled and iteration stops once
// the counter exceeds it, so up to Limit+1 hits are accepted.
func (p *ResultProcessor) Process(
	ctx context.Context, hits domain.RawHitSet, query string, req domain.QueryRequest,
) *domain.ResultEnvelope {
	envelope := &domain.ResultEnvelope{
		Query:         query,
		ExecutionTime: hits.ExecutionTime,
	}

	accepted := req.AcceptedLanguages()
	limit := req.EffectiveLimit()
	counter := 0

	for _, id := range hits.IDs {
		if counter > limit {
			break
		}

		lang, route, ok := domain.SplitIndexID(id)
		if !ok || !accepted[lang] {
			continue
		}

		page, err := p.resolver.Resolve(ctx, route, lang)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Resolve hit %s: %v", id, err)
			}
			continue
		}

		counter++
		p.hooks.fireQuery(ctx, domain.QueryEvent{
			Page:     page,
			Query:    query,
			Request:  req,
			Envelope: envelope,
		})
	}

	envelope.NumberOfHits = counter
	return envelope
}

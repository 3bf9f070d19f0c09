package services

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// Ensure ContentStream implements the interface.
var _ driven.RecordSource = (*ContentStream)(nil)

// ContentStream expands the filtered page collection over every index
// language and yields one record per resolvable (page, language) pair.
// A stream is consumed once; create a new one for each build.
type ContentStream struct {
	env      *Environment
	resolver *TranslationResolver
	renderer driven.TextRenderer
	hooks    *Hooks
	reporter driven.ProgressReporter

	added   int
	skipped int
}

// NewContentStream creates a record stream.
// The hooks and reporter parameters are optional (can be nil).
func NewContentStream(
	env *Environment,
	resolver *TranslationResolver,
	renderer driven.TextRenderer,
	hooks *Hooks,
	reporter driven.ProgressReporter,
) *ContentStream {
	return &ContentStream{
		env:      env,
		resolver: resolver,
		renderer: renderer,
		hooks:    hooks,
		reporter: reporter,
	}
}

// Records returns the lazy record sequence. Filter errors are returned
// before iteration; failures of single pages are reported and skipped.
func (s *ContentStream) Records(ctx context.Context) (iter.Seq[domain.IndexRecord], error) {
	logger.Section("Content Stream")

	pages, err := collection(ctx, s.env)
	if err != nil {
		return nil, err
	}

	langs := s.env.Settings.IndexLanguages()
	logger.Debug("Collection: %d pages, languages: %v", len(pages), langs)

	return func(yield func(domain.IndexRecord) bool) {
		for _, page := range pages {
			if ctx.Err() != nil {
				logger.Warn("Stream cancelled: %v", ctx.Err())
				return
			}

			if !shouldIndex(page, s.env.Settings.IndexPageByDefault) {
				s.skip(page.Route, nil)
				continue
			}

			records, err := s.pageRecords(ctx, page, langs)
			if err != nil {
				s.skip(page.Route, fmt.Errorf("%w: %s: %w", domain.ErrDocumentProcessing, page.Route, err))
				continue
			}

			for _, rec := range records {
				s.added++
				if s.reporter != nil {
					lang, route, _ := domain.SplitIndexID(rec.ID)
					s.reporter.Added(s.added, lang, route)
				}
				if !yield(rec) {
					return
				}
			}
		}
	}, nil
}

// Added returns the number of records yielded so far.
func (s *ContentStream) Added() int {
	return s.added
}

// Skipped returns the number of pages skipped so far.
func (s *ContentStream) Skipped() int {
	return s.skipped
}

// pageRecords builds the records of one page across all languages.
// Languages without a translation are left out.
func (s *ContentStream) pageRecords(ctx context.Context, page *domain.Page, langs []string) ([]domain.IndexRecord, error) {
	records := make([]domain.IndexRecord, 0, len(langs))
	for _, lang := range langs {
		resolved, err := s.resolver.Resolve(ctx, page.Route, lang)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		rec, err := buildRecord(ctx, s.renderer, s.hooks, resolved, lang)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *ContentStream) skip(route string, err error) {
	s.skipped++
	if err != nil {
		logger.Warn("Skipped %s: %v", route, err)
	}
	if s.reporter != nil {
		s.reporter.Skipped(s.added, route, err)
	}
}

// collection returns the pages eligible for indexing: the configured
// filter's collection, or every published, routable page.
func collection(ctx context.Context, env *Environment) ([]*domain.Page, error) {
	filter := env.Settings.Filter
	if filter.HasItems() {
		pages, err := env.Repository.Collection(ctx, *filter)
		if err != nil {
			return nil, fmt.Errorf("filter collection: %w", err)
		}
		return pages, nil
	}

	pages, err := env.Repository.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// shouldIndex reads the search.process front matter flag, falling back
// to the configured default.
func shouldIndex(page *domain.Page, byDefault bool) bool {
	val, ok := page.SearchOption("process")
	if !ok {
		return byDefault
	}
	process, ok := val.(bool)
	if !ok {
		return byDefault
	}
	return process
}

// buildRecord renders a resolved page into a record and fires the
// index-document hooks.
func buildRecord(
	ctx context.Context,
	renderer driven.TextRenderer,
	hooks *Hooks,
	page *domain.Page,
	lang string,
) (domain.IndexRecord, error) {
	content, err := renderer.RenderCleanText(ctx, page)
	if err != nil {
		return domain.IndexRecord{}, fmt.Errorf("render %s: %w", page.FilePath(), err)
	}

	rec := domain.IndexRecord{
		ID:      domain.IndexID(lang, page.Route),
		Name:    page.Title,
		Content: content,
	}
	hooks.fireIndexDocument(ctx, page, &rec)
	return rec, nil
}

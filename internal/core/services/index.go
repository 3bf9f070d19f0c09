package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService builds the full index and keeps single pages up to date.
type IndexService struct {
	env      *Environment
	engine   driven.IndexEngine
	resolver *TranslationResolver
	renderer driven.TextRenderer
	hooks    *Hooks
	reporter driven.ProgressReporter
}

// NewIndexService creates a new index service.
// The hooks parameter is optional (can be nil).
func NewIndexService(
	env *Environment,
	engine driven.IndexEngine,
	renderer driven.TextRenderer,
	hooks *Hooks,
) *IndexService {
	return &IndexService{
		env:      env,
		engine:   engine,
		resolver: NewTranslationResolver(env),
		renderer: renderer,
		hooks:    hooks,
	}
}

// SetReporter sets the progress reporter used by Build.
func (s *IndexService) SetReporter(reporter driven.ProgressReporter) {
	s.reporter = reporter
}

// Build recreates the index and loads every record of the content stream.
// It does not reconcile with a previous index.
func (s *IndexService) Build(ctx context.Context) (*driving.BuildReport, error) {
	logger.Section("Index Build")
	start := time.Now()
	settings := s.env.Settings

	handle, err := s.engine.CreateIndex(ctx, settings.IndexName)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", domain.ErrIndex, settings.IndexName, err)
	}
	defer closeHandle(handle)

	if settings.Stemmer != "" && settings.Stemmer != domain.StemmerDefault {
		logger.Debug("Stemmer: %s", settings.Stemmer)
		if err := handle.SetLanguage(settings.Stemmer); err != nil {
			return nil, fmt.Errorf("%w: stemmer %q: %w", domain.ErrIndex, settings.Stemmer, err)
		}
	}

	stream := NewContentStream(s.env, s.resolver, s.renderer, s.hooks, s.reporter)
	written, err := handle.Run(ctx, stream)
	if err != nil {
		return nil, fmt.Errorf("run indexer: %w", err)
	}

	report := &driving.BuildReport{
		Generation: uuid.NewString(),
		Records:    written,
		Skipped:    stream.Skipped(),
		Duration:   time.Since(start),
	}
	logger.Info("Index built: %s", logger.Fields(map[string]any{
		"generation": report.Generation,
		"records":    report.Records,
		"skipped":    report.Skipped,
		"duration":   report.Duration,
	}))
	return report, nil
}

// Remove deletes the record of the page at route in lang.
// A missing index is not an error.
func (s *IndexService) Remove(ctx context.Context, route, lang string) error {
	handle, err := s.open(ctx)
	if handle == nil {
		return err
	}
	defer closeHandle(handle)

	route, err = s.canonicalRoute(ctx, route)
	if err != nil {
		return err
	}
	return s.remove(ctx, handle, route, lang)
}

// Upsert removes the record of the page at route in lang and inserts a
// fresh one when the page still belongs to the indexed collection.
// A missing index is not an error.
func (s *IndexService) Upsert(ctx context.Context, route, lang string) error {
	handle, err := s.open(ctx)
	if handle == nil {
		return err
	}
	defer closeHandle(handle)

	route, err = s.canonicalRoute(ctx, route)
	if err != nil {
		return err
	}
	if lang == "" {
		lang = s.env.Active(ctx)
	}

	if err := s.remove(ctx, handle, route, lang); err != nil {
		return err
	}

	matches, err := s.matches(ctx, route)
	if err != nil {
		return err
	}
	if !matches {
		logger.Debug("Page %s no longer matches the index filter", route)
		return nil
	}

	page, err := s.resolver.Resolve(ctx, route, lang)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("Page %s has no %s version", route, lang)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve %s: %w", route, err)
	}

	rec, err := buildRecord(ctx, s.renderer, s.hooks, page, lang)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDocumentProcessing, err)
	}

	if err := handle.Insert(ctx, rec); err != nil {
		return fmt.Errorf("insert %s: %w", rec.ID, err)
	}
	logger.Info("Updated %s", rec.ID)
	return nil
}

// open selects the index. It returns a nil handle and nil error when the
// index has not been built yet.
func (s *IndexService) open(ctx context.Context) (driven.IndexHandle, error) {
	handle, err := s.engine.SelectIndex(ctx, s.env.Settings.IndexName)
	if errors.Is(err, domain.ErrIndexNotFound) {
		logger.Debug("Index %s not built yet, nothing to update", s.env.Settings.IndexName)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select index: %w", err)
	}
	return handle, nil
}

// canonicalRoute returns the route records of the page are keyed by.
// Routes of pages no longer in the repository are cleaned instead.
func (s *IndexService) canonicalRoute(ctx context.Context, route string) (string, error) {
	page, err := s.env.Repository.Page(ctx, route)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.CleanRoute(route), nil
	}
	if err != nil {
		return "", fmt.Errorf("get page %s: %w", route, err)
	}
	return page.Route, nil
}

func (s *IndexService) remove(ctx context.Context, handle driven.IndexHandle, route, lang string) error {
	if lang == "" {
		lang = s.env.Active(ctx)
	}
	id := domain.IndexID(lang, route)
	if err := handle.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	logger.Debug("Removed %s", id)
	return nil
}

// matches reports whether the page at route is part of the indexed
// collection and not excluded by its search.process flag.
func (s *IndexService) matches(ctx context.Context, route string) (bool, error) {
	page, err := s.env.Repository.Page(ctx, route)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get page %s: %w", route, err)
	}

	pages, err := collection(ctx, s.env)
	if err != nil {
		return false, err
	}

	for _, candidate := range pages {
		if candidate.Path == page.Path {
			return shouldIndex(candidate, s.env.Settings.IndexPageByDefault), nil
		}
	}
	return false, nil
}

func closeHandle(handle driven.IndexHandle) {
	if err := handle.Close(); err != nil {
		logger.Warn("Close index: %v", err)
	}
}

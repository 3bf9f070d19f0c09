package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// Environment bundles what every service needs per operation: the content
// repository, a settings snapshot and the active-language resolver.
type Environment struct {
	// Repository provides the page tree.
	Repository driven.ContentRepository

	// Settings is the configuration snapshot.
	Settings domain.Settings

	// ActiveLanguage returns the language used when a call names none.
	// Nil falls back to Settings.DefaultLanguage.
	ActiveLanguage func(ctx context.Context) string
}

// NewEnvironment creates an environment with the default active-language resolver.
func NewEnvironment(repo driven.ContentRepository, settings domain.Settings) *Environment {
	return &Environment{
		Repository: repo,
		Settings:   settings,
	}
}

// Active returns the active language for ctx.
func (e *Environment) Active(ctx context.Context) string {
	if e.ActiveLanguage != nil {
		if lang := e.ActiveLanguage(ctx); lang != "" {
			return lang
		}
	}
	return e.Settings.DefaultLanguage()
}

// Hooks holds the extension points fired by the services.
type Hooks struct {
	mu            sync.RWMutex
	indexDocument []driven.IndexDocumentHook
	query         []driven.QueryHook
}

// NewHooks creates an empty hook registry.
func NewHooks() *Hooks {
	return &Hooks{}
}

// OnIndexDocument registers a hook fired for every produced record.
func (h *Hooks) OnIndexDocument(hook driven.IndexDocumentHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.indexDocument = append(h.indexDocument, hook)
}

// OnQuery registers a hook fired for every accepted search hit.
func (h *Hooks) OnQuery(hook driven.QueryHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.query = append(h.query, hook)
}

func (h *Hooks) fireIndexDocument(ctx context.Context, page *domain.Page, record *domain.IndexRecord) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.indexDocument {
		hook(ctx, page, record)
	}
}

func (h *Hooks) fireQuery(ctx context.Context, event domain.QueryEvent) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.query {
		hook(ctx, event)
	}
}

// CollectHits is a query hook that appends every hit to the envelope.
func CollectHits(_ context.Context, event domain.QueryEvent) {
	if event.Envelope != nil {
		event.Envelope.Hits = append(event.Envelope.Hits, event.Page)
	}
}

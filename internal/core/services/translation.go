package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// TranslationResolver finds the translated version of a page and re-links
// its ancestor chain with translated ancestors where they exist.
type TranslationResolver struct {
	env *Environment
}

// NewTranslationResolver creates a new translation resolver.
func NewTranslationResolver(env *Environment) *TranslationResolver {
	return &TranslationResolver{env: env}
}

// Resolve returns the page at route in lang. An empty lang means the
// active language. The result is always a fresh copy; repository pages
// are never modified.
//
// Returns domain.ErrNotFound if the page does not exist or has no
// translation for lang. Callers treat that as "skip".
func (r *TranslationResolver) Resolve(ctx context.Context, route, lang string) (*domain.Page, error) {
	page, err := r.env.Repository.Page(ctx, route)
	if err != nil {
		return nil, err
	}

	if lang == "" {
		lang = r.env.Active(ctx)
	}

	if lang == domain.LanguageUndetermined || page.Language == "" || page.Language == lang {
		return page.Clone(), nil
	}

	translated, err := r.env.Repository.PageAt(ctx, page.TranslationPath(lang), lang)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("load translation of %s: %w", route, err)
		}
		logger.Debug("No %s translation for %s", lang, route)
		return nil, err
	}

	// The original chain decides which ancestor is inspected next;
	// translations only replace the nodes that end up in the result.
	child := translated
	for original := page.Parent; original != nil; original = original.Parent {
		node, err := r.ancestor(ctx, original, lang)
		if err != nil {
			return nil, err
		}
		child.Parent = node
		child = node
	}

	return translated, nil
}

// ancestor returns the translation of original in lang, or a detached copy
// of original when no translation exists at that level.
func (r *TranslationResolver) ancestor(ctx context.Context, original *domain.Page, lang string) (*domain.Page, error) {
	node, err := r.env.Repository.PageAt(ctx, original.TranslationPath(lang), lang)
	switch {
	case err == nil:
		return node, nil
	case errors.Is(err, domain.ErrNotFound):
		return original.Detached(), nil
	default:
		return nil, fmt.Errorf("load translation of ancestor %s: %w", original.Route, err)
	}
}

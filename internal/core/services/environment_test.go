package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func TestEnvironment_Active(t *testing.T) {
	env := testEnvironment(newMockRepository())
	assert.Equal(t, "en", env.Active(context.Background()))

	env.Settings.ActiveLanguage = "fr"
	assert.Equal(t, "fr", env.Active(context.Background()))

	env.ActiveLanguage = func(context.Context) string { return "" }
	assert.Equal(t, "fr", env.Active(context.Background()))

	env.ActiveLanguage = func(context.Context) string { return "de" }
	assert.Equal(t, "de", env.Active(context.Background()))
}

func TestHooks_NilSafe(t *testing.T) {
	var hooks *Hooks
	rec := &domain.IndexRecord{ID: "en:/"}

	assert.NotPanics(t, func() {
		hooks.fireIndexDocument(context.Background(), &domain.Page{}, rec)
		hooks.fireQuery(context.Background(), domain.QueryEvent{})
	})
}

func TestHooks_FireInOrder(t *testing.T) {
	hooks := NewHooks()
	var calls []string
	hooks.OnIndexDocument(func(context.Context, *domain.Page, *domain.IndexRecord) { calls = append(calls, "first") })
	hooks.OnIndexDocument(func(context.Context, *domain.Page, *domain.IndexRecord) { calls = append(calls, "second") })

	hooks.fireIndexDocument(context.Background(), &domain.Page{}, &domain.IndexRecord{})

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestCollectHits(t *testing.T) {
	env := &domain.ResultEnvelope{}
	page := &domain.Page{Route: "/blog"}

	CollectHits(context.Background(), domain.QueryEvent{Page: page, Envelope: env})
	CollectHits(context.Background(), domain.QueryEvent{Page: page})

	assert.Equal(t, []*domain.Page{page}, env.Hits)
}

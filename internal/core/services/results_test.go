package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func collectingHooks() *Hooks {
	hooks := NewHooks()
	hooks.OnQuery(CollectHits)
	return hooks
}

func TestResultProcessor_LanguageFilter(t *testing.T) {
	repo := siteFixture()
	p := NewResultProcessor(NewTranslationResolver(testEnvironment(repo)), collectingHooks())

	hits := domain.RawHitSet{
		ExecutionTime: time.Millisecond,
		IDs:           []string{"fr:/blog", "en:/blog", "de:/blog", "en:/blog/tomatoes"},
	}
	env := p.Process(context.Background(), hits, "blog", domain.QueryRequest{Langs: "en"})

	assert.Equal(t, 2, env.NumberOfHits)
	assert.Equal(t, time.Millisecond, env.ExecutionTime)
	assert.Equal(t, "blog", env.Query)
	require.Len(t, env.Hits, 2)
	assert.Equal(t, "/blog", env.Hits[0].Route)
	assert.Equal(t, "/blog/tomatoes", env.Hits[1].Route)
	// Rejected languages never reach the repository.
	assert.Equal(t, 2, repo.pageCalls)
}

func TestResultProcessor_MultipleLanguages(t *testing.T) {
	p := NewResultProcessor(NewTranslationResolver(testEnvironment(siteFixture())), collectingHooks())

	hits := domain.RawHitSet{IDs: []string{"fr:/blog", "en:/blog"}}
	env := p.Process(context.Background(), hits, "blog", domain.QueryRequest{Langs: "en,fr"})

	require.Len(t, env.Hits, 2)
	assert.Equal(t, "Le blog", env.Hits[0].Title)
	assert.Equal(t, "fr", env.Hits[0].Language)
}

func TestResultProcessor_AcceptsLimitPlusOne(t *testing.T) {
	repo := newMockRepository()
	var ids []string
	for _, route := range []string{"/a", "/b", "/c", "/d", "/e"} {
		repo.add(newPage(route, "en", "/site"+route, "default", nil))
		ids = append(ids, domain.IndexID("en", route))
	}
	p := NewResultProcessor(NewTranslationResolver(testEnvironment(repo)), collectingHooks())

	env := p.Process(context.Background(), domain.RawHitSet{IDs: ids}, "x", domain.QueryRequest{Langs: "en", Limit: 2})

	assert.Equal(t, 3, env.NumberOfHits)
	assert.Len(t, env.Hits, 3)
}

func TestResultProcessor_SkipsUnresolvable(t *testing.T) {
	p := NewResultProcessor(NewTranslationResolver(testEnvironment(siteFixture())), collectingHooks())

	hits := domain.RawHitSet{IDs: []string{"malformed", "fr:/blog/tomatoes", "en:/gone", "en:/blog"}}
	env := p.Process(context.Background(), hits, "x", domain.QueryRequest{Langs: "en,fr"})

	assert.Equal(t, 1, env.NumberOfHits)
	require.Len(t, env.Hits, 1)
	assert.Equal(t, "/blog", env.Hits[0].Route)
}

func TestResultProcessor_NoHooks(t *testing.T) {
	p := NewResultProcessor(NewTranslationResolver(testEnvironment(siteFixture())), nil)

	env := p.Process(context.Background(), domain.RawHitSet{IDs: []string{"en:/blog"}}, "x", domain.QueryRequest{Langs: "en"})

	assert.Equal(t, 1, env.NumberOfHits)
	assert.Empty(t, env.Hits)
}

func TestResultProcessor_QueryEvent(t *testing.T) {
	var events []domain.QueryEvent
	hooks := NewHooks()
	hooks.OnQuery(func(_ context.Context, e domain.QueryEvent) {
		events = append(events, e)
	})
	p := NewResultProcessor(NewTranslationResolver(testEnvironment(siteFixture())), hooks)

	req := domain.QueryRequest{Langs: "en", Fuzzy: true}
	env := p.Process(context.Background(), domain.RawHitSet{IDs: []string{"en:/blog"}}, "blog", req)

	require.Len(t, events, 1)
	assert.Equal(t, "blog", events[0].Query)
	assert.Equal(t, req, events[0].Request)
	assert.Same(t, env, events[0].Envelope)
	assert.Equal(t, "/blog", events[0].Page.Route)
}

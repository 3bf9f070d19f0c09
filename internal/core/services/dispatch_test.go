package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		req      domain.QueryRequest
		strategy domain.Strategy
		query    string
		phrase   string
	}{
		{
			name:     "quoted phrase",
			req:      domain.QueryRequest{Query: `"red tomatoes"`, Phrases: true},
			strategy: domain.StrategyPlain,
			query:    "red tomatoes",
			phrase:   "red tomatoes",
		},
		{
			name:     "quoted phrase wins over boolean type",
			req:      domain.QueryRequest{Query: `"a -b"`, Phrases: true, SearchType: domain.SearchTypeBoolean},
			strategy: domain.StrategyPlain,
			query:    "a -b",
			phrase:   "a -b",
		},
		{
			name:     "quotes ignored without phrases",
			req:      domain.QueryRequest{Query: `"red tomatoes"`},
			strategy: domain.StrategyPlain,
			query:    `"red tomatoes"`,
		},
		{
			name:     "empty quotes are not a phrase",
			req:      domain.QueryRequest{Query: `""`, Phrases: true},
			strategy: domain.StrategyPlain,
			query:    `""`,
		},
		{
			name:     "basic keeps operators literal",
			req:      domain.QueryRequest{Query: "tomato -potato", SearchType: domain.SearchTypeBasic},
			strategy: domain.StrategyPlain,
			query:    "tomato -potato",
		},
		{
			name:     "boolean declared",
			req:      domain.QueryRequest{Query: "tomato potato", SearchType: domain.SearchTypeBoolean},
			strategy: domain.StrategyBoolean,
			query:    "tomato potato",
		},
		{
			name:     "auto with negation",
			req:      domain.QueryRequest{Query: "tomato -potato", SearchType: domain.SearchTypeAuto},
			strategy: domain.StrategyBoolean,
			query:    "tomato -potato",
		},
		{
			name:     "auto with or",
			req:      domain.QueryRequest{Query: "tomato OR potato"},
			strategy: domain.StrategyBoolean,
			query:    "tomato OR potato",
		},
		{
			name:     "auto with parentheses",
			req:      domain.QueryRequest{Query: "(tomato potato)", SearchType: domain.SearchTypeDefault},
			strategy: domain.StrategyBoolean,
			query:    "(tomato potato)",
		},
		{
			name:     "or inside a word is plain",
			req:      domain.QueryRequest{Query: "orange tractor"},
			strategy: domain.StrategyPlain,
			query:    "orange tractor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Classify(tt.req)
			assert.Equal(t, tt.strategy, plan.Strategy)
			assert.Equal(t, tt.query, plan.Query)
			assert.Equal(t, tt.phrase, plan.Phrase)
		})
	}
}

func TestQueryDispatcher_Dispatch(t *testing.T) {
	engine := newMockEngine()
	engine.exists = true
	engine.hits = domain.RawHitSet{IDs: []string{"en:/blog"}}
	d := NewQueryDispatcher(engine, "")

	hits, plan, err := d.Dispatch(context.Background(), domain.QueryRequest{
		Query:     "tomato -potato",
		AsYouType: true,
		Fuzzy:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyBoolean, plan.Strategy)
	assert.Equal(t, []string{"en:/blog"}, hits.IDs)
	require.Len(t, engine.searches, 1)
	assert.Equal(t, "boolean:tomato -potato", engine.searches[0])
	assert.Equal(t, domain.DefaultLimit, engine.params[0].Limit)
	assert.True(t, engine.params[0].AsYouType)
	assert.True(t, engine.params[0].Fuzzy)
}

func TestQueryDispatcher_Dispatch_Phrase(t *testing.T) {
	engine := newMockEngine()
	engine.exists = true
	d := NewQueryDispatcher(engine, domain.DefaultIndexName)

	_, _, err := d.Dispatch(context.Background(), domain.QueryRequest{
		Query:   `"red tomatoes"`,
		Phrases: true,
		Limit:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, "plain:red tomatoes", engine.searches[0])
	assert.Equal(t, "red tomatoes", engine.params[0].Phrase)
	assert.Equal(t, 3, engine.params[0].Limit)
}

func TestQueryDispatcher_Dispatch_IndexNotFound(t *testing.T) {
	d := NewQueryDispatcher(newMockEngine(), "")

	_, _, err := d.Dispatch(context.Background(), domain.QueryRequest{Query: "tomato"})
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestQueryDispatcher_Dispatch_EngineError(t *testing.T) {
	engine := newMockEngine()
	engine.exists = true
	engine.searchErr = domain.ErrInvalidInput
	d := NewQueryDispatcher(engine, "")

	_, _, err := d.Dispatch(context.Background(), domain.QueryRequest{Query: "tomato"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

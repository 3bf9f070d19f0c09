package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// booleanOperators are the characters that make an auto query boolean.
// The word "or" is matched separately as a whole term.
var booleanOperators = []string{"-", "(", ")"}

// QueryDispatcher classifies queries and runs them against the engine.
type QueryDispatcher struct {
	engine    driven.IndexEngine
	indexName string
}

// NewQueryDispatcher creates a dispatcher for the named index.
func NewQueryDispatcher(engine driven.IndexEngine, indexName string) *QueryDispatcher {
	if indexName == "" {
		indexName = domain.DefaultIndexName
	}
	return &QueryDispatcher{engine: engine, indexName: indexName}
}

// Classify selects the strategy for req. A quoted query with phrases
// enabled becomes a plain phrase search; otherwise the declared type
// decides, and auto types look for boolean operators.
func Classify(req domain.QueryRequest) domain.QueryPlan {
	query := req.Query

	if req.Phrases {
		trimmed := strings.TrimSpace(query)
		if len(trimmed) > 2 && strings.HasPrefix(trimmed, "\"") && strings.HasSuffix(trimmed, "\"") {
			phrase := trimmed[1 : len(trimmed)-1]
			return domain.QueryPlan{Strategy: domain.StrategyPlain, Query: phrase, Phrase: phrase}
		}
	}

	switch req.SearchType {
	case domain.SearchTypeBasic:
		return domain.QueryPlan{Strategy: domain.StrategyPlain, Query: query}
	case domain.SearchTypeBoolean:
		return domain.QueryPlan{Strategy: domain.StrategyBoolean, Query: query}
	default:
		if hasBooleanOperator(query) {
			return domain.QueryPlan{Strategy: domain.StrategyBoolean, Query: query}
		}
		return domain.QueryPlan{Strategy: domain.StrategyPlain, Query: query}
	}
}

func hasBooleanOperator(query string) bool {
	for _, op := range booleanOperators {
		if strings.Contains(query, op) {
			return true
		}
	}
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if strings.Trim(term, "()") == "or" {
			return true
		}
	}
	return false
}

// Dispatch classifies req and runs the selected search.
// Returns domain.ErrIndexNotFound if the index was never built.
func (d *QueryDispatcher) Dispatch(ctx context.Context, req domain.QueryRequest) (domain.RawHitSet, domain.QueryPlan, error) {
	plan := Classify(req)
	logger.Debug("Strategy: %s, query=%q, phrase=%q", plan.Strategy, plan.Query, plan.Phrase)

	handle, err := d.engine.SelectIndex(ctx, d.indexName)
	if err != nil {
		return domain.RawHitSet{}, plan, fmt.Errorf("select index %s: %w", d.indexName, err)
	}
	defer closeHandle(handle)

	params := driven.SearchParams{
		Limit:     req.EffectiveLimit(),
		Phrase:    plan.Phrase,
		AsYouType: req.AsYouType,
		Fuzzy:     req.Fuzzy,
	}

	var hits domain.RawHitSet
	switch plan.Strategy {
	case domain.StrategyBoolean:
		hits, err = handle.SearchBoolean(ctx, plan.Query, params)
	default:
		hits, err = handle.Search(ctx, plan.Query, params)
	}
	if err != nil {
		return domain.RawHitSet{}, plan, fmt.Errorf("%s search: %w", plan.Strategy, err)
	}

	logger.Debug("Engine returned %d ids in %s", len(hits.IDs), hits.ExecutionTime)
	return hits, plan, nil
}

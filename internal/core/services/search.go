package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs queries and post-processes their hits.
type SearchService struct {
	env        *Environment
	dispatcher *QueryDispatcher
	processor  *ResultProcessor
}

// NewSearchService creates a new search service.
// The hooks parameter is optional (can be nil).
func NewSearchService(env *Environment, engine driven.IndexEngine, hooks *Hooks) *SearchService {
	return &SearchService{
		env:        env,
		dispatcher: NewQueryDispatcher(engine, env.Settings.IndexName),
		processor:  NewResultProcessor(NewTranslationResolver(env), hooks),
	}
}

// Defaults returns a request pre-filled from configuration, with the
// active language as the accepted language set.
func (s *SearchService) Defaults() domain.QueryRequest {
	req := s.env.Settings.QueryDefaults()
	req.Langs = s.env.Active(context.Background())
	return req
}

// Search classifies the query, runs it and post-processes the hits.
// An empty query returns an empty envelope without touching the index.
func (s *SearchService) Search(ctx context.Context, req domain.QueryRequest) (*domain.ResultEnvelope, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q, type: %q, langs: %q, limit: %d", req.Query, req.SearchType, req.Langs, req.Limit)

	if req.Langs == "" {
		req.Langs = s.env.Active(ctx)
	}
	queryID := uuid.NewString()

	if strings.TrimSpace(req.Query) == "" {
		logger.Debug("Empty query, returning no results")
		return &domain.ResultEnvelope{QueryID: queryID, Query: req.Query}, nil
	}

	hits, plan, err := s.dispatcher.Dispatch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	envelope := s.processor.Process(ctx, hits, plan.Query, req)
	envelope.QueryID = queryID
	logger.Info("Final results: %d", envelope.NumberOfHits)
	return envelope, nil
}

// SearchJSON runs Search and returns the pretty-printed envelope.
func (s *SearchService) SearchJSON(ctx context.Context, req domain.QueryRequest) ([]byte, error) {
	envelope, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(envelope, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}
	return data, nil
}

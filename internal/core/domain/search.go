package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultLimit is the number of hits returned when a request sets none.
const DefaultLimit = 20

// SearchType is the declared kind of a search request.
type SearchType string

// Available search types.
const (
	// SearchTypeBasic runs a plain, ordered, non-boolean search.
	SearchTypeBasic SearchType = "basic"

	// SearchTypeBoolean interprets "-", parentheses and "or" as operators.
	SearchTypeBoolean SearchType = "boolean"

	// SearchTypeAuto guesses between basic and boolean from the query text.
	SearchTypeAuto SearchType = "auto"

	// SearchTypeDefault behaves like SearchTypeAuto.
	SearchTypeDefault SearchType = "default"
)

// IsValid returns true if the search type is recognised.
// The empty type is valid and behaves like SearchTypeAuto.
func (t SearchType) IsValid() bool {
	switch t {
	case SearchTypeBasic, SearchTypeBoolean, SearchTypeAuto, SearchTypeDefault, "":
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t SearchType) String() string {
	return string(t)
}

// Strategy is the search strategy selected for a query.
type Strategy int

// Search strategies.
const (
	// StrategyPlain is a plain relevance search.
	StrategyPlain Strategy = iota

	// StrategyBoolean is a boolean expression search.
	StrategyBoolean
)

// String returns the string representation.
func (s Strategy) String() string {
	switch s {
	case StrategyPlain:
		return "plain"
	case StrategyBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// QueryPlan is the outcome of classifying a query.
type QueryPlan struct {
	// Strategy selects the engine call.
	Strategy Strategy

	// Query is the text handed to the engine (quotes stripped for phrases).
	Query string

	// Phrase is the explicit multi-word phrase hint, empty when unset.
	Phrase string
}

// QueryRequest configures a search.
type QueryRequest struct {
	// Query is the raw query string.
	Query string

	// SearchType is the declared search type.
	SearchType SearchType

	// Langs is a comma-separated list of accepted language codes.
	Langs string

	// Limit is the maximum number of hits (see ResultEnvelope.NumberOfHits).
	Limit int

	// AsYouType treats the last term as a prefix.
	AsYouType bool

	// Fuzzy enables approximate term matching.
	Fuzzy bool

	// Phrases enables quoted phrase detection.
	Phrases bool

	// JSON requests machine-readable output.
	JSON bool
}

// AcceptedLanguages returns the set of languages listed in Langs.
func (r QueryRequest) AcceptedLanguages() map[string]bool {
	accepted := make(map[string]bool)
	for _, lang := range strings.Split(r.Langs, ",") {
		lang = strings.TrimSpace(lang)
		if lang != "" {
			accepted[lang] = true
		}
	}
	return accepted
}

// WithOverrides returns a copy of r where a non-empty langs or searchType
// replaces the configured value.
func (r QueryRequest) WithOverrides(langs string, searchType SearchType) QueryRequest {
	if langs != "" {
		r.Langs = langs
	}
	if searchType != "" {
		r.SearchType = searchType
	}
	return r
}

// EffectiveLimit returns Limit, or DefaultLimit when Limit is not positive.
func (r QueryRequest) EffectiveLimit() int {
	if r.Limit <= 0 {
		return DefaultLimit
	}
	return r.Limit
}

// RawHitSet is the engine's raw answer to a query.
type RawHitSet struct {
	// ExecutionTime is how long the engine took.
	ExecutionTime time.Duration

	// IDs are composite record keys in relevance order.
	IDs []string
}

// ResultEnvelope is the post-processed search response.
type ResultEnvelope struct {
	// QueryID identifies this search in logs and hooks.
	QueryID string

	// Query is the query text as received.
	Query string

	// ExecutionTime is copied from the raw hit set.
	ExecutionTime time.Duration

	// NumberOfHits counts the hits that passed filtering and resolution.
	NumberOfHits int

	// Hits holds resolved pages appended by the collecting query hook.
	Hits []*Page
}

// HitView is the serialised form of one hit.
type HitView struct {
	Route    string `json:"route"`
	Language string `json:"language,omitempty"`
	Title    string `json:"title"`
	Path     string `json:"path"`
}

// MarshalJSON renders the envelope with millisecond execution time.
func (e *ResultEnvelope) MarshalJSON() ([]byte, error) {
	hits := make([]HitView, 0, len(e.Hits))
	for _, p := range e.Hits {
		hits = append(hits, HitView{
			Route:    p.Route,
			Language: p.Language,
			Title:    p.Title,
			Path:     p.FilePath(),
		})
	}
	return json.Marshal(struct {
		ExecutionTime string    `json:"execution_time"`
		NumberOfHits  int       `json:"number_of_hits"`
		Hits          []HitView `json:"hits"`
	}{
		ExecutionTime: FormatExecutionTime(e.ExecutionTime),
		NumberOfHits:  e.NumberOfHits,
		Hits:          hits,
	})
}

// FormatExecutionTime renders a duration as milliseconds ("1.234 ms").
func FormatExecutionTime(d time.Duration) string {
	return fmt.Sprintf("%.3f ms", float64(d)/float64(time.Millisecond))
}

// QueryEvent is passed to query hooks for every accepted hit.
type QueryEvent struct {
	// Page is the resolved page.
	Page *Page

	// Query is the query text after classification.
	Query string

	// Request is the effective request after overrides.
	Request QueryRequest

	// Envelope is the envelope being built; hooks may append to Hits.
	Envelope *ResultEnvelope
}

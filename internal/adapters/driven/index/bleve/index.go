package bleve

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/index/boolquery"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.IndexHandle = (*Index)(nil)

// batchSize is the number of records committed per batch in Run.
const batchSize = 100

// fuzziness is the edit distance allowed by fuzzy term matching.
const fuzziness = 1

// Index is an open Bleve index.
type Index struct {
	path  string
	index bleve.Index
}

// recreate replaces the index directory with an empty index analysed by
// analyzer.
func (i *Index) recreate(analyzer string) error {
	if i.index != nil {
		if err := i.index.Close(); err != nil {
			return fmt.Errorf("close index: %w", err)
		}
		i.index = nil
	}
	if err := os.RemoveAll(i.path); err != nil {
		return fmt.Errorf("removing old index: %w", err)
	}
	index, err := bleve.New(i.path, buildMapping(analyzer))
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	i.index = index
	return nil
}

// SetLanguage selects the stemmer. The mapping of a Bleve index is fixed,
// so the index is recreated; call it before loading records.
func (i *Index) SetLanguage(stemmer string) error {
	analyzer, err := analyzerFor(stemmer)
	if err != nil {
		return err
	}
	count, err := i.index.DocCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: stemmer must be set on an empty index", domain.ErrInvalidInput)
	}
	return i.recreate(analyzer)
}

func document(rec domain.IndexRecord) map[string]any {
	return map[string]any{
		fieldName:    rec.Name,
		fieldContent: rec.Content,
	}
}

// Insert adds rec, replacing any record with the same id.
func (i *Index) Insert(_ context.Context, rec domain.IndexRecord) error {
	if err := i.index.Index(rec.ID, document(rec)); err != nil {
		return fmt.Errorf("insert %s: %w", rec.ID, err)
	}
	return nil
}

// Delete removes the record with id. Deleting a missing id is not an error.
func (i *Index) Delete(_ context.Context, id string) error {
	if err := i.index.Delete(id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// Run loads every record of src, committing in batches.
func (i *Index) Run(ctx context.Context, src driven.RecordSource) (int, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	batch := i.index.NewBatch()
	for rec := range records {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if err := batch.Index(rec.ID, document(rec)); err != nil {
			return count, fmt.Errorf("insert %s: %w", rec.ID, err)
		}
		count++
		if batch.Size() >= batchSize {
			if err := i.index.Batch(batch); err != nil {
				return count, fmt.Errorf("commit batch: %w", err)
			}
			batch = i.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := i.index.Batch(batch); err != nil {
			return count, fmt.Errorf("commit final batch: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return count, err
	}

	logger.Debug("Indexed %d records into %s", count, i.path)
	return count, nil
}

// Search runs a plain query. Terms are ANDed; a phrase hint searches for the
// exact phrase.
func (i *Index) Search(ctx context.Context, text string, params driven.SearchParams) (domain.RawHitSet, error) {
	var q query.Query
	if params.Phrase != "" {
		q = phraseQuery(params.Phrase)
	} else {
		q = plainQuery(text, params.AsYouType, params.Fuzzy)
	}
	return i.run(ctx, q, params.Limit)
}

// SearchBoolean runs a boolean query.
func (i *Index) SearchBoolean(ctx context.Context, text string, params driven.SearchParams) (domain.RawHitSet, error) {
	return i.run(ctx, booleanQuery(boolquery.Parse(text), params.Fuzzy), params.Limit)
}

func (i *Index) run(ctx context.Context, q query.Query, limit int) (domain.RawHitSet, error) {
	start := time.Now()
	if q == nil {
		return domain.RawHitSet{ExecutionTime: time.Since(start)}, nil
	}
	if limit <= 0 {
		limit = domain.DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return domain.RawHitSet{}, fmt.Errorf("search query: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return domain.RawHitSet{ExecutionTime: res.Took, IDs: ids}, nil
}

// Close flushes and closes the index.
func (i *Index) Close() error {
	if i.index == nil {
		return nil
	}
	err := i.index.Close()
	i.index = nil
	return err
}

// fields returns q applied to every indexed field, combined as a disjunction.
func fields(build func(field string) query.Query) query.Query {
	return bleve.NewDisjunctionQuery(build(fieldName), build(fieldContent))
}

func matchTerm(term string) query.Query {
	return fields(func(field string) query.Query {
		q := bleve.NewMatchQuery(term)
		q.SetField(field)
		return q
	})
}

func fuzzyTerm(term string) query.Query {
	term = strings.ToLower(term)
	return fields(func(field string) query.Query {
		q := bleve.NewFuzzyQuery(term)
		q.SetFuzziness(fuzziness)
		q.SetField(field)
		return q
	})
}

func prefixTerm(term string) query.Query {
	term = strings.ToLower(term)
	return fields(func(field string) query.Query {
		q := bleve.NewPrefixQuery(term)
		q.SetField(field)
		return q
	})
}

func phraseQuery(phrase string) query.Query {
	if strings.TrimSpace(phrase) == "" {
		return nil
	}
	return fields(func(field string) query.Query {
		q := bleve.NewMatchPhraseQuery(phrase)
		q.SetField(field)
		return q
	})
}

// plainQuery ANDs the terms of text. Fuzzy matches every term within the
// edit distance or as a prefix; as-you-type makes the last term a prefix.
func plainQuery(text string, asYouType, fuzzy bool) query.Query {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	parts := make([]query.Query, 0, len(words))
	for n, w := range words {
		last := n == len(words)-1
		switch {
		case fuzzy:
			parts = append(parts, bleve.NewDisjunctionQuery(fuzzyTerm(w), prefixTerm(w), matchTerm(w)))
		case asYouType && last:
			parts = append(parts, bleve.NewDisjunctionQuery(prefixTerm(w), matchTerm(w)))
		default:
			parts = append(parts, matchTerm(w))
		}
	}
	return bleve.NewConjunctionQuery(parts...)
}

// booleanQuery translates the tree. Negations need a positive sibling;
// groups made only of negations match nothing and are dropped.
func booleanQuery(n boolquery.Node, fuzzy bool) query.Query {
	switch v := n.(type) {
	case boolquery.Term:
		if v.Phrase {
			return phraseQuery(v.Text)
		}
		if fuzzy {
			return bleve.NewDisjunctionQuery(fuzzyTerm(v.Text), matchTerm(v.Text))
		}
		return matchTerm(v.Text)
	case boolquery.Or:
		var parts []query.Query
		for _, c := range v.Children {
			if q := booleanQuery(c, fuzzy); q != nil {
				parts = append(parts, q)
			}
		}
		if len(parts) == 0 {
			return nil
		}
		return bleve.NewDisjunctionQuery(parts...)
	case boolquery.And:
		positive, negative := boolquery.Split(v)
		var must, mustNot []query.Query
		for _, c := range positive {
			if q := booleanQuery(c, fuzzy); q != nil {
				must = append(must, q)
			}
		}
		if len(must) == 0 {
			return nil
		}
		for _, c := range negative {
			if q := booleanQuery(c, false); q != nil {
				mustNot = append(mustNot, q)
			}
		}
		return query.NewBooleanQuery(must, nil, mustNot)
	default:
		return nil
	}
}

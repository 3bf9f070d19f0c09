package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.IndexHandle = (*Index)(nil)

// batchSize is the number of records committed per transaction in Run.
const batchSize = 500

// FTS5 tokenizers.
const (
	tokenizerDefault = "unicode61 remove_diacritics 2"
	tokenizerPorter  = "porter unicode61 remove_diacritics 2"
)

// stemmers maps accepted stemmer names to tokenizers.
var stemmers = map[string]string{
	domain.StemmerDefault: tokenizerDefault,
	"porter":              tokenizerPorter,
	"english":             tokenizerPorter,
	"en":                  tokenizerPorter,
}

// Index is an open FTS5 index.
type Index struct {
	db   *sql.DB
	path string
}

// SetLanguage selects the stemmer. The full-text table is rebuilt with the
// matching tokenizer.
func (i *Index) SetLanguage(stemmer string) error {
	tokenizer, ok := stemmers[strings.ToLower(stemmer)]
	if !ok {
		return fmt.Errorf("%w: stemmer %q is not available with the sqlite driver, use porter or set search.driver = %q",
			domain.ErrUnsupportedType, stemmer, domain.DriverBleve)
	}
	return i.createFTS(context.Background(), tokenizer)
}

// createFTS (re)creates the FTS5 table and its sync triggers, then
// rebuilds it from the content table.
func (i *Index) createFTS(ctx context.Context, tokenizer string) error {
	schema := fmt.Sprintf(`
DROP TRIGGER IF EXISTS pages_au;
DROP TRIGGER IF EXISTS pages_ad;
DROP TRIGGER IF EXISTS pages_ai;
DROP TABLE IF EXISTS pages_fts;

CREATE VIRTUAL TABLE pages_fts USING fts5(
	name, content,
	content='pages',
	content_rowid='rowid',
	tokenize='%s'
);

CREATE TRIGGER pages_ai AFTER INSERT ON pages BEGIN
	INSERT INTO pages_fts(rowid, name, content)
	VALUES (new.rowid, new.name, new.content);
END;

CREATE TRIGGER pages_ad AFTER DELETE ON pages BEGIN
	INSERT INTO pages_fts(pages_fts, rowid, name, content)
	VALUES ('delete', old.rowid, old.name, old.content);
END;

CREATE TRIGGER pages_au AFTER UPDATE ON pages BEGIN
	INSERT INTO pages_fts(pages_fts, rowid, name, content)
	VALUES ('delete', old.rowid, old.name, old.content);
	INSERT INTO pages_fts(rowid, name, content)
	VALUES (new.rowid, new.name, new.content);
END;

INSERT INTO pages_fts(pages_fts) VALUES ('rebuild');
`, tokenizer)

	if _, err := i.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create full-text table: %w", err)
	}
	_, err := i.db.ExecContext(ctx,
		`INSERT INTO index_meta (key, value) VALUES ('tokenizer', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, tokenizer)
	if err != nil {
		return fmt.Errorf("store tokenizer: %w", err)
	}
	return nil
}

// Insert adds rec, replacing any record with the same id.
func (i *Index) Insert(ctx context.Context, rec domain.IndexRecord) error {
	return insert(ctx, i.db, rec)
}

// Delete removes the record with id. Deleting a missing id is not an error.
func (i *Index) Delete(ctx context.Context, id string) error {
	if _, err := i.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insert replaces the record with rec.ID. The old row is deleted explicitly
// because REPLACE conflict resolution does not fire delete triggers.
func insert(ctx context.Context, db execer, rec domain.IndexRecord) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, rec.ID); err != nil {
		return fmt.Errorf("replace %s: %w", rec.ID, err)
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO pages (id, name, content) VALUES (?, ?, ?)`,
		rec.ID, rec.Name, rec.Content)
	if err != nil {
		return fmt.Errorf("insert %s: %w", rec.ID, err)
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
	var tx *sql.Tx
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	for rec := range records {
		if tx == nil {
			tx, err = i.db.BeginTx(ctx, nil)
			if err != nil {
				return count, fmt.Errorf("begin tx: %w", err)
			}
		}
		if err := insert(ctx, tx, rec); err != nil {
			return count, err
		}
		count++
		if count%batchSize == 0 {
			if err := tx.Commit(); err != nil {
				return count, fmt.Errorf("commit batch: %w", err)
			}
			tx = nil
		}
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return count, fmt.Errorf("commit batch: %w", err)
		}
		tx = nil
	}
	if err := ctx.Err(); err != nil {
		return count, err
	}

	logger.Debug("Indexed %d records into %s", count, i.path)
	return count, nil
}

// Search runs a plain query. A phrase hint searches for the exact phrase.
func (i *Index) Search(ctx context.Context, query string, params driven.SearchParams) (domain.RawHitSet, error) {
	var expr string
	if params.Phrase != "" {
		expr = phraseExpr(params.Phrase)
	} else {
		expr = plainExpr(query, params.AsYouType, params.Fuzzy)
	}
	return i.match(ctx, expr, params.Limit)
}

// SearchBoolean runs a boolean query.
func (i *Index) SearchBoolean(ctx context.Context, query string, params driven.SearchParams) (domain.RawHitSet, error) {
	return i.match(ctx, booleanExpr(query), params.Limit)
}

func (i *Index) match(ctx context.Context, expr string, limit int) (domain.RawHitSet, error) {
	start := time.Now()
	if expr == "" {
		return domain.RawHitSet{ExecutionTime: time.Since(start)}, nil
	}
	if limit <= 0 {
		limit = domain.DefaultLimit
	}

	logger.Debug("FTS5 match: %s", expr)
	rows, err := i.db.QueryContext(ctx,
		`SELECT p.id
		 FROM pages_fts f
		 JOIN pages p ON p.rowid = f.rowid
		 WHERE pages_fts MATCH ?
		 ORDER BY f.rank
		 LIMIT ?`, expr, limit)
	if err != nil {
		return domain.RawHitSet{}, fmt.Errorf("search query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return domain.RawHitSet{}, fmt.Errorf("scan result: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return domain.RawHitSet{}, fmt.Errorf("iterate results: %w", err)
	}

	return domain.RawHitSet{ExecutionTime: time.Since(start), IDs: ids}, nil
}

// Close closes the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}

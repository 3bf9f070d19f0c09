package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/index/sqlite/migrations"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// Ensure Engine implements the interface.
var _ driven.IndexEngine = (*Engine)(nil)

// FileSuffix is appended to the index name to form the database file name.
const FileSuffix = ".db"

// Engine creates and opens FTS5 indexes stored below a data directory.
type Engine struct {
	dataDir string
}

// NewEngine creates an engine storing indexes in dataDir.
// If dataDir is empty, defaults to ~/.pagesearch/data.
func NewEngine(dataDir string) (*Engine, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pagesearch", "data")
	}
	return &Engine{dataDir: dataDir}, nil
}

// Path returns the database file of the named index.
func (e *Engine) Path(name string) string {
	return filepath.Join(e.dataDir, name+FileSuffix)
}

// CreateIndex drops any existing index with that name and creates an
// empty one.
func (e *Engine) CreateIndex(ctx context.Context, name string) (driven.IndexHandle, error) {
	if err := os.MkdirAll(e.dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := e.Path(name)
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("removing old index: %w", err)
		}
	}

	idx, err := open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := idx.createFTS(ctx, tokenizerDefault); err != nil {
		_ = idx.Close()
		return nil, err
	}

	logger.Debug("Created index %s", path)
	return idx, nil
}

// SelectIndex opens an existing index.
// Returns domain.ErrIndexNotFound if it was never created.
func (e *Engine) SelectIndex(ctx context.Context, name string) (driven.IndexHandle, error) {
	path := e.Path(name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("stat index: %w", err)
	}
	return open(ctx, path)
}

// open connects to the database file and applies pending migrations.
func open(ctx context.Context, path string) (*Index, error) {
	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Index{db: db, path: path}, nil
}

// migrate runs all .up.sql migrations newer than the recorded version.
func migrate(ctx context.Context, db *sql.DB, fsys embed.FS) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_pages.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

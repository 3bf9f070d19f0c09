package bleve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/de"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/lang/es"
	"github.com/blevesearch/bleve/v2/analysis/lang/fr"
	"github.com/blevesearch/bleve/v2/analysis/lang/it"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// Ensure Engine implements the interface.
var _ driven.IndexEngine = (*Engine)(nil)

// DirSuffix is appended to the index name to form the index directory.
const DirSuffix = ".bleve"

// Indexed fields.
const (
	fieldName    = "name"
	fieldContent = "content"
)

// analyzers maps accepted stemmer names to Bleve analyzers.
var analyzers = map[string]string{
	domain.StemmerDefault: standard.Name,
	"porter":              en.AnalyzerName,
	"english":             en.AnalyzerName,
	"en":                  en.AnalyzerName,
	"french":              fr.AnalyzerName,
	"fr":                  fr.AnalyzerName,
	"german":              de.AnalyzerName,
	"de":                  de.AnalyzerName,
	"spanish":             es.AnalyzerName,
	"es":                  es.AnalyzerName,
	"italian":             it.AnalyzerName,
	"it":                  it.AnalyzerName,
}

// Engine creates and opens Bleve indexes stored below a data directory.
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

// Path returns the directory of the named index.
func (e *Engine) Path(name string) string {
	return filepath.Join(e.dataDir, name+DirSuffix)
}

// CreateIndex drops any existing index with that name and creates an
// empty one using the standard analyzer.
func (e *Engine) CreateIndex(_ context.Context, name string) (driven.IndexHandle, error) {
	if err := os.MkdirAll(e.dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	idx := &Index{path: e.Path(name)}
	if err := idx.recreate(standard.Name); err != nil {
		return nil, err
	}
	logger.Debug("Created index %s", idx.path)
	return idx, nil
}

// SelectIndex opens an existing index.
// Returns domain.ErrIndexNotFound if it was never created.
func (e *Engine) SelectIndex(_ context.Context, name string) (driven.IndexHandle, error) {
	path := e.Path(name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("stat index: %w", err)
	}

	index, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &Index{path: path, index: index}, nil
}

// buildMapping indexes name and content with analyzer.
func buildMapping(analyzer string) mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = analyzer
	text.Store = false
	text.IncludeInAll = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(fieldName, text)
	doc.AddFieldMappingsAt(fieldContent, text)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = analyzer
	return m
}

// analyzerFor returns the analyzer of stemmer.
func analyzerFor(stemmer string) (string, error) {
	analyzer, ok := analyzers[strings.ToLower(stemmer)]
	if !ok {
		return "", fmt.Errorf("%w: stemmer %q", domain.ErrUnsupportedType, stemmer)
	}
	return analyzer, nil
}

package domain

// DefaultIndexName is the name of the full-text index.
const DefaultIndexName = "pages.index"

// StemmerDefault disables language-specific stemming.
const StemmerDefault = "default"

// Engine drivers.
const (
	// DriverSQLite stores the index in an SQLite FTS5 database.
	DriverSQLite = "sqlite"

	// DriverBleve stores the index in a Bleve directory.
	DriverBleve = "bleve"
)

// CollectionFilter selects the pages eligible for indexing.
type CollectionFilter struct {
	// Items is the collection definition. It is either a map such as
	// {"@page.descendants": "/blog"} or the same map serialised as YAML.
	Items any

	// Published restricts the collection to published (true) or
	// unpublished (false) pages. Nil keeps published pages only.
	Published *bool
}

// HasItems reports whether the filter defines a collection.
func (f *CollectionFilter) HasItems() bool {
	if f == nil || f.Items == nil {
		return false
	}
	if s, ok := f.Items.(string); ok {
		return s != ""
	}
	return true
}

// Settings is a configuration snapshot consumed by the core services.
type Settings struct {
	// ContentDir is the root of the page tree.
	ContentDir string

	// DataDir holds the index storage.
	DataDir string

	// TemplatesDir holds text templates named by the search.template header.
	TemplatesDir string

	// Driver selects the engine implementation.
	Driver string

	// IndexName is the engine index name.
	IndexName string

	// Languages are the configured site languages, in priority order.
	Languages []string

	// ActiveLanguage is used when a call does not name a language.
	ActiveLanguage string

	// Filter selects the pages to index. Nil means all published, routable pages.
	Filter *CollectionFilter

	// IndexPageByDefault is used when a page header has no search.process flag.
	IndexPageByDefault bool

	// SearchType is the default search type.
	SearchType SearchType

	// Stemmer names the stemming language, StemmerDefault for none.
	Stemmer string

	// Limit is the default hit limit.
	Limit int

	// AsYouType treats the last query term as a prefix.
	AsYouType bool

	// Fuzzy enables approximate matching.
	Fuzzy bool

	// Snippet is the snippet length. Reserved for renderers; unused by the core.
	Snippet int

	// Phrases enables quoted phrase detection.
	Phrases bool
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Driver:             DriverSQLite,
		IndexName:          DefaultIndexName,
		IndexPageByDefault: true,
		SearchType:         SearchTypeAuto,
		Stemmer:            StemmerDefault,
		Limit:              DefaultLimit,
		AsYouType:          true,
		Snippet:            300,
		Phrases:            true,
	}
}

// IndexLanguages returns the languages every page is expanded into.
// Without configured languages this is the undetermined language only.
func (s Settings) IndexLanguages() []string {
	if len(s.Languages) == 0 {
		return []string{LanguageUndetermined}
	}
	return s.Languages
}

// DefaultLanguage returns the active language, falling back to the first
// configured language and then to the undetermined language.
func (s Settings) DefaultLanguage() string {
	if s.ActiveLanguage != "" {
		return s.ActiveLanguage
	}
	if len(s.Languages) > 0 {
		return s.Languages[0]
	}
	return LanguageUndetermined
}

// QueryDefaults returns a request pre-filled from the settings.
func (s Settings) QueryDefaults() QueryRequest {
	return QueryRequest{
		SearchType: s.SearchType,
		Langs:      s.DefaultLanguage(),
		Limit:      s.Limit,
		AsYouType:  s.AsYouType,
		Fuzzy:      s.Fuzzy,
		Phrases:    s.Phrases,
	}
}

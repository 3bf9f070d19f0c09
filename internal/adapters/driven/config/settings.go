package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyContentDir         = "site.content_dir"
	KeyDataDir            = "site.data_dir"
	KeyTemplatesDir       = "site.templates_dir"
	KeyLanguages          = "site.languages"
	KeyActiveLanguage     = "site.active_language"
	KeyDriver             = "search.driver"
	KeyIndexName          = "search.index_name"
	KeyFilterItems        = "search.filter.items"
	KeyFilterPublished    = "search.filter.published"
	KeyIndexPageByDefault = "search.index_page_by_default"
	KeySearchType         = "search.search_type"
	KeyStemmer            = "search.stemmer"
	KeyLimit              = "search.limit"
	KeyAsYouType          = "search.as_you_type"
	KeyFuzzy              = "search.fuzzy"
	KeySnippet            = "search.snippet"
	KeyPhrases            = "search.phrases"
)

// LoadSettings builds a settings snapshot from store, applying defaults
// for missing keys. Invalid values return domain.ErrConfiguration, an
// unknown driver domain.ErrUnsupportedType.
func LoadSettings(store driven.ConfigStore) (domain.Settings, error) {
	s := domain.DefaultSettings()

	s.ContentDir = store.GetString(KeyContentDir)
	s.DataDir = store.GetString(KeyDataDir)
	s.TemplatesDir = store.GetString(KeyTemplatesDir)
	s.Languages = store.GetStringSlice(KeyLanguages)
	s.ActiveLanguage = store.GetString(KeyActiveLanguage)

	if v := store.GetString(KeyDriver); v != "" {
		s.Driver = strings.ToLower(v)
	}
	if v := store.GetString(KeyIndexName); v != "" {
		s.IndexName = v
	}
	if v := store.GetString(KeySearchType); v != "" {
		s.SearchType = domain.SearchType(strings.ToLower(v))
	}
	if v := store.GetString(KeyStemmer); v != "" {
		s.Stemmer = v
	}
	if _, ok := store.Get(KeyLimit); ok {
		s.Limit = store.GetInt(KeyLimit)
	}
	if _, ok := store.Get(KeySnippet); ok {
		s.Snippet = store.GetInt(KeySnippet)
	}

	s.IndexPageByDefault = boolOr(store, KeyIndexPageByDefault, s.IndexPageByDefault)
	s.AsYouType = boolOr(store, KeyAsYouType, s.AsYouType)
	s.Fuzzy = boolOr(store, KeyFuzzy, s.Fuzzy)
	s.Phrases = boolOr(store, KeyPhrases, s.Phrases)

	s.Filter = filter(store)

	if err := Validate(s); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}

// Validate checks a settings snapshot.
func Validate(s domain.Settings) error {
	for _, lang := range s.Languages {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("%w: %s: invalid language %q: %w", domain.ErrConfiguration, KeyLanguages, lang, err)
		}
	}
	if s.ActiveLanguage != "" && s.ActiveLanguage != domain.LanguageUndetermined {
		if _, err := language.Parse(s.ActiveLanguage); err != nil {
			return fmt.Errorf("%w: %s: invalid language %q: %w",
				domain.ErrConfiguration, KeyActiveLanguage, s.ActiveLanguage, err)
		}
		if len(s.Languages) > 0 && !contains(s.Languages, s.ActiveLanguage) {
			return fmt.Errorf("%w: %s: %q is not one of %v",
				domain.ErrConfiguration, KeyActiveLanguage, s.ActiveLanguage, s.Languages)
		}
	}
	if !s.SearchType.IsValid() {
		return fmt.Errorf("%w: %s: unknown search type %q", domain.ErrConfiguration, KeySearchType, s.SearchType)
	}
	if s.Driver != domain.DriverSQLite && s.Driver != domain.DriverBleve {
		return fmt.Errorf("%w: %s: %q", domain.ErrUnsupportedType, KeyDriver, s.Driver)
	}
	if s.Limit <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", domain.ErrConfiguration, KeyLimit, s.Limit)
	}
	if s.Snippet < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %d", domain.ErrConfiguration, KeySnippet, s.Snippet)
	}
	return nil
}

// filter reads the collection filter. Items may be a TOML table, which
// arrives as flattened keys, or a single YAML string.
func filter(store driven.ConfigStore) *domain.CollectionFilter {
	var items any
	if v, ok := store.Get(KeyFilterItems); ok {
		items = v
	} else if section := store.GetSection(KeyFilterItems); len(section) > 0 {
		items = section
	}

	f := &domain.CollectionFilter{Items: items}
	if v, ok := store.Get(KeyFilterPublished); ok {
		if b, ok := v.(bool); ok {
			f.Published = &b
		}
	}
	if !f.HasItems() {
		return nil
	}
	return f
}

func boolOr(store driven.ConfigStore, key string, def bool) bool {
	v, ok := store.Get(key)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

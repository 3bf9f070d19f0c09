package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, DriverSQLite, s.Driver)
	assert.Equal(t, DefaultIndexName, s.IndexName)
	assert.True(t, s.IndexPageByDefault)
	assert.Equal(t, SearchTypeAuto, s.SearchType)
	assert.Equal(t, StemmerDefault, s.Stemmer)
	assert.Equal(t, DefaultLimit, s.Limit)
	assert.True(t, s.AsYouType)
	assert.False(t, s.Fuzzy)
	assert.Equal(t, 300, s.Snippet)
	assert.True(t, s.Phrases)
	assert.Nil(t, s.Filter)
}

func TestSettings_IndexLanguages(t *testing.T) {
	assert.Equal(t, []string{LanguageUndetermined}, Settings{}.IndexLanguages())
	assert.Equal(t, []string{"en", "fr"}, Settings{Languages: []string{"en", "fr"}}.IndexLanguages())
}

func TestSettings_DefaultLanguage(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		expected string
	}{
		{"active wins", Settings{ActiveLanguage: "fr", Languages: []string{"en", "fr"}}, "fr"},
		{"first configured", Settings{Languages: []string{"de", "en"}}, "de"},
		{"undetermined", Settings{}, LanguageUndetermined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.DefaultLanguage())
		})
	}
}

func TestSettings_QueryDefaults(t *testing.T) {
	s := DefaultSettings()
	s.Languages = []string{"en"}
	s.Fuzzy = true
	s.Limit = 5

	req := s.QueryDefaults()
	assert.Equal(t, "en", req.Langs)
	assert.Equal(t, SearchTypeAuto, req.SearchType)
	assert.Equal(t, 5, req.Limit)
	assert.True(t, req.AsYouType)
	assert.True(t, req.Fuzzy)
	assert.True(t, req.Phrases)
	assert.Empty(t, req.Query)
}

func TestCollectionFilter_HasItems(t *testing.T) {
	var nilFilter *CollectionFilter
	assert.False(t, nilFilter.HasItems())
	assert.False(t, (&CollectionFilter{}).HasItems())
	assert.False(t, (&CollectionFilter{Items: ""}).HasItems())
	assert.True(t, (&CollectionFilter{Items: "'@page.descendants': /blog"}).HasItems())
	assert.True(t, (&CollectionFilter{Items: map[string]any{"@page.descendants": "/blog"}}).HasItems())
}

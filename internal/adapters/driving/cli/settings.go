package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/config"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// valueKind says how a setting value given on the command line is parsed.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
	kindList
)

// settingKinds lists the keys "settings set" accepts.
var settingKinds = map[string]valueKind{
	config.KeyContentDir:         kindString,
	config.KeyDataDir:            kindString,
	config.KeyTemplatesDir:       kindString,
	config.KeyLanguages:          kindList,
	config.KeyActiveLanguage:     kindString,
	config.KeyDriver:             kindString,
	config.KeyIndexName:          kindString,
	config.KeyFilterItems:        kindString,
	config.KeyFilterPublished:    kindBool,
	config.KeyIndexPageByDefault: kindBool,
	config.KeySearchType:         kindString,
	config.KeyStemmer:            kindString,
	config.KeyLimit:              kindInt,
	config.KeyAsYouType:          kindBool,
	config.KeyFuzzy:              kindBool,
	config.KeySnippet:            kindInt,
	config.KeyPhrases:            kindBool,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage site and search settings",
	Long: `View and change the configuration of the content tree and the search index.

Settings are stored in the configuration file (default ~/.pagesearch/config.toml).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting and save it to the configuration file.

Keys:
  site.content_dir, site.data_dir, site.templates_dir,
  site.languages (comma-separated), site.active_language,
  search.driver (sqlite, bleve), search.index_name,
  search.filter.items (YAML), search.filter.published,
  search.index_page_by_default, search.search_type (auto, basic, boolean),
  search.stemmer, search.limit, search.as_you_type, search.fuzzy,
  search.snippet, search.phrases

Changes to the driver, stemmer, languages or filter take effect with the
next "pagesearch index".`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("configuration not loaded")
	}
	s := siteSettings

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Printf("Config file: %s\n", configStore.Path())
	cmd.Println()

	cmd.Println("[Site]")
	cmd.Printf("  Content dir: %s\n", orUnset(s.ContentDir))
	cmd.Printf("  Data dir: %s\n", orDefault(s.DataDir, "~/.pagesearch/data"))
	cmd.Printf("  Templates dir: %s\n", orUnset(s.TemplatesDir))
	cmd.Printf("  Languages: %s\n", orDefault(strings.Join(s.Languages, ", "), domain.LanguageUndetermined))
	cmd.Printf("  Active language: %s\n", s.DefaultLanguage())
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Driver: %s\n", s.Driver)
	cmd.Printf("  Index name: %s\n", s.IndexName)
	cmd.Printf("  Stemmer: %s\n", s.Stemmer)
	cmd.Printf("  Index pages by default: %t\n", s.IndexPageByDefault)
	if s.Filter.HasItems() {
		cmd.Printf("  Filter: %v\n", s.Filter.Items)
		published := true
		if s.Filter.Published != nil {
			published = *s.Filter.Published
		}
		cmd.Printf("  Filter published: %t\n", published)
	} else {
		cmd.Println("  Filter: all published, routable pages")
	}
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Search type: %s\n", s.SearchType)
	cmd.Printf("  Limit: %d\n", s.Limit)
	cmd.Printf("  As you type: %t\n", s.AsYouType)
	cmd.Printf("  Fuzzy: %t\n", s.Fuzzy)
	cmd.Printf("  Phrases: %t\n", s.Phrases)
	cmd.Printf("  Snippet: %d\n", s.Snippet)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("configuration not loaded")
	}
	key, raw := args[0], args[1]

	value, err := parseSetting(key, raw)
	if err != nil {
		return err
	}

	// Check the resulting configuration before it is written.
	candidate := siteSettings
	if err := applySetting(&candidate, key, value); err != nil {
		return err
	}
	if err := config.Validate(candidate); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	siteSettings = candidate

	cmd.Printf("%s = %v\n", key, value)
	return nil
}

// parseSetting converts raw to the type stored for key.
func parseSetting(key, raw string) (any, error) {
	kind, ok := settingKinds[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	switch kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidInput, key, raw)
		}
		return n, nil
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidInput, key, raw)
		}
		return b, nil
	case kindList:
		var list []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
		return list, nil
	default:
		return raw, nil
	}
}

// applySetting mirrors a parsed value onto a settings snapshot.
func applySetting(s *domain.Settings, key string, value any) error {
	switch key {
	case config.KeyContentDir:
		s.ContentDir = value.(string)
	case config.KeyDataDir:
		s.DataDir = value.(string)
	case config.KeyTemplatesDir:
		s.TemplatesDir = value.(string)
	case config.KeyLanguages:
		s.Languages = value.([]string)
	case config.KeyActiveLanguage:
		s.ActiveLanguage = value.(string)
	case config.KeyDriver:
		s.Driver = strings.ToLower(value.(string))
	case config.KeyIndexName:
		s.IndexName = value.(string)
	case config.KeyFilterItems:
		f := domain.CollectionFilter{Items: value}
		if s.Filter != nil {
			f.Published = s.Filter.Published
		}
		s.Filter = &f
	case config.KeyFilterPublished:
		b := value.(bool)
		f := domain.CollectionFilter{Published: &b}
		if s.Filter != nil {
			f.Items = s.Filter.Items
		}
		s.Filter = &f
	case config.KeyIndexPageByDefault:
		s.IndexPageByDefault = value.(bool)
	case config.KeySearchType:
		s.SearchType = domain.SearchType(strings.ToLower(value.(string)))
	case config.KeyStemmer:
		s.Stemmer = value.(string)
	case config.KeyLimit:
		s.Limit = value.(int)
	case config.KeyAsYouType:
		s.AsYouType = value.(bool)
	case config.KeyFuzzy:
		s.Fuzzy = value.(bool)
	case config.KeySnippet:
		s.Snippet = value.(int)
	case config.KeyPhrases:
		s.Phrases = value.(bool)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return nil
}

func orUnset(s string) string {
	return orDefault(s, "(not set)")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

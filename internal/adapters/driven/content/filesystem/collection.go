package filesystem

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// Collection item keys.
const (
	itemRootDescendants = "@root.descendants"
	itemRootChildren    = "@root.children"
	itemPageSelf        = "@page.self"
	itemPageChildren    = "@page.children"
	itemPageDescendants = "@page.descendants"
	itemTaxonomyPrefix  = "@taxonomy."
)

// Collection returns the pages selected by filter in tree order. Several
// items are combined as a union. Items given as a string are parsed as YAML.
//
// Supported items:
//
//	@root.descendants: every page
//	@root.children: top-level pages
//	@page.self: /route
//	@page.children: /route
//	@page.descendants: /route
//	@taxonomy.<name>: value or [values], pages carrying all values
func (r *Repository) Collection(ctx context.Context, filter domain.CollectionFilter) ([]*domain.Page, error) {
	items, err := parseItems(filter.Items)
	if err != nil {
		return nil, err
	}
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	selected := make(map[*domain.Page]bool)
	for _, item := range items {
		matcher, err := r.matcher(item.key, item.value)
		if err != nil {
			return nil, err
		}
		for _, p := range r.pages {
			if matcher(p) {
				selected[p] = true
			}
		}
	}

	published := true
	if filter.Published != nil {
		published = *filter.Published
	}

	var out []*domain.Page
	for _, p := range r.pages {
		if selected[p] && p.Published == published {
			out = append(out, p)
		}
	}
	return out, nil
}

type collectionItem struct {
	key   string
	value any
}

// parseItems normalises the accepted item shapes into a key/value list:
// a map, a bare key string, a YAML document holding either, or a list of
// those.
func parseItems(items any) ([]collectionItem, error) {
	switch v := items.(type) {
	case nil:
		return nil, fmt.Errorf("%w: empty collection filter", domain.ErrConfiguration)
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "@") && !strings.ContainsAny(trimmed, ":\n") {
			return []collectionItem{{key: trimmed}}, nil
		}
		var parsed any
		if err := yaml.Unmarshal([]byte(v), &parsed); err != nil {
			return nil, fmt.Errorf("%w: collection filter: %w", domain.ErrConfiguration, err)
		}
		if s, ok := parsed.(string); ok {
			return []collectionItem{{key: strings.TrimSpace(s)}}, nil
		}
		return parseItems(parsed)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		out := make([]collectionItem, 0, len(keys))
		for _, k := range keys {
			out = append(out, collectionItem{key: k, value: v[k]})
		}
		return out, nil
	case []any:
		var out []collectionItem
		for _, entry := range v {
			parsed, err := parseItems(entry)
			if err != nil {
				return nil, err
			}
			out = append(out, parsed...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported collection filter %T", domain.ErrConfiguration, items)
	}
}

// matcher returns the page predicate for one collection item.
func (r *Repository) matcher(key string, value any) (func(*domain.Page) bool, error) {
	switch key {
	case itemRootDescendants:
		return func(*domain.Page) bool { return true }, nil
	case itemRootChildren:
		return func(p *domain.Page) bool { return p.Parent == nil }, nil
	case itemPageSelf, itemPageChildren, itemPageDescendants:
		route, ok := value.(string)
		if !ok || route == "" {
			return nil, fmt.Errorf("%w: %s needs a route", domain.ErrConfiguration, key)
		}
		target, ok := r.routes[domain.CleanRoute(route)]
		if !ok {
			return func(*domain.Page) bool { return false }, nil
		}
		switch key {
		case itemPageSelf:
			return func(p *domain.Page) bool { return p == target }, nil
		case itemPageChildren:
			return func(p *domain.Page) bool { return p.Parent == target }, nil
		default:
			return func(p *domain.Page) bool { return slices.Contains(p.Ancestors(), target) }, nil
		}
	}

	if name, ok := strings.CutPrefix(key, itemTaxonomyPrefix); ok && name != "" {
		want := stringList(value)
		if len(want) == 0 {
			return nil, fmt.Errorf("%w: %s needs a value", domain.ErrConfiguration, key)
		}
		return func(p *domain.Page) bool {
			have := p.Taxonomy[name]
			for _, w := range want {
				if !slices.Contains(have, w) {
					return false
				}
			}
			return true
		}, nil
	}

	return nil, fmt.Errorf("%w: unknown collection item %q", domain.ErrConfiguration, key)
}

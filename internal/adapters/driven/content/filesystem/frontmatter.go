package filesystem

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// splitFrontMatter separates the YAML header from the body. Content without
// a leading delimiter line has no header.
func splitFrontMatter(content []byte) (map[string]any, string, error) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	opening := frontMatterDelimiter + "\n"
	if !strings.HasPrefix(text, opening) {
		return nil, text, nil
	}
	rest := text[len(opening):]

	var header, body string
	closing := "\n" + frontMatterDelimiter + "\n"
	switch {
	case strings.HasPrefix(rest, opening):
		body = rest[len(opening):]
	case rest == frontMatterDelimiter:
	case strings.Contains(rest, closing):
		end := strings.Index(rest, closing)
		header, body = rest[:end], rest[end+len(closing):]
	case strings.HasSuffix(rest, "\n"+frontMatterDelimiter):
		header = strings.TrimSuffix(rest, "\n"+frontMatterDelimiter)
	default:
		return nil, "", errors.New("unterminated front matter")
	}

	fm := make(map[string]any)
	if strings.TrimSpace(header) != "" {
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return nil, "", fmt.Errorf("parse front matter: %w", err)
		}
	}
	return fm, body, nil
}

// headerBool reads a boolean header, returning def when absent or not a bool.
func headerBool(header map[string]any, key string, def bool) bool {
	if v, ok := header[key].(bool); ok {
		return v
	}
	return def
}

// headerString reads a string header.
func headerString(header map[string]any, key string) string {
	if v, ok := header[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// headerTaxonomy reads the taxonomy map. Values may be a single scalar or a
// list of scalars.
func headerTaxonomy(header map[string]any) map[string][]string {
	raw, ok := header["taxonomy"].(map[string]any)
	if !ok {
		return nil
	}
	taxonomy := make(map[string][]string, len(raw))
	for name, val := range raw {
		if values := stringList(val); len(values) > 0 {
			taxonomy[name] = values
		}
	}
	return taxonomy
}

// stringList converts a scalar or list value to strings.
func stringList(val any) []string {
	switch v := val.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item != nil {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

package sqlite

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/index/boolquery"
)

// quote renders text as an FTS5 string, which FTS5 tokenizes into a phrase.
func quote(text string) string {
	return `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
}

// terms splits text on anything that is not a letter or digit.
func terms(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// phraseExpr matches the exact phrase.
func phraseExpr(phrase string) string {
	words := terms(phrase)
	if len(words) == 0 {
		return ""
	}
	return quote(strings.Join(words, " "))
}

// plainExpr ANDs the query terms. Fuzzy matching is approximated by prefix
// matching every term; as-you-type only makes the last term a prefix.
func plainExpr(query string, asYouType, fuzzy bool) string {
	words := terms(query)
	parts := make([]string, 0, len(words))
	for n, w := range words {
		part := quote(w)
		if fuzzy || (asYouType && n == len(words)-1) {
			part += "*"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

// booleanExpr translates a boolean query into an FTS5 expression. Negations
// need a positive sibling in FTS5; groups made only of negations match
// nothing and are dropped.
func booleanExpr(query string) string {
	expr, _ := render(boolquery.Parse(query))
	return expr
}

func render(n boolquery.Node) (string, bool) {
	switch v := n.(type) {
	case nil:
		return "", false
	case boolquery.Term:
		if v.Phrase {
			expr := phraseExpr(v.Text)
			return expr, expr != ""
		}
		words := terms(v.Text)
		if len(words) == 0 {
			return "", false
		}
		return quote(strings.Join(words, " ")), true
	case boolquery.Or:
		parts := make([]string, 0, len(v.Children))
		for _, c := range v.Children {
			if s, ok := render(c); ok {
				parts = append(parts, s)
			}
		}
		switch len(parts) {
		case 0:
			return "", false
		case 1:
			return parts[0], true
		default:
			return "(" + strings.Join(parts, " OR ") + ")", true
		}
	case boolquery.And:
		positive, negative := boolquery.Split(v)
		var pos []string
		for _, c := range positive {
			if s, ok := render(c); ok {
				pos = append(pos, s)
			}
		}
		if len(pos) == 0 {
			return "", false
		}
		expr := strings.Join(pos, " AND ")
		if len(pos) > 1 {
			expr = "(" + expr + ")"
		}
		for _, c := range negative {
			if s, ok := render(c); ok {
				expr += " NOT " + s
			}
		}
		return expr, true
	default:
		// A bare negation has no positive side.
		return "", false
	}
}

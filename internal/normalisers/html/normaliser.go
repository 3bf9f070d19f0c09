package html

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	markupHint  = regexp.MustCompile(`<[a-zA-Z!/]`)
	multiSpaces = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
)

// Elements removed with their content before extracting text.
const dropped = "script, style, noscript, head, svg, template, iframe"

// Elements that end a line of text.
const blocks = "p, div, br, hr, h1, h2, h3, h4, h5, h6, li, tr, td, th, " +
	"blockquote, pre, table, section, article, header, footer, nav, aside, dt, dd"

// Text strips HTML tags from content and returns its readable text with
// whitespace normalised. Content without any markup is only normalised.
func Text(content string) string {
	if !markupHint.MatchString(content) {
		return Whitespace(content)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return Whitespace(content)
	}

	doc.Find(dropped).Remove()
	doc.Find(blocks).Each(func(_ int, s *goquery.Selection) {
		s.BeforeHtml("\n")
		s.AfterHtml("\n")
	})

	return Whitespace(doc.Text())
}

// Title returns the text of the first <title> or <h1> element, or "".
func Title(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	for _, sel := range []string{"title", "h1"} {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return Whitespace(t)
		}
	}
	return ""
}

// Whitespace collapses runs of spaces, trims every line and removes empty
// lines.
func Whitespace(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

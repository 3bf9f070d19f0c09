// Package markdown strips Markdown formatting so page bodies can be indexed
// as plain text.
package markdown

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	codeFence    = regexp.MustCompile("(?s)```[^\\n]*\\n(.*?)```")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	refLinks     = regexp.MustCompile(`(?m)^\s*\[[^\]]+\]:\s*\S+.*$`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquote   = regexp.MustCompile(`(?m)^>\s*`)
	hr           = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	emphasis     = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_\n]+)(\*{1,3}|_{1,3})`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
)

// Strip removes Markdown formatting and returns the plain text.
// Code is kept as text; image alt texts replace the images.
func Strip(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	content = codeFence.ReplaceAllString(content, "$1")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "$1")
	content = links.ReplaceAllString(content, "$1")
	content = refLinks.ReplaceAllString(content, "")

	content = hr.ReplaceAllString(content, "")
	content = headings.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")

	content = multiNewline.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// Title returns the first level-one heading of content, or a title derived
// from fallback (a file or folder name) when there is none.
func Title(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return TitleFromName(fallback)
}

// TitleFromName turns a file or folder name into a display title:
// "01.getting_started.md" becomes "Getting started".
func TitleFromName(name string) string {
	name = filepath.Base(name)
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	if i := strings.IndexByte(name, '.'); i > 0 && isDigits(name[:i]) {
		name = name[i+1:]
	}
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

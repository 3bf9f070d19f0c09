// Package render implements the TextRenderer port. It turns a page body,
// or the output of the page's search template, into clean text for the
// full-text index.
package render

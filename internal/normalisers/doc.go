// Package normalisers provides text normalisers that turn page markup into
// indexable plain text. Each subpackage handles one markup format:
//
//   - markdown: Markdown syntax stripping and title extraction
//   - html: Tag stripping and whitespace normalisation
//
// The render adapter composes them into the TextRenderer port.
package normalisers

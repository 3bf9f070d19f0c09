// Package bleve implements the index engine on Bleve.
//
// Each index is a Bleve directory below the data directory. Page names and
// contents are indexed as text fields whose analyzer follows the configured
// stemmer, which gives language-aware stemming for several languages and
// real edit-distance fuzzy matching.
package bleve

// Package file provides the file-based ConfigStore. Configuration is kept
// in a TOML file, by default ~/.pagesearch/config.toml, and exposed with
// flattened dot-notation keys ("search.limit").
package file

// Package boolquery parses boolean search queries into a small syntax tree
// shared by the index engines.
//
// Grammar:
//
//	query   = or
//	or      = and { "or" and }
//	and     = unary { unary }
//	unary   = [ "-" ] primary
//	primary = word | '"' phrase '"' | "(" or ")"
//
// Juxtaposed terms are ANDed. "or" is matched case-insensitively as a whole
// word. A leading "-" negates the following term or group. Parsing is
// lenient: unbalanced parentheses and dangling operators are ignored.
package boolquery

// Package html extracts readable text from HTML fragments. Scripts, styles
// and other non-content elements are dropped, block elements become line
// breaks and entities are decoded, leaving clean searchable text.
package html

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested page or translation does not exist.
	// Callers treat it as "skip this item".
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown engine driver or stemmer.
	ErrUnsupportedType = errors.New("unsupported type")

	// Index Errors.

	// ErrIndexNotFound indicates the index has not been built yet.
	// Fatal for search, a no-op for remove and upsert.
	ErrIndexNotFound = errors.New("index not found")

	// ErrIndex indicates the search engine could not be initialised.
	ErrIndex = errors.New("index error")

	// ErrDocumentProcessing indicates a single page failed while being
	// rendered or resolved during streaming. The stream continues.
	ErrDocumentProcessing = errors.New("document processing failed")

	// ErrConfiguration indicates a malformed configuration, such as an
	// unparsable filter definition.
	ErrConfiguration = errors.New("invalid configuration")
)

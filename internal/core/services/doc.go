// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Indexing flows through TranslationResolver, ContentStream and
// IndexService; querying flows through QueryDispatcher, ResultProcessor
// and SearchService. All services receive their collaborators through
// an Environment at construction.
package services

// Package httpapi serves search over HTTP.
//
// Routes:
//
//	GET /search   query parameters q, search_type, langs, limit, fuzzy, json
//	GET /metrics  Prometheus scrape endpoint
//	GET /healthz  liveness probe
//
// /search always answers with the JSON result envelope; json=1 pretty-prints it.
package httpapi

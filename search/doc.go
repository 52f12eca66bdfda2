// Package search provides query-driven tool search.
//
// Candidates are retrieved from an in-memory bleve index with fuzzy, prefix
// and substring queries, then scored by field: name 0.4, description 0.3,
// tags 0.2 and category 0.1, with usage count and success rate folded in as
// low-weight tie breakers.
package search

// Package retrieval defines the knowledge-retrieval contract consumed
// by specialist agents. The store interface and Snippet type live here;
// concrete backends (the qdrant vector store, the in-memory store below)
// are selected at wiring time.
package retrieval

import "context"

// Snippet is one ranked context item returned by a Store. Distance is
// ascending: a smaller value means a more relevant snippet.
type Snippet struct {
	ID       string
	Content  string
	Metadata map[string]any
	Distance float64
}

// Store retrieves ranked context snippets for a query. Partitions name
// the logical corpora to search (dna, microbiome, biomarkers, ...) and
// tenantID scopes results to one caller's data.
type Store interface {
	Search(ctx context.Context, query string, partitions []string, tenantID string, limit int) ([]Snippet, error)
}

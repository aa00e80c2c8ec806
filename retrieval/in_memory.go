package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// InMemoryStore is a naive process-local Store. Snippets are held per
// partition and tenant; Search performs a case-insensitive substring
// scan assigning a constant distance of 0 to every hit. Suitable only
// for tests / demos; swap for the qdrant backend for real retrieval.
//
// Concurrency: protected by RWMutex.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]Snippet // partition -> tenantID -> snippets
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: map[string]map[string][]Snippet{}}
}

// Add appends snippets to a partition scoped to one tenant.
func (s *InMemoryStore) Add(partition, tenantID string, snippets ...Snippet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[partition]; !ok {
		s.data[partition] = map[string][]Snippet{}
	}
	s.data[partition][tenantID] = append(s.data[partition][tenantID], snippets...)
}

// Search implements Store. Hits are collected across the requested
// partitions in order, truncated to limit, and sorted by ID for a
// deterministic result order.
func (s *InMemoryStore) Search(_ context.Context, query string, partitions []string, tenantID string, limit int) ([]Snippet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	results := make([]Snippet, 0, limit)
	for _, partition := range partitions {
		tenants, ok := s.data[partition]
		if !ok {
			continue
		}
		for _, snippet := range tenants[tenantID] {
			if !matches(q, snippet.Content) {
				continue
			}
			results = append(results, snippet)
			if len(results) >= limit {
				break
			}
		}
		if len(results) >= limit {
			break
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

// matches reports whether any query term appears in the content.
func matches(query, content string) bool {
	c := strings.ToLower(content)
	for _, term := range strings.Fields(query) {
		if strings.Contains(c, strings.Trim(term, "?.,!")) {
			return true
		}
	}
	return false
}

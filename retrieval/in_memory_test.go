package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seededStore() *InMemoryStore {
	s := NewInMemoryStore()
	s.Add("dna", "tenant-1",
		Snippet{ID: "d1", Content: "APOE genotype e3/e4 detected"},
		Snippet{ID: "d2", Content: "MTHFR C677T heterozygous variant"},
	)
	s.Add("biomarkers", "tenant-1",
		Snippet{ID: "b1", Content: "LDL cholesterol 160 mg/dL high"},
	)
	s.Add("dna", "tenant-2",
		Snippet{ID: "x1", Content: "APOE genotype e2/e3 detected"},
	)
	return s
}

func TestInMemoryStore_Search(t *testing.T) {
	s := seededStore()

	results, err := s.Search(context.Background(), "APOE variant", []string{"dna"}, "tenant-1", 5)
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "d1", results[0].ID)
}

func TestInMemoryStore_TenantScoping(t *testing.T) {
	s := seededStore()

	results, err := s.Search(context.Background(), "APOE", []string{"dna"}, "tenant-2", 5)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "x1", results[0].ID)

	results, err = s.Search(context.Background(), "APOE", []string{"dna"}, "tenant-3", 5)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestInMemoryStore_MultiplePartitions(t *testing.T) {
	s := seededStore()

	results, err := s.Search(context.Background(), "APOE LDL variant", []string{"dna", "biomarkers"}, "tenant-1", 5)
	assert.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestInMemoryStore_Limit(t *testing.T) {
	s := seededStore()

	results, err := s.Search(context.Background(), "APOE LDL variant", []string{"dna", "biomarkers"}, "tenant-1", 1)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestInMemoryStore_NoMatch(t *testing.T) {
	s := seededStore()

	results, err := s.Search(context.Background(), "zzzzz", []string{"dna"}, "tenant-1", 5)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

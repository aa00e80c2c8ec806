package selector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/healthmesh/model"
	"github.com/hupe1980/healthmesh/role"
)

func TestSelect_DNAKeyword(t *testing.T) {
	s := New(model.NewMockModel("test"))

	roles := s.Select(context.Background(), "Can you explain my DNA report?")

	assert.Contains(t, roles, role.DNAAnalyst)
	assert.Contains(t, roles, role.CorrelationFinder)
	assert.Contains(t, roles, role.RecommendationEngine)
	assert.NotContains(t, roles, role.MicrobiomeExpert)
}

func TestSelect_MultipleKeywords(t *testing.T) {
	s := New(model.NewMockModel("test"))

	// "variant" hits the DNA set, "high" hits the biomarker set.
	roles := s.Select(context.Background(), "What does my high LDL and APOE e3/e4 variant mean?")

	assert.Contains(t, roles, role.DNAAnalyst)
	assert.Contains(t, roles, role.BiomarkerInterpreter)
	assert.Contains(t, roles, role.CorrelationFinder)
	assert.Contains(t, roles, role.RecommendationEngine)
	assert.Len(t, roles, 4)
}

func TestSelect_FallbackParsesModelOutput(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetDefaultResponse("dna_analyst")

	s := New(m)
	roles := s.Select(context.Background(), "tell me about heredity patterns")

	assert.Equal(t, []role.Role{role.DNAAnalyst, role.CorrelationFinder, role.RecommendationEngine}, roles)
}

func TestSelect_FallbackModelError(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetError(errors.New("model offline"))

	s := New(m)
	roles := s.Select(context.Background(), "please help me feel better")

	assert.Equal(t, []role.Role{role.CorrelationFinder, role.RecommendationEngine}, roles)
}

func TestSelect_FallbackTimeout(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetLatency(200 * time.Millisecond)

	s := New(m, func(o *Options) { o.FallbackTimeout = 10 * time.Millisecond })
	roles := s.Select(context.Background(), "please help me feel better")

	assert.Equal(t, []role.Role{role.CorrelationFinder, role.RecommendationEngine}, roles)
}

func TestSelect_FallbackGarbageOutput(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetDefaultResponse("I cannot decide which expert fits here.")

	s := New(m)
	roles := s.Select(context.Background(), "please help me feel better")

	assert.Equal(t, []role.Role{role.CorrelationFinder, role.RecommendationEngine}, roles)
}

func TestSelect_FallbackNeverDuplicatesSynthesisRoles(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetDefaultResponse("dna_analyst, recommendation_engine")

	s := New(m)
	roles := s.Select(context.Background(), "tell me about heredity patterns")

	seen := map[role.Role]int{}
	for _, r := range roles {
		seen[r]++
	}
	for r, n := range seen {
		assert.Equalf(t, 1, n, "role %s selected %d times", r, n)
	}
}

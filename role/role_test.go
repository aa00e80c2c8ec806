package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecialists(t *testing.T) {
	specialists := Specialists()
	assert.Len(t, specialists, 5)
	assert.Equal(t, DNAAnalyst, specialists[0])
	assert.Equal(t, RecommendationEngine, specialists[4])
	assert.NotContains(t, specialists, Orchestrator)
}

func TestValid(t *testing.T) {
	for _, r := range Specialists() {
		assert.True(t, r.Valid())
	}
	assert.True(t, Orchestrator.Valid())
	assert.False(t, Role("nutritionist").Valid())
	assert.False(t, Role("").Valid())
}

func TestInstructions(t *testing.T) {
	for _, r := range Specialists() {
		assert.NotEmpty(t, r.Instructions())
	}
	assert.Contains(t, DNAAnalyst.Instructions(), "genetic counselor")

	// Roles without a dedicated template use the generic one.
	assert.Equal(t, "You are a health AI expert. Analyze the following data:", Orchestrator.Instructions())
}

func TestPartitions(t *testing.T) {
	assert.Equal(t, []string{"dna"}, DNAAnalyst.Partitions())
	assert.Equal(t, []string{"dna", "microbiome", "biomarkers", "correlations"}, CorrelationFinder.Partitions())
	assert.Equal(t, []string{"recommendations", "correlations"}, RecommendationEngine.Partitions())

	// Default partition for roles without a dedicated set.
	assert.Equal(t, []string{"correlations"}, Orchestrator.Partitions())
}

func TestKeywords(t *testing.T) {
	assert.Contains(t, DNAAnalyst.Keywords(), "dna")
	assert.Contains(t, MicrobiomeExpert.Keywords(), "gut")
	assert.Contains(t, BiomarkerInterpreter.Keywords(), "blood test")

	// Synthesis roles are selected indirectly, never by keyword.
	assert.Nil(t, CorrelationFinder.Keywords())
	assert.Nil(t, RecommendationEngine.Keywords())
}

package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/healthmesh/core"
	"github.com/hupe1980/healthmesh/model"
	"github.com/hupe1980/healthmesh/role"
)

func TestSynthesize_EmptyResults(t *testing.T) {
	o := New(model.NewMockModel("test"))

	text, contributors := o.Synthesize(context.Background(), "anything", nil)

	assert.Equal(t, noInformationText, text)
	assert.Empty(t, contributors)
}

func TestSynthesize_MergesAllResults(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetDefaultResponse("merged answer")

	o := New(m)
	results := []core.AgentResult{
		{Role: role.DNAAnalyst, Response: "genetic insight", Confidence: 0.8},
		{Role: role.RecommendationEngine, Response: "take a walk", Confidence: 0.6},
	}
	text, contributors := o.Synthesize(context.Background(), "query", results)

	assert.Equal(t, "merged answer", text)
	assert.Equal(t, []role.Role{role.DNAAnalyst, role.RecommendationEngine}, contributors)
}

func TestSynthesize_FallbackToRecommendationEngine(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetError(errors.New("model offline"))

	o := New(m)
	results := []core.AgentResult{
		{Role: role.DNAAnalyst, Response: "genetic insight", Confidence: 0.8},
		{Role: role.RecommendationEngine, Response: "R", Confidence: 0.6},
	}
	text, contributors := o.Synthesize(context.Background(), "query", results)

	// The recommendation engine's raw response is returned verbatim.
	assert.Equal(t, "R", text)
	assert.Equal(t, []role.Role{role.RecommendationEngine}, contributors)
}

func TestSynthesize_UltimateFallback(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetError(errors.New("model offline"))

	o := New(m)
	results := []core.AgentResult{
		{Role: role.DNAAnalyst, Response: "genetic insight", Confidence: 0.8},
	}
	text, contributors := o.Synthesize(context.Background(), "query", results)

	assert.Equal(t, synthesisFailedText, text)
	assert.Empty(t, contributors)
}

func TestSynthesisPrompt_EmbedsEveryResult(t *testing.T) {
	results := []core.AgentResult{
		{Role: role.DNAAnalyst, Response: "genetic insight"},
		{Role: role.BiomarkerInterpreter, Response: "lab insight"},
	}
	prompt := synthesisPrompt("my query", results)

	assert.Contains(t, prompt, "Original Query: my query")
	assert.Contains(t, prompt, "dna_analyst:\ngenetic insight")
	assert.Contains(t, prompt, "biomarker_interpreter:\nlab insight")
	assert.Contains(t, prompt, "1. Directly answers the user's question")
	assert.Contains(t, prompt, "4. Notes any important limitations or caveats")
}

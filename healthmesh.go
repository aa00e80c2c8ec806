// Package healthmesh provides a high-level façade over the orchestration
// engine: a small set of domain-specialist text-generation agents, a
// relevance selector, a parallel dispatcher and a response synthesizer.
// Most applications interact with this package by:
//  1. Creating a HealthMesh via New() with a generation model
//  2. Optionally wiring a retrieval store and structured logger
//  3. Asking questions via Answer (synchronous) or AnswerStream (chunked)
//
// The façade delegates coordination to orchestrator.Orchestrator while
// keeping setup concise. All defaults are safe for local development;
// production deployments typically supply a vector retrieval store and a
// structured logger.
package healthmesh

import (
	"context"

	"github.com/hupe1980/healthmesh/core"
	"github.com/hupe1980/healthmesh/logging"
	"github.com/hupe1980/healthmesh/model"
	"github.com/hupe1980/healthmesh/orchestrator"
	"github.com/hupe1980/healthmesh/retrieval"
)

// Options configure the HealthMesh instance.
type Options struct {
	// Store enables retrieval-augmented prompts (defaults to none).
	Store retrieval.Store
	// Logger defaults to NoOp logger if nil.
	Logger logging.Logger
	// Orchestrator tunes the pipeline's time budgets.
	Orchestrator []func(o *orchestrator.Options)
}

// HealthMesh is the high-level façade aggregating the orchestration engine.
type HealthMesh struct {
	orchestrator *orchestrator.Orchestrator
}

// New creates a HealthMesh instance backed by the given generation model.
func New(m model.Model, optFns ...func(o *Options)) *HealthMesh {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	orchFns := append([]func(o *orchestrator.Options){
		func(o *orchestrator.Options) {
			o.Store = opts.Store
			o.Logger = opts.Logger
		},
	}, opts.Orchestrator...)

	return &HealthMesh{orchestrator: orchestrator.New(m, orchFns...)}
}

// Answer processes one health query end to end and returns the
// synthesized answer together with every contributing agent result.
func (h *HealthMesh) Answer(ctx context.Context, query, tenantID string, profile core.UserProfile) (*core.OrchestratedAnswer, error) {
	return h.orchestrator.Answer(ctx, query, tenantID, profile)
}

// AnswerStream processes one health query with streaming delivery. The
// returned channel yields text chunks and is closed when the response is
// complete; closure is the explicit end marker.
func (h *HealthMesh) AnswerStream(ctx context.Context, query string, profile core.UserProfile) <-chan string {
	return h.orchestrator.AnswerStream(ctx, query, profile)
}

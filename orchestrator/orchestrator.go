// Package orchestrator coordinates specialist agents to answer one
// health query: relevance selection, parallel dispatch, synthesis and
// streaming delivery. Agents are constructed once and shared across
// requests; they are stateless per call, so the orchestrator holds no
// locks and each Task's results stay private until merged.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/healthmesh/agent"
	"github.com/hupe1980/healthmesh/core"
	"github.com/hupe1980/healthmesh/logging"
	"github.com/hupe1980/healthmesh/model"
	"github.com/hupe1980/healthmesh/retrieval"
	"github.com/hupe1980/healthmesh/role"
	"github.com/hupe1980/healthmesh/selector"
)

// RoleSelector abstracts relevance selection so tests can observe or
// replace it. The production implementation is selector.Selector.
type RoleSelector interface {
	Select(ctx context.Context, query string) []role.Role
}

// Options configure an Orchestrator.
type Options struct {
	// Store enables retrieval-augmented prompts for all agents.
	Store retrieval.Store
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
	// Selector overrides the default keyword+fallback selector.
	Selector RoleSelector

	// DispatchTimeout bounds the fan-out/fan-in join. Zero (the
	// default) leaves the join unbounded; set a ceiling to harden
	// against a stalled generation service.
	DispatchTimeout time.Duration
	// StreamTimeout bounds a whole streamed response.
	StreamTimeout time.Duration
	// ChunkTimeout bounds the wait for each individual chunk.
	ChunkTimeout time.Duration
	// SelectTimeout bounds relevance selection on the streaming path.
	SelectTimeout time.Duration
}

// Orchestrator fans queries out to specialist agents and merges their
// results into one answer.
type Orchestrator struct {
	model    model.Model
	selector RoleSelector
	agents   map[role.Role]*agent.Specialist
	logger   logging.Logger
	opts     Options
}

// New creates an Orchestrator with one specialist per dispatchable role.
func New(m model.Model, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Logger:        logging.NoOpLogger{},
		StreamTimeout: 30 * time.Second,
		ChunkTimeout:  5 * time.Second,
		SelectTimeout: 5 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	sel := opts.Selector
	if sel == nil {
		sel = selector.New(m, func(o *selector.Options) { o.Logger = opts.Logger })
	}

	agents := make(map[role.Role]*agent.Specialist)
	for _, r := range role.Specialists() {
		agents[r] = agent.New(r, m, func(o *agent.Options) {
			o.Store = opts.Store
			o.Logger = opts.Logger
		})
	}

	return &Orchestrator{
		model:    m,
		selector: sel,
		agents:   agents,
		logger:   opts.Logger,
		opts:     opts,
	}
}

// Answer processes one query end to end: select roles, dispatch the
// matching agents concurrently, synthesize their results. The returned
// answer is always well-formed; individual agent failures surface only
// as degraded results. The error is non-nil only when ctx was cancelled.
func (o *Orchestrator) Answer(ctx context.Context, query, tenantID string, profile core.UserProfile) (*core.OrchestratedAnswer, error) {
	task := core.Task{Query: query, TenantID: tenantID, Profile: profile.Clone()}

	roles := o.selector.Select(ctx, query)
	o.logger.Info("Selected agents", "query", query, "roles", roleNames(roles))

	results := o.Dispatch(ctx, task, roles)
	text, _ := o.Synthesize(ctx, query, results)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &core.OrchestratedAnswer{
		ID:        uuid.NewString(),
		Query:     query,
		Response:  text,
		Results:   results,
		TenantID:  tenantID,
		CreatedAt: time.Now(),
	}, nil
}

// Dispatch fans the task out to one goroutine per requested role and
// joins on all of them. The result list always has exactly one entry per
// requested role, in the input order; agent failure is absorbed into a
// degraded entry, so Dispatch itself cannot fail.
func (o *Orchestrator) Dispatch(ctx context.Context, task core.Task, roles []role.Role) []core.AgentResult {
	if o.opts.DispatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.DispatchTimeout)
		defer cancel()
	}

	results := make([]core.AgentResult, len(roles))
	var wg sync.WaitGroup
	for i, r := range roles {
		sp, ok := o.agents[r]
		if !ok {
			// Non-dispatchable role slipped through selection.
			results[i] = core.AgentResult{
				Role:       r,
				Response:   "No specialist is available for " + r.String() + ".",
				Confidence: 0.1,
			}
			continue
		}
		wg.Add(1)
		go func(i int, sp *agent.Specialist) {
			defer wg.Done()
			results[i] = sp.Process(ctx, task)
		}(i, sp)
	}
	wg.Wait()
	return results
}

func roleNames(roles []role.Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return names
}

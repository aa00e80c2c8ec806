// Package core holds the shared value types flowing through the
// orchestration pipeline. Contracts for collaborators (generation,
// retrieval) live in their own packages; this package depends only on
// the role catalog so every other package can import it without cycles.
package core

import (
	"time"

	"github.com/hupe1980/healthmesh/role"
)

// UserProfile is an open mapping of demographic / preference keys to
// values. It is passed by value through the pipeline and never mutated.
type UserProfile map[string]string

// Clone returns an independent copy so callers can hand a profile to the
// pipeline without sharing the underlying map.
func (p UserProfile) Clone() UserProfile {
	if p == nil {
		return nil
	}
	out := make(UserProfile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Task is one query plus its context, the unit of work dispatched to
// agents. A Task is created per incoming request and discarded once the
// answer is produced; no history is retained across requests.
type Task struct {
	Query    string
	TenantID string
	Profile  UserProfile
}

// LowConfidence is the low-water mark below which an AgentResult is
// treated as degraded and must not be cited as authoritative.
const LowConfidence = 0.3

// AgentResult is one specialist's output for one Task. It is produced
// exactly once per dispatched role and is immutable after creation.
// Confidence is always in [0,1]; agent failure is absorbed into a low
// confidence result with Err set, never raised further.
type AgentResult struct {
	Role       role.Role
	Response   string
	Confidence float64
	Err        error
	Sources    []string // retrieval snippet IDs that informed the response
}

// Degraded reports whether the result fell below the confidence
// low-water mark.
func (r AgentResult) Degraded() bool { return r.Confidence < LowConfidence }

// OrchestratedAnswer is the terminal artifact returned to the caller:
// the synthesized text plus the per-agent results that contributed.
type OrchestratedAnswer struct {
	ID        string
	Query     string
	Response  string
	Results   []AgentResult
	TenantID  string
	CreatedAt time.Time
}

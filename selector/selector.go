// Package selector decides which specialist roles apply to a query.
//
// Selection is two-tier. The keyword tier scans the lower-cased query
// against each role's fixed keyword set; it is the common case and pays
// no model latency. The fallback tier runs only when no keyword matched:
// one low-temperature generation call under a hard deadline, parsed by
// best-effort substring matching against the closed role set. Garbage or
// timed-out output degrades silently to the fixed default pair.
package selector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/healthmesh/logging"
	"github.com/hupe1980/healthmesh/model"
	"github.com/hupe1980/healthmesh/role"
)

const (
	// DefaultFallbackTimeout bounds the LLM fallback tier.
	DefaultFallbackTimeout = 3 * time.Second

	fallbackTemperature = 0.1
	fallbackMaxTokens   = 50
)

// Options configure a Selector.
type Options struct {
	// FallbackTimeout is the hard deadline for the LLM fallback tier.
	FallbackTimeout time.Duration
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Selector maps a free-text query to the set of roles that should
// process it.
type Selector struct {
	model   model.Model
	timeout time.Duration
	logger  logging.Logger
}

// New creates a Selector backed by the given model for the fallback tier.
func New(m model.Model, optFns ...func(o *Options)) *Selector {
	opts := Options{FallbackTimeout: DefaultFallbackTimeout, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Selector{model: m, timeout: opts.FallbackTimeout, logger: opts.Logger}
}

// Select returns the roles relevant to the query in canonical order.
// Whenever any specific role matches, CorrelationFinder and
// RecommendationEngine are appended so cross-domain synthesis has
// material. Select never returns an empty set.
func (s *Selector) Select(ctx context.Context, query string) []role.Role {
	q := strings.ToLower(query)

	var matched []role.Role
	for _, r := range role.Specialists() {
		for _, kw := range r.Keywords() {
			if strings.Contains(q, kw) {
				matched = append(matched, r)
				break
			}
		}
	}
	if len(matched) > 0 {
		return withSynthesisRoles(matched)
	}

	return s.fallback(ctx, query)
}

// fallback asks the model which specialists apply, bounded by the
// configured deadline. Any failure yields the fixed default pair.
func (s *Selector) fallback(ctx context.Context, query string) []role.Role {
	fbCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := model.Complete(fbCtx, s.model, model.Request{
		Prompt:      selectionPrompt(query),
		Temperature: fallbackTemperature,
		MaxTokens:   fallbackMaxTokens,
	})
	if err != nil {
		s.logger.Warn("Agent selection fallback", "error", err.Error())
		return defaultRoles()
	}

	lower := strings.ToLower(resp)
	var selected []role.Role
	for _, r := range role.Specialists() {
		if strings.Contains(lower, r.String()) {
			selected = append(selected, r)
		}
	}
	if len(selected) == 0 {
		return defaultRoles()
	}
	return withSynthesisRoles(selected)
}

// withSynthesisRoles appends CorrelationFinder and RecommendationEngine
// if they are not already present.
func withSynthesisRoles(roles []role.Role) []role.Role {
	for _, extra := range defaultRoles() {
		present := false
		for _, r := range roles {
			if r == extra {
				present = true
				break
			}
		}
		if !present {
			roles = append(roles, extra)
		}
	}
	return roles
}

// defaultRoles is the fixed set used when nothing else can be determined.
func defaultRoles() []role.Role {
	return []role.Role{role.CorrelationFinder, role.RecommendationEngine}
}

func selectionPrompt(query string) string {
	return fmt.Sprintf(`Given this health query: %q

Which of these specialist agents would be most relevant? Choose 1-2:
- dna_analyst: For genetic questions
- microbiome_expert: For gut health questions
- biomarker_interpreter: For lab result questions

Respond with just the agent name(s) separated by commas, nothing else.`, query)
}

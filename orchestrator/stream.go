package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/hupe1980/healthmesh/core"
	"github.com/hupe1980/healthmesh/role"
)

const (
	streamTimeoutText = "\nI'm having trouble generating a complete response right now. Please try again with a more specific query."

	noAgentText = "I'm sorry, I cannot process your health query at this time."
)

// greetingWords short-circuit agent choice straight to the
// recommendation engine without paying selection latency.
var greetingWords = []string{"hello", "hi", "hey", "greetings"}

// AnswerStream relays exactly one agent's token stream to the caller.
// The channel yields text chunks and is closed when the stream ends;
// closure is the end marker. Delivery runs under two nested budgets: an
// overall ceiling for the whole stream and a per-chunk wait. If either
// is exceeded the producing agent is cancelled, one explanatory terminal
// chunk is emitted and the stream ends. The sequence is single pass, not
// restartable.
func (o *Orchestrator) AnswerStream(ctx context.Context, query string, profile core.UserProfile) <-chan string {
	out := make(chan string, 16)

	go func() {
		defer close(out)

		r := o.pickStreamRole(ctx, query)
		sp, ok := o.agents[r]
		if !ok {
			emit(ctx, out, noAgentText)
			return
		}
		o.logger.Info("Streaming agent selected", "role", r.String(), "query", query)

		streamCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		chunks := sp.StreamProcess(streamCtx, core.Task{Query: query, Profile: profile.Clone()})

		overall := time.NewTimer(o.opts.StreamTimeout)
		defer overall.Stop()
		perChunk := time.NewTimer(o.opts.ChunkTimeout)
		defer perChunk.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-overall.C:
				cancel()
				o.logger.Warn("Streaming response timed out", "role", r.String())
				emit(ctx, out, streamTimeoutText)
				return
			case <-perChunk.C:
				cancel()
				o.logger.Warn("Streaming chunk timed out", "role", r.String())
				emit(ctx, out, streamTimeoutText)
				return
			case chunk, ok := <-chunks:
				if !ok {
					return
				}
				if !perChunk.Stop() {
					<-perChunk.C
				}
				perChunk.Reset(o.opts.ChunkTimeout)
				if !emit(ctx, out, chunk) {
					return
				}
			}
		}
	}()

	return out
}

// pickStreamRole chooses the single agent that will stream. Greetings
// bypass selection entirely; otherwise selection runs under its own
// budget and any timeout falls back to the recommendation engine. Among
// selected roles the recommendation engine is preferred, else the first
// selected role.
func (o *Orchestrator) pickStreamRole(ctx context.Context, query string) role.Role {
	q := strings.ToLower(query)
	for _, w := range greetingWords {
		if strings.Contains(q, w) {
			return role.RecommendationEngine
		}
	}

	selCtx, cancel := context.WithTimeout(ctx, o.opts.SelectTimeout)
	defer cancel()

	resultCh := make(chan []role.Role, 1)
	go func() { resultCh <- o.selector.Select(selCtx, query) }()

	var roles []role.Role
	select {
	case roles = <-resultCh:
	case <-selCtx.Done():
		o.logger.Warn("Agent selection timed out, using recommendation engine")
		return role.RecommendationEngine
	}

	for _, r := range roles {
		if r == role.RecommendationEngine {
			return r
		}
	}
	if len(roles) > 0 {
		return roles[0]
	}
	return role.RecommendationEngine
}

// emit delivers one chunk unless the caller has gone away.
func emit(ctx context.Context, out chan<- string, chunk string) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

// Package model defines the generation-service contract consumed by the
// orchestration pipeline. Concrete adapters (openai, anthropic, ollama)
// live in subpackages; callers depend only on the Model interface and
// select an implementation at wiring time.
package model

import (
	"context"
	"fmt"
	"time"
)

// Request captures the normalized generation input produced by agents,
// the selector and the synthesizer.
type Request struct {
	// Instructions carries system / role level guidance. May be empty.
	Instructions string
	// Prompt is the fully assembled user facing prompt.
	Prompt string
	// Temperature controls randomness. Zero means provider default.
	Temperature float64
	// MaxTokens bounds the completion length. Zero means provider default.
	MaxTokens int64
	// Stream requests incremental delivery of the completion.
	Stream bool
}

// Response is a (partial or final) chunk emitted by a model. When
// streaming, partial responses carry deltas and the final response
// carries the accumulated full text.
type Response struct {
	Text         string
	Partial      bool
	FinishReason string // "stop", "length", etc.
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string
	Provider string // "openai", "anthropic", "ollama", "mock"
}

// Model is the minimal interface required to drive generation. The
// response channel is closed once the final response has been emitted;
// at most one error is delivered on the error channel.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Complete drives a non-streaming generation to completion and returns
// the final text. It is the synchronous convenience used wherever a
// caller needs one completed string rather than a chunk sequence.
func Complete(ctx context.Context, m Model, req Request) (string, error) {
	req.Stream = false
	respCh, errCh := m.Generate(ctx, req)

	var text string
	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return "", err
			}
		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if !resp.Partial {
				text = resp.Text
			}
		}
	}
	return text, nil
}

// MockModel is a lightweight in-memory Model useful for tests and
// examples. Completions are looked up by exact prompt; unmatched prompts
// fall back to the default response. Errors and per-chunk latency can be
// injected to exercise degraded paths.
type MockModel struct {
	info       Info
	responses  map[string]string
	defaultTxt string
	err        error
	latency    time.Duration
	chunkSize  int
	chunkDelay time.Duration
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
		chunkSize: 1,
	}
}

// AddResponse registers a deterministic canned completion for an exact prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// SetDefaultResponse sets the completion returned for unmatched prompts.
func (m *MockModel) SetDefaultResponse(response string) { m.defaultTxt = response }

// SetError makes every subsequent Generate call fail with err.
func (m *MockModel) SetError(err error) { m.err = err }

// SetLatency inserts a pause before any response is produced,
// simulating a slow generation service for timeout tests.
func (m *MockModel) SetLatency(d time.Duration) { m.latency = d }

// SetChunkDelay inserts a pause before each streamed chunk, simulating a
// slow producer for timeout tests.
func (m *MockModel) SetChunkDelay(d time.Duration) { m.chunkDelay = d }

// SetChunkSize controls how many runes each streamed partial carries.
func (m *MockModel) SetChunkSize(n int) {
	if n > 0 {
		m.chunkSize = n
	}
}

// Generate implements Model; emits optional streaming chunks then the
// final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		if m.err != nil {
			errCh <- m.err
			return
		}

		if m.latency > 0 {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case <-time.After(m.latency):
			}
		}

		full, ok := m.responses[req.Prompt]
		if !ok {
			full = m.defaultTxt
		}
		if full == "" {
			full = fmt.Sprintf("Mock response to: %s", req.Prompt)
		}

		if req.Stream {
			runes := []rune(full)
			for i := 0; i < len(runes); i += m.chunkSize {
				if m.chunkDelay > 0 {
					select {
					case <-ctx.Done():
						errCh <- ctx.Err()
						return
					case <-time.After(m.chunkDelay):
					}
				}
				end := i + m.chunkSize
				if end > len(runes) {
					end = len(runes)
				}
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Text: string(runes[i:end])}:
				}
			}
		}

		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case respCh <- Response{Text: full, FinishReason: "stop"}:
		}
	}()

	return respCh, errCh
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

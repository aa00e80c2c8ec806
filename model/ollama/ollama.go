// Package ollama provides a model.Model implementation backed by a local
// Ollama server. It speaks the /api/generate endpoint directly over
// HTTP: a single JSON object for non-streaming calls, NDJSON events when
// streaming is requested.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/healthmesh/model"
)

// Options configure the Ollama model adapter.
type Options struct {
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Model wraps the Ollama generate API behind the generic model.Model interface.
type Model struct {
	opts Options
}

// NewModel creates a new Ollama model adapter.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:   "llama3.2:latest",
		BaseURL: "http://localhost:11434",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Model{opts: opts}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// generateEvent is one /api/generate response object. Non-streaming
// calls return a single event with Done set; streaming calls return one
// NDJSON event per token.
type generateEvent struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate implements unified streaming / non-streaming generation.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		resp, err := m.post(ctx, req)
		if err != nil {
			errCh <- err
			return
		}
		defer resp.Body.Close()

		if !req.Stream {
			var ev generateEvent
			if err := json.NewDecoder(resp.Body).Decode(&ev); err != nil {
				errCh <- fmt.Errorf("failed to decode ollama response: %w", err)
				return
			}
			out <- model.Response{Text: ev.Response, FinishReason: "stop"}
			return
		}

		m.relayStream(ctx, resp.Body, out, errCh)
	}()

	return out, errCh
}

func (m *Model) post(ctx context.Context, req model.Request) (*http.Response, error) {
	oReq := generateRequest{
		Model:  m.opts.Model,
		Prompt: req.Prompt,
		System: req.Instructions,
		Stream: req.Stream,
	}
	opts := map[string]any{}
	if req.Temperature != 0 {
		opts["temperature"] = req.Temperature
	}
	if req.MaxTokens != 0 {
		opts["num_predict"] = req.MaxTokens
	}
	if len(opts) > 0 {
		oReq.Options = opts
	}

	body, err := json.Marshal(oReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.opts.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.opts.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama api call failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama api returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return resp, nil
}

// relayStream converts the NDJSON token stream into partial responses
// followed by one final response carrying the accumulated text.
func (m *Model) relayStream(ctx context.Context, body io.Reader, out chan<- model.Response, errCh chan<- error) {
	reader := bufio.NewReader(body)
	var full strings.Builder
	for {
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
			return
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err != io.EOF {
				errCh <- fmt.Errorf("ollama stream read error: %w", err)
			}
			return
		}

		var ev generateEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			continue // skip malformed lines
		}

		if ev.Response != "" {
			full.WriteString(ev.Response)
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- model.Response{Partial: true, Text: ev.Response}:
			}
		}
		if ev.Done {
			out <- model.Response{Text: full.String(), FinishReason: "stop"}
			return
		}
	}
}

// Info returns metadata describing this Ollama model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "ollama"}
}

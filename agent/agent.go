// Package agent contains the specialist agent: the unit that turns one
// Task into one AgentResult for a single role. A Specialist is stateless
// per call and safe for concurrent use; all per-request state lives in
// the Task and the returned AgentResult.
//
// The agent boundary is where collaborator failure stops. Generation or
// retrieval errors are absorbed into a low-confidence result (Process)
// or a terminal human-readable chunk (StreamProcess) and never raised
// further.
package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/healthmesh/core"
	"github.com/hupe1980/healthmesh/logging"
	"github.com/hupe1980/healthmesh/model"
	"github.com/hupe1980/healthmesh/retrieval"
	"github.com/hupe1980/healthmesh/role"
)

const (
	// maxSnippets bounds how many snippets are fetched per task.
	maxSnippets = 5
	// maxPromptSnippets bounds how many of them reach the prompt.
	maxPromptSnippets = 3

	// failureConfidence marks results produced from absorbed errors.
	failureConfidence = 0.1

	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
)

// Options configure a Specialist.
type Options struct {
	// Store enables context retrieval when set. A nil store skips the
	// retrieval step entirely.
	Store retrieval.Store
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Specialist wraps one role: it builds the role's prompt, optionally
// merges retrieved context, invokes the generation service and scores
// confidence.
type Specialist struct {
	role         role.Role
	instructions string
	model        model.Model
	store        retrieval.Store
	logger       logging.Logger
}

// New creates a Specialist for the given role.
func New(r role.Role, m model.Model, optFns ...func(o *Options)) *Specialist {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Specialist{
		role:         r,
		instructions: r.Instructions(),
		model:        m,
		store:        opts.Store,
		logger:       opts.Logger,
	}
}

// Role returns the specialist's role identity.
func (s *Specialist) Role() role.Role { return s.role }

// Process handles one task synchronously: retrieve context, build the
// prompt, generate, score. Any collaborator failure is converted into a
// degraded AgentResult; Process never fails from the caller's view.
func (s *Specialist) Process(ctx context.Context, task core.Task) core.AgentResult {
	snippets := s.search(ctx, task)
	prompt := s.buildPrompt(task, snippets)

	start := time.Now()
	text, err := model.Complete(ctx, s.model, model.Request{
		Prompt:      prompt,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		s.logger.Error("Agent generation failed", "role", s.role.String(), "error", err.Error())
		return core.AgentResult{
			Role:       s.role,
			Response:   fmt.Sprintf("Unable to analyze %s data: %v", s.role, err),
			Confidence: failureConfidence,
			Err:        err,
		}
	}

	result := core.AgentResult{
		Role:       s.role,
		Response:   text,
		Confidence: Confidence(text),
		Sources:    snippetIDs(snippets),
	}
	s.logger.Info("Agent run completed",
		"role", s.role.String(), "confidence", result.Confidence, "duration", time.Since(start))
	return result
}

// StreamProcess handles one task with streaming delivery. The returned
// channel yields text chunks and is closed when the stream ends. A
// failure inside the stream is converted into one final explanatory
// chunk rather than propagated as a fault.
func (s *Specialist) StreamProcess(ctx context.Context, task core.Task) <-chan string {
	out := make(chan string, 16)

	go func() {
		defer close(out)

		snippets := s.search(ctx, task)
		prompt := s.buildPrompt(task, snippets)

		respCh, errCh := s.model.Generate(ctx, model.Request{
			Prompt:      prompt,
			Temperature: defaultTemperature,
			MaxTokens:   defaultMaxTokens,
			Stream:      true,
		})

		for respCh != nil || errCh != nil {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errCh:
				if !ok {
					errCh = nil
					continue
				}
				if err != nil {
					s.logger.Error("Agent streaming failed", "role", s.role.String(), "error", err.Error())
					select {
					case out <- fmt.Sprintf("I was unable to provide insights on %s due to an error: %v", task.Query, err):
					case <-ctx.Done():
					}
					return
				}
			case resp, ok := <-respCh:
				if !ok {
					respCh = nil
					continue
				}
				if !resp.Partial || resp.Text == "" {
					continue
				}
				select {
				case out <- resp.Text:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// search fetches ranked snippets for the role's partitions. Retrieval
// failure degrades to an empty context, it never fails the task.
func (s *Specialist) search(ctx context.Context, task core.Task) []retrieval.Snippet {
	if s.store == nil {
		return nil
	}
	start := time.Now()
	snippets, err := s.store.Search(ctx, task.Query, s.role.Partitions(), task.TenantID, maxSnippets)
	if err != nil {
		s.logger.Warn("Retrieval failed, continuing without context",
			"role", s.role.String(), "duration", time.Since(start), "error", err.Error())
		return nil
	}
	return snippets
}

// buildPrompt assembles instructions + task + up to maxPromptSnippets of
// context + the user profile. Profile keys are sorted so the prompt is
// deterministic for a given task.
func (s *Specialist) buildPrompt(task core.Task, snippets []retrieval.Snippet) string {
	var b strings.Builder
	b.WriteString(s.instructions)
	b.WriteString("\n\nTask: ")
	b.WriteString(task.Query)
	b.WriteString("\n\n")

	if len(snippets) > 0 {
		b.WriteString("Relevant Data:\n")
		for i, snippet := range snippets {
			if i == maxPromptSnippets {
				break
			}
			fmt.Fprintf(&b, "- %s\n", snippet.Content)
		}
	}

	if len(task.Profile) > 0 {
		b.WriteString("\nUser Profile:\n")
		keys := make([]string, 0, len(task.Profile))
		for k := range task.Profile {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, task.Profile[k])
		}
	}

	return b.String()
}

// snippetIDs returns the IDs of the snippets that reached the prompt.
func snippetIDs(snippets []retrieval.Snippet) []string {
	n := len(snippets)
	if n > maxPromptSnippets {
		n = maxPromptSnippets
	}
	if n == 0 {
		return nil
	}
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = snippets[i].ID
	}
	return ids
}

// Confidence maps response length to a coarse monotone score. It is a
// calibration heuristic, not a quality metric: empty responses score 0,
// short ones 0.3, medium 0.6 and long 0.8.
func Confidence(text string) float64 {
	switch n := len(text); {
	case n == 0:
		return 0.0
	case n < 50:
		return 0.3
	case n < 200:
		return 0.6
	default:
		return 0.8
	}
}

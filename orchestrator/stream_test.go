package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/healthmesh/model"
	"github.com/hupe1980/healthmesh/role"
)

func collect(ch <-chan string) []string {
	var chunks []string
	for chunk := range ch {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestAnswerStream_GreetingBypassesSelector(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetDefaultResponse("Welcome! How can I help with your health today?")
	sel := &spySelector{roles: []role.Role{role.DNAAnalyst}}

	o := New(m, func(opt *Options) { opt.Selector = sel })
	chunks := collect(o.AnswerStream(context.Background(), "hello", nil))

	assert.Equal(t, "Welcome! How can I help with your health today?", strings.Join(chunks, ""))
	assert.EqualValues(t, 0, atomic.LoadInt32(&sel.calls), "greeting must not invoke the selector")
}

func TestAnswerStream_DeliversFullResponse(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetDefaultResponse("short streamed answer")
	sel := &spySelector{roles: []role.Role{role.RecommendationEngine}}

	o := New(m, func(opt *Options) { opt.Selector = sel })
	chunks := collect(o.AnswerStream(context.Background(), "what should I eat?", nil))

	assert.Equal(t, "short streamed answer", strings.Join(chunks, ""))
}

func TestAnswerStream_ChunkTimeout(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetDefaultResponse("this response will never finish in time")
	m.SetChunkDelay(100 * time.Millisecond)

	o := New(m, func(opt *Options) {
		opt.Selector = &spySelector{roles: []role.Role{role.RecommendationEngine}}
		opt.ChunkTimeout = 10 * time.Millisecond
	})
	chunks := collect(o.AnswerStream(context.Background(), "what should I eat?", nil))

	require.NotEmpty(t, chunks)
	assert.Equal(t, streamTimeoutText, chunks[len(chunks)-1])
}

func TestAnswerStream_OverallTimeout(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetDefaultResponse(strings.Repeat("slow and steady wins nothing here ", 50))
	m.SetChunkDelay(5 * time.Millisecond)

	o := New(m, func(opt *Options) {
		opt.Selector = &spySelector{roles: []role.Role{role.RecommendationEngine}}
		opt.StreamTimeout = 40 * time.Millisecond
		opt.ChunkTimeout = time.Second
	})
	chunks := collect(o.AnswerStream(context.Background(), "what should I eat?", nil))

	require.NotEmpty(t, chunks)
	assert.Equal(t, streamTimeoutText, chunks[len(chunks)-1])
	// Some chunks were delivered before the ceiling was hit.
	assert.Greater(t, len(chunks), 1)
}

func TestAnswerStream_ProducerFailureBecomesTerminalChunk(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetError(errors.New("model offline"))

	o := New(m, func(opt *Options) {
		opt.Selector = &spySelector{roles: []role.Role{role.RecommendationEngine}}
	})
	chunks := collect(o.AnswerStream(context.Background(), "what should I eat?", nil))

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "due to an error")
}

func TestAnswerStream_SelectionTimeoutFallsBack(t *testing.T) {
	m := model.NewMockModel("test")
	m.SetDefaultResponse("fallback advice")

	o := New(m, func(opt *Options) {
		opt.Selector = &slowSelector{delay: 200 * time.Millisecond}
		opt.SelectTimeout = 10 * time.Millisecond
	})
	chunks := collect(o.AnswerStream(context.Background(), "what should I eat?", nil))

	assert.Equal(t, "fallback advice", strings.Join(chunks, ""))
}

// slowSelector blocks long enough to trip the selection budget.
type slowSelector struct {
	delay time.Duration
}

func (s *slowSelector) Select(ctx context.Context, _ string) []role.Role {
	select {
	case <-ctx.Done():
	case <-time.After(s.delay):
	}
	return []role.Role{role.DNAAnalyst}
}

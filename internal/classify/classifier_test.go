package classify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invariante/zeit/internal/activity"
	"github.com/invariante/zeit/internal/capture/screen"
	"github.com/invariante/zeit/internal/llm"
)

// fakeGenerator replays canned responses and records the requests it saw.
type fakeGenerator struct {
	responses []*llm.GenerateResponse
	errs      []error
	requests  []llm.GenerateRequest
	deadlines []time.Duration
}

func (f *fakeGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if deadline, ok := ctx.Deadline(); ok {
		f.deadlines = append(f.deadlines, time.Until(deadline))
	} else {
		f.deadlines = append(f.deadlines, 0)
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.responses) {
		return nil, errors.New("unexpected extra model call")
	}
	return f.responses[i], nil
}

type fakeCapturer struct {
	shots *screen.Shots
	err   error
	calls int
}

func (f *fakeCapturer) Capture(context.Context) (*screen.Shots, error) {
	f.calls++
	return f.shots, f.err
}

type fakeLocator struct {
	index int
	ok    bool
	calls int
}

func (f *fakeLocator) ActiveScreen(context.Context, []screen.Rect) (int, bool) {
	f.calls++
	return f.index, f.ok
}

// makeShots writes n tiny screenshot files into a temp dir owned by the test.
func makeShots(t *testing.T, n int) *screen.Shots {
	t.Helper()
	dir := t.TempDir()
	paths := make(map[int]string, n)
	bounds := make([]screen.Rect, 0, n)
	for i := 1; i <= n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("shot_%d.png", i))
		require.NoError(t, os.WriteFile(path, []byte("fake-png"), 0o644))
		paths[i] = path
		bounds = append(bounds, screen.Rect{X: (i - 1) * 1920, W: 1920, H: 1080})
	}
	return screen.NewShots("", paths, bounds)
}

func newTestClassifier(gen Generator, cap ScreenCapturer, loc ScreenLocator) *Classifier {
	return New(gen, cap, loc, "vision-model", "text-model", 0, nil, zerolog.Nop())
}

func TestTakeSampleUsesConfiguredTimeout(t *testing.T) {
	gen := &fakeGenerator{
		responses: []*llm.GenerateResponse{
			{Response: "A terminal", Done: true},
			{Response: `{"main_activity": "work_coding", "reasoning": "terminal session"}`, Done: true},
		},
	}
	c := New(gen, &fakeCapturer{shots: makeShots(t, 1)}, &fakeLocator{},
		"vision-model", "text-model", 90*time.Second, nil, zerolog.Nop())

	_, err := c.TakeSample(t.Context())
	require.NoError(t, err)

	require.Len(t, gen.deadlines, 2)
	for _, d := range gen.deadlines {
		assert.Greater(t, d, 30*time.Second, "configured timeout should replace the default")
		assert.LessOrEqual(t, d, 90*time.Second)
	}
}

func TestTakeSampleSingleScreen(t *testing.T) {
	gen := &fakeGenerator{
		responses: []*llm.GenerateResponse{
			{Response: "An IDE showing Go source files", Done: true},
			{Response: `{"main_activity": "work_coding", "reasoning": "IDE with source files open"}`, Done: true},
		},
	}
	loc := &fakeLocator{}
	c := newTestClassifier(gen, &fakeCapturer{shots: makeShots(t, 1)}, loc)

	sample, err := c.TakeSample(t.Context())
	require.NoError(t, err)

	assert.Equal(t, activity.WorkCoding, sample.Activity)
	assert.Equal(t, "IDE with source files open", sample.Reasoning)
	assert.False(t, sample.Timestamp.IsZero())

	require.Len(t, gen.requests, 2)
	describe := gen.requests[0]
	assert.Equal(t, "vision-model", describe.Model)
	assert.Len(t, describe.Images, 1)
	assert.Equal(t, singleScreenPrompt, describe.Prompt)
	assert.Empty(t, describe.Format, "single screen runs unconstrained")
	assert.Zero(t, describe.Options.Temperature)

	classify := gen.requests[1]
	assert.Equal(t, "text-model", classify.Model)
	assert.True(t, classify.Think)
	assert.NotEmpty(t, classify.Format)
	assert.Contains(t, classify.Prompt, "An IDE showing Go source files")

	// Single monitor never asks where the focused window is.
	assert.Zero(t, loc.calls)
}

func TestTakeSampleMultiScreen(t *testing.T) {
	gen := &fakeGenerator{
		responses: []*llm.GenerateResponse{
			{
				Thinking: `{"primary_screen": 2, "main_activity_description": "Slack conversation", "secondary_context": "Terminal with logs"}`,
				Done:     true,
			},
			{Response: `{"main_activity": "slack", "reasoning": "Active Slack conversation", "secondary_context": null}`, Done: true},
		},
	}
	c := newTestClassifier(gen, &fakeCapturer{shots: makeShots(t, 2)}, &fakeLocator{index: 2, ok: true})

	sample, err := c.TakeSample(t.Context())
	require.NoError(t, err)

	assert.Equal(t, activity.Slack, sample.Activity)
	assert.Equal(t, "Terminal with logs", sample.SecondaryContext)

	describe := gen.requests[0]
	assert.Len(t, describe.Images, 2)
	assert.NotEmpty(t, describe.Format, "multi screen is schema-constrained")
	assert.Contains(t, describe.Prompt, "Screen 2 currently contains the focused/active window")

	classify := gen.requests[1]
	assert.Contains(t, classify.Prompt, "Terminal with logs")
	assert.Contains(t, classify.Prompt, "secondary screens")
}

func TestTakeSampleMultiScreenNoHint(t *testing.T) {
	gen := &fakeGenerator{
		responses: []*llm.GenerateResponse{
			{Thinking: `{"primary_screen": 1, "main_activity_description": "Browser"}`, Done: true},
			{Response: `{"main_activity": "work_browsing", "reasoning": "Documentation open"}`, Done: true},
		},
	}
	c := newTestClassifier(gen, &fakeCapturer{shots: makeShots(t, 2)}, &fakeLocator{ok: false})

	_, err := c.TakeSample(t.Context())
	require.NoError(t, err)

	assert.Contains(t, gen.requests[0].Prompt, activeScreenHintFallback)
}

func TestTakeSampleMultiScreenMissingPayload(t *testing.T) {
	gen := &fakeGenerator{
		responses: []*llm.GenerateResponse{
			// Prose instead of the structured document.
			{Response: "The user seems busy.", Done: true},
		},
	}
	c := newTestClassifier(gen, &fakeCapturer{shots: makeShots(t, 2)}, &fakeLocator{index: 1, ok: true})

	_, err := c.TakeSample(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoStructuredPayload)
	assert.Len(t, gen.requests, 1, "classification must not run after a failed description")
}

func TestTakeSampleCaptureFailure(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestClassifier(gen, &fakeCapturer{err: errors.New("grim exploded")}, &fakeLocator{})

	_, err := c.TakeSample(t.Context())
	require.Error(t, err)
	assert.Empty(t, gen.requests, "no model calls without screenshots")
}

func TestParseResult(t *testing.T) {
	result, err := parseResult(`{"main_activity": "entertainment", "reasoning": "Netflix fullscreen"}`)
	require.NoError(t, err)
	assert.Equal(t, activity.Entertainment, result.MainActivity)
}

func TestParseResultRejectsUnknownLabel(t *testing.T) {
	_, err := parseResult(`{"main_activity": "napping", "reasoning": "eyes closed"}`)
	assert.Error(t, err)
}

func TestParseResultRejectsIdle(t *testing.T) {
	// idle is recorded by the tracker, never produced by classification.
	_, err := parseResult(`{"main_activity": "idle", "reasoning": "nothing happening"}`)
	assert.Error(t, err)
}

func TestParseResultRejectsEmptyReasoning(t *testing.T) {
	_, err := parseResult(`{"main_activity": "slack", "reasoning": ""}`)
	assert.Error(t, err)
}

func TestResultSchemaEnumMatchesActivities(t *testing.T) {
	schema := string(resultSchema)
	for _, a := range activity.All {
		assert.Contains(t, schema, string(a))
	}
	assert.False(t, strings.Contains(schema, `"idle"`), "idle must not be offered to the model")
}

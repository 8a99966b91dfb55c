// Package classify turns screenshots into labeled activity samples.
//
// Classification is a two-stage pipeline. A vision model first describes
// the scene, picking the primary screen when multiple monitors are
// attached; a text model then maps that description onto one activity
// label from a closed set. Screenshots never reach the text model and are
// deleted as soon as the description stage finishes.
package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/invariante/zeit/internal/activity"
	"github.com/invariante/zeit/internal/capture/screen"
	"github.com/invariante/zeit/internal/llm"
	"github.com/invariante/zeit/internal/trace"
)

// ErrNoStructuredPayload means the vision model completed a multi-screen
// call without emitting the structured scene payload.
var ErrNoStructuredPayload = errors.New("vision model returned no structured payload for multi-screen analysis")

// defaultCallTimeout bounds each model call when no timeout is configured.
const defaultCallTimeout = 30 * time.Second

// SceneDescription is the vision model's account of what is on screen.
type SceneDescription struct {
	PrimaryScreen           int    `json:"primary_screen"`
	MainActivityDescription string `json:"main_activity_description"`
	SecondaryContext        string `json:"secondary_context,omitempty"`
}

// Result is the text model's classification of a scene description.
type Result struct {
	MainActivity     activity.Activity `json:"main_activity"`
	Reasoning        string            `json:"reasoning"`
	SecondaryContext string            `json:"secondary_context,omitempty"`
}

// Sample is one fully classified observation.
type Sample struct {
	Timestamp        time.Time
	Activity         activity.Activity
	Reasoning        string
	SecondaryContext string
}

// Entry converts the sample to a storable activity entry.
func (s Sample) Entry() activity.Entry {
	return activity.NewEntry(s.Timestamp, s.Activity.Extended(), s.Reasoning)
}

// Generator is the model call surface the classifier needs.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error)
}

// ScreenCapturer produces per-monitor screenshots.
type ScreenCapturer interface {
	Capture(ctx context.Context) (*screen.Shots, error)
}

// ScreenLocator reports which monitor holds the focused window.
type ScreenLocator interface {
	ActiveScreen(ctx context.Context, monitors []screen.Rect) (int, bool)
}

// Classifier runs the capture-describe-classify pipeline.
type Classifier struct {
	gen         Generator
	capturer    ScreenCapturer
	locator     ScreenLocator
	visionModel string
	textModel   string
	timeout     time.Duration
	hook        trace.Hook
	log         zerolog.Logger
}

// New creates a Classifier. A nil hook disables call tracing; a
// non-positive timeout falls back to the default per-call deadline.
func New(gen Generator, capturer ScreenCapturer, locator ScreenLocator,
	visionModel, textModel string, timeout time.Duration, hook trace.Hook, logger zerolog.Logger) *Classifier {
	if hook == nil {
		hook = trace.NopHook{}
	}
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Classifier{
		gen:         gen,
		capturer:    capturer,
		locator:     locator,
		visionModel: visionModel,
		textModel:   textModel,
		timeout:     timeout,
		hook:        hook,
		log:         logger.With().Str("component", "classify").Logger(),
	}
}

// TakeSample captures all screens and classifies the main activity. The
// sample's timestamp is taken before capture starts so the entry reflects
// when the observation began, not when the models finished.
func (c *Classifier) TakeSample(ctx context.Context) (*Sample, error) {
	now := time.Now()

	shots, err := c.capturer.Capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}

	scene, err := c.describeScene(ctx, shots)
	if closeErr := shots.Close(); closeErr != nil {
		c.log.Warn().Err(closeErr).Msg("failed to clean up screenshots")
	}
	if err != nil {
		return nil, fmt.Errorf("scene description failed: %w", err)
	}

	c.log.Info().Int("primary_screen", scene.PrimaryScreen).
		Str("description", scene.MainActivityDescription).Msg("scene described")

	result, err := c.classifyScene(ctx, scene)
	if err != nil {
		return nil, fmt.Errorf("activity classification failed: %w", err)
	}

	c.log.Info().Str("activity", string(result.MainActivity)).Msg("activity identified")

	return &Sample{
		Timestamp:        now,
		Activity:         result.MainActivity,
		Reasoning:        result.Reasoning,
		SecondaryContext: scene.SecondaryContext,
	}, nil
}

// describeScene runs the vision stage over the captured screenshots.
func (c *Classifier) describeScene(ctx context.Context, shots *screen.Shots) (*SceneDescription, error) {
	images := make([]string, 0, shots.Count())
	for _, index := range shots.Indexes() {
		path, _ := shots.Path(index)
		encoded, err := llm.EncodeImageFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to encode screenshot %d: %w", index, err)
		}
		images = append(images, encoded)
	}
	if len(images) == 0 {
		return nil, errors.New("no screenshots to describe")
	}

	multi := len(images) > 1
	req := llm.GenerateRequest{
		Model:   c.visionModel,
		Images:  images,
		Options: llm.Options{Temperature: 0},
	}
	if multi {
		active, ok := c.locator.ActiveScreen(ctx, shots.Bounds())
		if ok {
			c.log.Debug().Int("screen", active).Msg("focused window located")
		}
		req.Prompt = buildMultiScreenPrompt(active, ok)
		req.Format = sceneSchema
	} else {
		req.Prompt = singleScreenPrompt
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.gen.Generate(callCtx, req)
	c.record("describe", c.visionModel, len(images), resp, err)
	if err != nil {
		return nil, err
	}

	if !multi {
		return &SceneDescription{
			PrimaryScreen:           1,
			MainActivityDescription: resp.Response,
		}, nil
	}

	// For schema-constrained vision calls the structured document arrives
	// in the thinking field, not the response body.
	if resp.Thinking == "" {
		return nil, ErrNoStructuredPayload
	}
	var scene SceneDescription
	if err := json.Unmarshal([]byte(resp.Thinking), &scene); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoStructuredPayload, err)
	}
	return &scene, nil
}

// classifyScene runs the text stage over a scene description.
func (c *Classifier) classifyScene(ctx context.Context, scene *SceneDescription) (*Result, error) {
	req := llm.GenerateRequest{
		Model:   c.textModel,
		Prompt:  buildClassificationPrompt(scene.MainActivityDescription, scene.SecondaryContext),
		Format:  resultSchema,
		Think:   true,
		Options: llm.Options{Temperature: 0},
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.gen.Generate(callCtx, req)
	c.record("classify", c.textModel, 0, resp, err)
	if err != nil {
		return nil, err
	}

	result, err := parseResult(resp.Response)
	if err != nil {
		return nil, err
	}
	if resp.Thinking != "" {
		c.log.Debug().Str("thinking", resp.Thinking).Msg("model reasoning")
	}
	return result, nil
}

// parseResult decodes and validates a classification document. The label
// must come from the known activity set even though the schema already
// constrains it.
func parseResult(raw string) (*Result, error) {
	var wire struct {
		MainActivity     string  `json:"main_activity"`
		Reasoning        string  `json:"reasoning"`
		SecondaryContext *string `json:"secondary_context"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("failed to parse classification: %w", err)
	}

	act, err := activity.Parse(wire.MainActivity)
	if err != nil {
		return nil, fmt.Errorf("invalid classification: %w", err)
	}
	if wire.Reasoning == "" {
		return nil, errors.New("invalid classification: empty reasoning")
	}

	result := &Result{MainActivity: act, Reasoning: wire.Reasoning}
	if wire.SecondaryContext != nil {
		result.SecondaryContext = *wire.SecondaryContext
	}
	return result, nil
}

// record reports a finished model call to the trace hook.
func (c *Classifier) record(stage, model string, screens int, resp *llm.GenerateResponse, err error) {
	call := trace.ModelCall{
		Stage:   stage,
		Model:   model,
		Screens: screens,
		Err:     err,
	}
	if resp != nil {
		call.PromptTokens = resp.PromptEvalCount
		call.CompletionTokens = resp.EvalCount
		call.LoadDuration = time.Duration(resp.LoadDuration)
		call.EvalDuration = time.Duration(resp.EvalDuration)
		call.TotalDuration = time.Duration(resp.TotalDuration)
	}
	c.hook.ModelCall(call)
}

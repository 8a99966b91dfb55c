// Package trace defines an injectable hook for observing model calls.
//
// The hook is a port with a no-op default: its presence or absence never
// changes control flow. Callers record call metadata (token counts, timings)
// and move on regardless of what the hook does with it.
package trace

import (
	"time"

	"github.com/rs/zerolog"
)

// ModelCall describes one completed model invocation.
type ModelCall struct {
	Stage            string // "describe", "classify", "merge", "summarize"
	Model            string
	PromptTokens     int
	CompletionTokens int
	LoadDuration     time.Duration
	EvalDuration     time.Duration
	TotalDuration    time.Duration
	Screens          int // screenshots attached, 0 for text-only calls
	Err              error
}

// Hook receives model call metadata.
type Hook interface {
	ModelCall(call ModelCall)
}

// NopHook discards everything. The default when no hook is configured.
type NopHook struct{}

func (NopHook) ModelCall(ModelCall) {}

// LogHook writes model call metadata at debug level.
type LogHook struct {
	Logger zerolog.Logger
}

func (h LogHook) ModelCall(call ModelCall) {
	evt := h.Logger.Debug().
		Str("stage", call.Stage).
		Str("model", call.Model).
		Int("prompt_tokens", call.PromptTokens).
		Int("completion_tokens", call.CompletionTokens).
		Dur("eval_duration", call.EvalDuration).
		Dur("total_duration", call.TotalDuration)
	if call.Screens > 0 {
		evt = evt.Int("screens", call.Screens)
	}
	if call.Err != nil {
		evt = evt.Err(call.Err)
	}
	evt.Msg("model call")
}

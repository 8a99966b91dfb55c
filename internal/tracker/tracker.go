package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/invariante/zeit/internal/activity"
	"github.com/invariante/zeit/internal/classify"
)

// TickOutcome says what a tick did.
type TickOutcome int

const (
	// TickSkipped means the gate stopped the tick; nothing was stored.
	TickSkipped TickOutcome = iota
	// TickIdle means the user was away; one idle entry was stored.
	TickIdle
	// TickRecorded means a classified sample was stored.
	TickRecorded
)

// IdleDetector reads seconds since the last user input.
type IdleDetector interface {
	Seconds(ctx context.Context) (float64, error)
}

// Sampler produces one classified activity sample.
type Sampler interface {
	TakeSample(ctx context.Context) (*classify.Sample, error)
}

// Inserter stores one entry.
type Inserter interface {
	Insert(entry activity.Entry) error
}

// Runner executes ticks. One external invocation is one tick; there is
// no scheduling loop in here.
type Runner struct {
	gate          *Gate
	idle          IdleDetector
	sampler       Sampler
	store         Inserter
	idleThreshold float64
	log           zerolog.Logger
}

// NewRunner wires up a tick Runner. idleThreshold is in seconds.
func NewRunner(gate *Gate, idle IdleDetector, sampler Sampler, store Inserter,
	idleThreshold float64, logger zerolog.Logger) *Runner {
	return &Runner{
		gate:          gate,
		idle:          idle,
		sampler:       sampler,
		store:         store,
		idleThreshold: idleThreshold,
		log:           logger.With().Str("component", "tracker").Logger(),
	}
}

// Tick runs one sampling cycle. A tick stores at most one entry: an idle
// marker when the user is away, a classified sample otherwise, nothing
// at all when the gate skips or any hard step fails. force bypasses the
// gate but not the idle check.
func (r *Runner) Tick(ctx context.Context, now time.Time, force bool) (TickOutcome, error) {
	if !force {
		state := r.gate.Evaluate(now)
		if state.Kind != Active {
			r.log.Info().Str("state", state.Kind.String()).
				Str("status", state.StatusMessage).Msg("tick skipped")
			return TickSkipped, nil
		}
	}

	if r.userIsIdle(ctx) {
		entry := activity.IdleEntry(now)
		if err := r.store.Insert(entry); err != nil {
			return TickSkipped, fmt.Errorf("failed to store idle entry: %w", err)
		}
		r.log.Info().Msg("user idle, recorded idle entry")
		return TickIdle, nil
	}

	sample, err := r.sampler.TakeSample(ctx)
	if err != nil {
		return TickSkipped, err
	}

	if err := r.store.Insert(sample.Entry()); err != nil {
		return TickSkipped, fmt.Errorf("failed to store sample: %w", err)
	}
	return TickRecorded, nil
}

// userIsIdle checks the idle threshold. Detection failures assume the
// user is active so a broken idle tool degrades to normal sampling
// instead of blinding the tracker.
func (r *Runner) userIsIdle(ctx context.Context) bool {
	seconds, err := r.idle.Seconds(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("idle detection failed, assuming active")
		return false
	}
	r.log.Debug().Float64("idle_seconds", seconds).Msg("idle time read")
	return seconds >= r.idleThreshold
}

// Package summary turns a day's activity record into a short narrative.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/invariante/zeit/internal/activity"
	"github.com/invariante/zeit/internal/stats"
)

const dayPrompt = `This is a condensed view of the user's activities during the day.

## Time Distribution
%s

## Chronological Activities
%s

Summarize the user's day qualitatively.
- Describe what they focused on and how their time was distributed
- Reference the percentages to provide numerical context where relevant
- Note any notable patterns or transitions between activities
- Don't make value judgments (either positive or negative)
- Don't talk about balance unless the numbers clearly justify it
- Just summarize the activities in an objective manner`

const dayWithObjectivesPrompt = `This is a condensed view of the user's activities during the day.

## User's Day Objectives
**Main Objective:** %s
%s

## Time Distribution
%s

## Chronological Activities
%s

Summarize the user's day and evaluate alignment with their objectives.
- Describe what they focused on and how their time was distributed
- Reference the percentages to provide numerical context where relevant
- Assess whether their activities aligned with their stated objectives
- Note which objectives were supported by their activities and which were not
- Be objective and factual in your assessment
- Don't make value judgments (either positive or negative)`

// Objectives are the user's stated goals for the day being summarized.
type Objectives struct {
	Main      string
	Secondary []string
}

// DaySummary is the generated narrative with the active span it covers.
type DaySummary struct {
	Summary   string
	StartTime time.Time
	EndTime   time.Time
}

// Summarizer produces day narratives from activity entries.
type Summarizer struct {
	gen stats.TextGenerator
	log zerolog.Logger
}

// New creates a Summarizer.
func New(gen stats.TextGenerator, logger zerolog.Logger) *Summarizer {
	return &Summarizer{
		gen: gen,
		log: logger.With().Str("component", "summary").Logger(),
	}
}

// Summarize condenses a day's entries and generates a narrative. A day
// with no non-idle entries has nothing to tell and returns nil without
// calling the model; a narrative model failure also yields nil rather
// than an error. Objectives are optional; when present the narrative
// also assesses alignment with them.
func (s *Summarizer) Summarize(ctx context.Context, entries []activity.Entry, objectives *Objectives) (*DaySummary, error) {
	var nonIdle []activity.Entry
	for _, e := range entries {
		if e.Activity != activity.Idle {
			nonIdle = append(nonIdle, e)
		}
	}
	if len(nonIdle) == 0 {
		return nil, nil
	}

	s.log.Info().Int("entries", len(nonIdle)).Msg("summarizing day")

	condensed := stats.Condense(ctx, s.gen, entries)
	s.log.Debug().Int("original", condensed.OriginalEntryCount).
		Int("groups", condensed.CondensedGroupCount).Msg("condensed activities")

	prompt := buildPrompt(condensed, objectives)

	// A failed narrative call means there is no summary for the day, not
	// a failed operation.
	text, err := s.gen.GenerateText(ctx, prompt, 0.7)
	if err != nil {
		s.log.Error().Err(err).Msg("day summarization failed")
		return nil, nil
	}

	return &DaySummary{
		Summary:   strings.TrimSpace(text),
		StartTime: nonIdle[0].Timestamp,
		EndTime:   nonIdle[len(nonIdle)-1].Timestamp,
	}, nil
}

func buildPrompt(condensed stats.Condensed, objectives *Objectives) string {
	breakdown := formatBreakdown(condensed.Breakdown)

	lines := make([]string, 0, len(condensed.Groups))
	for _, g := range condensed.Groups {
		lines = append(lines, formatGroup(g))
	}
	activities := strings.Join(lines, "\n")

	if objectives == nil || objectives.Main == "" {
		return fmt.Sprintf(dayPrompt, breakdown, activities)
	}

	secondary := ""
	if len(objectives.Secondary) > 0 {
		var sb strings.Builder
		sb.WriteString("**Secondary Objectives:**")
		for _, obj := range objectives.Secondary {
			sb.WriteString("\n- ")
			sb.WriteString(obj)
		}
		secondary = sb.String()
	}
	return fmt.Sprintf(dayWithObjectivesPrompt, objectives.Main, secondary, breakdown, activities)
}

func formatBreakdown(breakdown []stats.Stat) string {
	lines := make([]string, 0, len(breakdown))
	for _, st := range breakdown {
		lines = append(lines, fmt.Sprintf("- %s: %.1f%%", st.Activity.Label(), st.Percentage))
	}
	return strings.Join(lines, "\n")
}

// formatGroup renders one group like
//
//	09:15-09:45 - work coding (30 min): "Debugging the ingest pipeline"
//
// Single-sample groups show one clock time instead of a range.
func formatGroup(g stats.Group) string {
	timeRange := g.StartTime.Format("15:04")
	if !g.EndTime.Equal(g.StartTime) {
		timeRange += "-" + g.EndTime.Format("15:04")
	}
	reasoning := g.MergedReasoning
	if reasoning == "" {
		reasoning = "No description"
	}
	return fmt.Sprintf("%s - %s (%d min): %q",
		timeRange, g.Activity.Label(), g.DurationMinutes(), reasoning)
}

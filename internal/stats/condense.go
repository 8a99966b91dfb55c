package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/invariante/zeit/internal/activity"
)

// TextGenerator is the text-completion surface used for reasoning merges
// and day narratives.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float64) (string, error)
}

const mergeReasoningsPrompt = `The user was engaged in the same activity ("%s") for about %d minutes.
The following observations were recorded one minute apart, in order:
%s

Merge these observations into a single coherent sentence describing what the user was doing during this period. Respond with the merged sentence only, no preamble.`

// MergeReasonings fuses a group's per-sample reasonings into one
// sentence. Groups with at most one reasoning pass through unchanged.
// A model failure falls back to the first reasoning; this never errors.
func MergeReasonings(ctx context.Context, gen TextGenerator, g *Group) {
	switch len(g.Reasonings) {
	case 0:
		return
	case 1:
		g.MergedReasoning = g.Reasonings[0]
		return
	}

	var sb strings.Builder
	for _, r := range g.Reasonings {
		sb.WriteString("- ")
		sb.WriteString(r)
		sb.WriteString("\n")
	}
	prompt := fmt.Sprintf(mergeReasoningsPrompt,
		g.Activity.Label(), g.DurationMinutes(), strings.TrimRight(sb.String(), "\n"))

	merged, err := gen.GenerateText(ctx, prompt, 0)
	if err != nil || strings.TrimSpace(merged) == "" {
		g.MergedReasoning = g.Reasonings[0]
		return
	}
	g.MergedReasoning = strings.TrimSpace(merged)
}

// Condensed is the grouped, percentage-annotated view of a day used as
// input to narrative generation.
type Condensed struct {
	Groups              []Group
	Breakdown           []Stat
	OriginalEntryCount  int
	CondensedGroupCount int
}

// Condense groups a day's entries and merges each group's reasonings.
// The percentage breakdown covers all entries including idle; the groups
// carry only the non-idle runs.
func Condense(ctx context.Context, gen TextGenerator, entries []activity.Entry) Condensed {
	groups := GroupConsecutive(entries)
	for i := range groups {
		MergeReasonings(ctx, gen, &groups[i])
	}
	return Condensed{
		Groups:              groups,
		Breakdown:           Breakdown(entries, true),
		OriginalEntryCount:  len(entries),
		CondensedGroupCount: len(groups),
	}
}

package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invariante/zeit/internal/activity"
)

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02T15:04:05", "2026-08-26T"+clock)
	require.NoError(t, err)
	return ts
}

func sample(t *testing.T, clock string, a activity.Extended) activity.Entry {
	t.Helper()
	if a == activity.Idle {
		return activity.IdleEntry(at(t, clock))
	}
	return activity.NewEntry(at(t, clock), a, "reasoning for "+string(a))
}

func TestBreakdownPercentages(t *testing.T) {
	entries := []activity.Entry{
		sample(t, "09:00:00", activity.WorkCoding.Extended()),
		sample(t, "09:01:00", activity.WorkCoding.Extended()),
		sample(t, "09:02:00", activity.Slack.Extended()),
		sample(t, "09:03:00", activity.WorkCoding.Extended()),
	}

	stats := Breakdown(entries, true)
	require.Len(t, stats, 2)

	assert.Equal(t, activity.WorkCoding.Extended(), stats[0].Activity)
	assert.InDelta(t, 75.0, stats[0].Percentage, 0.001)
	assert.Equal(t, activity.Slack.Extended(), stats[1].Activity)
	assert.InDelta(t, 25.0, stats[1].Percentage, 0.001)

	total := 0.0
	for _, s := range stats {
		total += s.Percentage
	}
	assert.InDelta(t, 100.0, total, 0.001)
}

func TestBreakdownTieBreakIsDeclarationOrder(t *testing.T) {
	entries := []activity.Entry{
		sample(t, "09:00:00", activity.WorkCoding.Extended()),
		sample(t, "09:01:00", activity.Slack.Extended()),
		sample(t, "09:02:00", activity.PersonalBrowsing.Extended()),
	}

	stats := Breakdown(entries, true)
	require.Len(t, stats, 3)
	assert.Equal(t, activity.PersonalBrowsing.Extended(), stats[0].Activity)
	assert.Equal(t, activity.Slack.Extended(), stats[1].Activity)
	assert.Equal(t, activity.WorkCoding.Extended(), stats[2].Activity)
}

func TestBreakdownExcludeIdle(t *testing.T) {
	entries := []activity.Entry{
		sample(t, "09:00:00", activity.WorkCoding.Extended()),
		sample(t, "09:01:00", activity.Idle),
		sample(t, "09:02:00", activity.Idle),
		sample(t, "09:03:00", activity.WorkCoding.Extended()),
	}

	withIdle := Breakdown(entries, true)
	require.Len(t, withIdle, 2)
	assert.InDelta(t, 50.0, withIdle[0].Percentage, 0.001)

	withoutIdle := Breakdown(entries, false)
	require.Len(t, withoutIdle, 1)
	assert.Equal(t, activity.WorkCoding.Extended(), withoutIdle[0].Activity)
	assert.InDelta(t, 100.0, withoutIdle[0].Percentage, 0.001)
}

func TestBreakdownEmpty(t *testing.T) {
	assert.Nil(t, Breakdown(nil, true))

	onlyIdle := []activity.Entry{sample(t, "09:00:00", activity.Idle)}
	assert.Nil(t, Breakdown(onlyIdle, false))
}

func TestGroupConsecutive(t *testing.T) {
	entries := []activity.Entry{
		sample(t, "09:00:00", activity.WorkCoding.Extended()),
		sample(t, "09:01:00", activity.WorkCoding.Extended()),
		sample(t, "09:02:00", activity.Slack.Extended()),
		sample(t, "09:03:00", activity.WorkCoding.Extended()),
	}

	groups := GroupConsecutive(entries)
	require.Len(t, groups, 3, "recurring activity after an interruption starts a new group")

	assert.Equal(t, activity.WorkCoding.Extended(), groups[0].Activity)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, at(t, "09:00:00"), groups[0].StartTime)
	assert.Equal(t, at(t, "09:01:00"), groups[0].EndTime)
	assert.Len(t, groups[0].Reasonings, 2)

	assert.Equal(t, activity.Slack.Extended(), groups[1].Activity)
	assert.Equal(t, 1, groups[1].Count)

	assert.Equal(t, activity.WorkCoding.Extended(), groups[2].Activity)
	assert.Equal(t, 1, groups[2].Count)
}

func TestGroupConsecutiveDropsIdle(t *testing.T) {
	entries := []activity.Entry{
		sample(t, "09:00:00", activity.WorkCoding.Extended()),
		sample(t, "09:01:00", activity.Idle),
		sample(t, "09:02:00", activity.WorkCoding.Extended()),
	}

	groups := GroupConsecutive(entries)
	require.Len(t, groups, 1, "idle is filtered before grouping, runs stay adjacent")
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, at(t, "09:02:00"), groups[0].EndTime)
}

func TestGroupConsecutiveStable(t *testing.T) {
	entries := []activity.Entry{
		sample(t, "09:00:00", activity.WorkCoding.Extended()),
		sample(t, "09:01:00", activity.WorkCoding.Extended()),
		sample(t, "09:02:00", activity.Slack.Extended()),
		sample(t, "09:03:00", activity.ZoomMeeting.Extended()),
		sample(t, "09:04:00", activity.ZoomMeeting.Extended()),
		sample(t, "09:05:00", activity.WorkCoding.Extended()),
	}

	first := GroupConsecutive(entries)

	// Re-expand every group into its run and regroup; output must match.
	var flattened []activity.Entry
	for _, g := range first {
		ts := g.StartTime
		for i := 0; i < g.Count; i++ {
			reasoning := ""
			if i < len(g.Reasonings) {
				reasoning = g.Reasonings[i]
			}
			flattened = append(flattened, activity.NewEntry(ts, g.Activity, reasoning))
			ts = ts.Add(time.Minute)
		}
	}

	second := GroupConsecutive(flattened)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Activity, second[i].Activity)
		assert.Equal(t, first[i].Count, second[i].Count)
		assert.Equal(t, first[i].StartTime, second[i].StartTime)
	}
}

func TestComputeDayStats(t *testing.T) {
	entries := []activity.Entry{
		sample(t, "09:00:00", activity.WorkCoding.Extended()),
		sample(t, "09:01:00", activity.Slack.Extended()),
		sample(t, "09:02:00", activity.PersonalBrowsing.Extended()),
		sample(t, "09:03:00", activity.Idle),
	}

	ds := ComputeDayStats("2026-08-26", entries)
	assert.Equal(t, 4, ds.TotalSamples)
	assert.Equal(t, 2, ds.WorkCount)
	assert.Equal(t, 1, ds.PersonalCount)
	assert.Equal(t, 1, ds.IdleCount)
	assert.InDelta(t, 50.0, ds.WorkPercentage, 0.001)
	assert.InDelta(t, 25.0, ds.PersonalPercentage, 0.001)
	assert.InDelta(t, 25.0, ds.IdlePercentage, 0.001)
}

func TestComputeDayStatsEmpty(t *testing.T) {
	ds := ComputeDayStats("2026-08-26", nil)
	assert.Equal(t, 0, ds.TotalSamples)
	assert.Empty(t, ds.Activities)
	assert.Zero(t, ds.WorkPercentage)
}

type fakeTextGen struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeTextGen) GenerateText(_ context.Context, prompt string, _ float64) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestMergeReasoningsSingle(t *testing.T) {
	gen := &fakeTextGen{}
	g := Group{Activity: activity.Slack.Extended(), Reasonings: []string{"chatting with the team"}}

	MergeReasonings(t.Context(), gen, &g)
	assert.Equal(t, "chatting with the team", g.MergedReasoning)
	assert.Empty(t, gen.prompts, "single reasoning needs no model call")
}

func TestMergeReasoningsMultiple(t *testing.T) {
	gen := &fakeTextGen{response: "Debugging the ingest pipeline in the editor.\n"}
	g := Group{
		Activity:   activity.WorkCoding.Extended(),
		Count:      2,
		Reasonings: []string{"editor with Go code", "running tests in a terminal"},
	}

	MergeReasonings(t.Context(), gen, &g)
	assert.Equal(t, "Debugging the ingest pipeline in the editor.", g.MergedReasoning)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "work coding")
	assert.Contains(t, gen.prompts[0], "editor with Go code")
}

func TestMergeReasoningsFallbackOnFailure(t *testing.T) {
	gen := &fakeTextGen{err: errors.New("model unavailable")}
	g := Group{
		Activity:   activity.WorkCoding.Extended(),
		Count:      2,
		Reasonings: []string{"first observation", "second observation"},
	}

	MergeReasonings(t.Context(), gen, &g)
	assert.Equal(t, "first observation", g.MergedReasoning)
}

func TestCondense(t *testing.T) {
	gen := &fakeTextGen{response: "merged"}
	entries := []activity.Entry{
		sample(t, "09:00:00", activity.WorkCoding.Extended()),
		sample(t, "09:01:00", activity.WorkCoding.Extended()),
		sample(t, "09:02:00", activity.Idle),
		sample(t, "09:03:00", activity.Slack.Extended()),
	}

	condensed := Condense(t.Context(), gen, entries)
	assert.Equal(t, 4, condensed.OriginalEntryCount)
	assert.Equal(t, 2, condensed.CondensedGroupCount)
	require.Len(t, condensed.Groups, 2)
	assert.Equal(t, "merged", condensed.Groups[0].MergedReasoning)
	assert.Len(t, condensed.Breakdown, 3, "breakdown keeps idle")
}

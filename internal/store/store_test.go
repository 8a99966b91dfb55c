package store

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invariante/zeit/internal/activity"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func entryAt(t *testing.T, ts string, a activity.Extended) activity.Entry {
	t.Helper()
	parsed, err := time.Parse("2006-01-02T15:04:05", ts)
	require.NoError(t, err)
	if a == activity.Idle {
		return activity.IdleEntry(parsed)
	}
	return activity.NewEntry(parsed, a, "reasoning")
}

func TestInsertAppendsInOrder(t *testing.T) {
	s := openTestStore(t)

	clocks := []string{"09:00:00", "09:01:00", "09:02:00", "09:03:00", "09:04:00"}
	for _, c := range clocks {
		require.NoError(t, s.Insert(entryAt(t, "2026-08-26T"+c, activity.WorkCoding.Extended())))
	}

	rec, err := s.Get("2026-08-26")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Len(t, rec.Entries, len(clocks))

	for i, c := range clocks {
		assert.Equal(t, "2026-08-26T"+c, rec.Entries[i].Timestamp.Format("2006-01-02T15:04:05"))
	}
}

func TestInsertSeparateDates(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(entryAt(t, "2026-08-26T09:00:00", activity.Slack.Extended())))
	require.NoError(t, s.Insert(entryAt(t, "2026-08-27T09:00:00", activity.WorkCoding.Extended())))

	rec1, err := s.Get("2026-08-26")
	require.NoError(t, err)
	require.Len(t, rec1.Entries, 1)
	assert.Equal(t, activity.Slack.Extended(), rec1.Entries[0].Activity)

	rec2, err := s.Get("2026-08-27")
	require.NoError(t, err)
	require.Len(t, rec2.Entries, 1)

	dates, err := s.Dates()
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-27", "2026-08-26"}, dates, "most recent first")
}

func TestEntryLandsOnItsOwnDate(t *testing.T) {
	s := openTestStore(t)

	// A sample taken just before midnight belongs to that day even if the
	// insert happens after.
	require.NoError(t, s.Insert(entryAt(t, "2026-08-26T23:59:58", activity.Entertainment.Extended())))

	rec, err := s.Get("2026-08-26")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Len(t, rec.Entries, 1)

	next, err := s.Get("2026-08-27")
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestGetMissingDate(t *testing.T) {
	s := openTestStore(t)

	rec, err := s.Get("2026-01-01")
	require.NoError(t, err)
	assert.Nil(t, rec, "absence is nil, not an error")
}

func TestIdleEntryRoundTrip(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(entryAt(t, "2026-08-26T12:00:00", activity.Idle)))

	rec, err := s.Get("2026-08-26")
	require.NoError(t, err)
	require.Len(t, rec.Entries, 1)
	assert.Equal(t, activity.Idle, rec.Entries[0].Activity)
	assert.Empty(t, rec.Entries[0].Reasoning)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(entryAt(t, "2026-08-26T09:00:00", activity.Slack.Extended())))

	deleted, err := s.Delete("2026-08-26")
	require.NoError(t, err)
	assert.True(t, deleted)

	rec, err := s.Get("2026-08-26")
	require.NoError(t, err)
	assert.Nil(t, rec)

	deleted, err = s.Delete("2026-08-26")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete finds nothing")
}

func TestObjectivesRoundTrip(t *testing.T) {
	s := openTestStore(t)

	o, err := s.GetObjectives("2026-08-26")
	require.NoError(t, err)
	assert.Nil(t, o)

	require.NoError(t, s.SaveObjectives(Objectives{
		Date:      "2026-08-26",
		Main:      "Ship the ingest fix",
		Secondary: []string{"Review pull requests", "Write documentation"},
	}))

	o, err = s.GetObjectives("2026-08-26")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "Ship the ingest fix", o.Main)
	assert.Equal(t, []string{"Review pull requests", "Write documentation"}, o.Secondary)

	// Saving again replaces.
	require.NoError(t, s.SaveObjectives(Objectives{Date: "2026-08-26", Main: "Changed plans"}))
	o, err = s.GetObjectives("2026-08-26")
	require.NoError(t, err)
	assert.Equal(t, "Changed plans", o.Main)
	assert.Empty(t, o.Secondary)

	deleted, err := s.DeleteObjectives("2026-08-26")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestInfo(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(entryAt(t, "2026-08-26T09:00:00", activity.Slack.Extended())))
	require.NoError(t, s.Insert(entryAt(t, "2026-08-26T09:01:00", activity.WorkCoding.Extended())))
	require.NoError(t, s.Insert(entryAt(t, "2026-08-27T09:00:00", activity.WorkCoding.Extended())))

	info, err := s.Info()
	require.NoError(t, err)
	assert.Equal(t, 2, info.Days)
	assert.Equal(t, 3, info.Samples)
	assert.Positive(t, info.SizeBytes)
}

// Package stats aggregates activity samples into percentage breakdowns
// and chronological groups.
package stats

import (
	"sort"
	"time"

	"github.com/invariante/zeit/internal/activity"
)

// Stat is the share of one activity within a sample set.
type Stat struct {
	Activity   activity.Extended `json:"activity"`
	Count      int               `json:"count"`
	Percentage float64           `json:"percentage"`
	Category   activity.Category `json:"category"`
}

// Breakdown computes the percentage share of each observed activity.
// Results are sorted by percentage descending; equal shares keep the
// activity declaration order so repeated runs produce identical output.
// With includeIdle false, idle samples are excluded from both the list
// and the percentage base.
func Breakdown(entries []activity.Entry, includeIdle bool) []Stat {
	counts := make(map[activity.Extended]int)
	total := 0
	for _, e := range entries {
		if !includeIdle && e.Activity == activity.Idle {
			continue
		}
		counts[e.Activity]++
		total++
	}
	if total == 0 {
		return nil
	}

	stats := make([]Stat, 0, len(counts))
	for act, count := range counts {
		stats = append(stats, Stat{
			Activity:   act,
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
			Category:   activity.Categorize(act),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return activity.DeclIndex(stats[i].Activity) < activity.DeclIndex(stats[j].Activity)
	})
	return stats
}

// DayStats is the complete aggregate view of one day.
type DayStats struct {
	Date               string  `json:"date"`
	TotalSamples       int     `json:"total_samples"`
	Activities         []Stat  `json:"activities"`
	WorkPercentage     float64 `json:"work_percentage"`
	PersonalPercentage float64 `json:"personal_percentage"`
	IdlePercentage     float64 `json:"idle_percentage"`
	WorkCount          int     `json:"work_count"`
	PersonalCount      int     `json:"personal_count"`
	IdleCount          int     `json:"idle_count"`
}

// ComputeDayStats builds per-activity and per-category statistics for a
// day's entries. An empty day yields zeroed stats, not an error.
func ComputeDayStats(date string, entries []activity.Entry) DayStats {
	ds := DayStats{Date: date, TotalSamples: len(entries)}
	if len(entries) == 0 {
		return ds
	}

	ds.Activities = Breakdown(entries, true)
	for _, s := range ds.Activities {
		switch s.Category {
		case activity.CategoryWork:
			ds.WorkCount += s.Count
		case activity.CategoryPersonal:
			ds.PersonalCount += s.Count
		default:
			ds.IdleCount += s.Count
		}
	}

	total := float64(ds.TotalSamples)
	ds.WorkPercentage = float64(ds.WorkCount) / total * 100
	ds.PersonalPercentage = float64(ds.PersonalCount) / total * 100
	ds.IdlePercentage = float64(ds.IdleCount) / total * 100
	return ds
}

// Group is a run of consecutive samples sharing one activity.
type Group struct {
	Activity        activity.Extended
	StartTime       time.Time
	EndTime         time.Time
	Count           int
	Reasonings      []string
	MergedReasoning string
}

// DurationMinutes approximates the group's length from its sample count,
// one sample per minute.
func (g Group) DurationMinutes() int {
	return g.Count
}

// GroupConsecutive drops idle samples and collapses maximal runs of
// adjacent same-activity samples into groups. A recurring activity that
// is interrupted by a different one starts a fresh group; non-adjacent
// runs are never merged. Entries are assumed to be in chronological
// order, which is how the store returns them.
func GroupConsecutive(entries []activity.Entry) []Group {
	var groups []Group
	for _, e := range entries {
		if e.Activity == activity.Idle {
			continue
		}
		if len(groups) > 0 && groups[len(groups)-1].Activity == e.Activity {
			last := &groups[len(groups)-1]
			last.EndTime = e.Timestamp
			last.Count++
			if e.Reasoning != "" {
				last.Reasonings = append(last.Reasonings, e.Reasoning)
			}
			continue
		}
		g := Group{
			Activity:  e.Activity,
			StartTime: e.Timestamp,
			EndTime:   e.Timestamp,
			Count:     1,
		}
		if e.Reasoning != "" {
			g.Reasonings = []string{e.Reasoning}
		}
		groups = append(groups, g)
	}
	return groups
}

package activity

import (
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayout is the on-disk timestamp format: ISO-8601 at second
// precision, local time, no zone offset.
const timestampLayout = "2006-01-02T15:04:05"

// Entry is a single sampled activity. Entries are immutable once written.
type Entry struct {
	Timestamp time.Time
	Activity  Extended
	Reasoning string
}

// NewEntry builds an entry from a classified sample.
func NewEntry(ts time.Time, a Extended, reasoning string) Entry {
	return Entry{Timestamp: ts.Truncate(time.Second), Activity: a, Reasoning: reasoning}
}

// IdleEntry builds an idle entry. Idle entries never carry reasoning.
func IdleEntry(ts time.Time) Entry {
	return Entry{Timestamp: ts.Truncate(time.Second), Activity: Idle}
}

// Date returns the calendar day the entry belongs to, derived from the
// entry's own timestamp rather than the clock at write time.
func (e Entry) Date() string {
	return e.Timestamp.Format("2006-01-02")
}

// entryWire is the JSON shape stored in the day record's activities column.
type entryWire struct {
	Timestamp string  `json:"timestamp"`
	Activity  string  `json:"activity"`
	Reasoning *string `json:"reasoning"`
}

// MarshalJSON encodes the entry with a second-precision ISO timestamp and
// an explicit null reasoning for idle entries.
func (e Entry) MarshalJSON() ([]byte, error) {
	w := entryWire{
		Timestamp: e.Timestamp.Format(timestampLayout),
		Activity:  string(e.Activity),
	}
	if e.Reasoning != "" {
		r := e.Reasoning
		w.Reasoning = &r
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes an entry, accepting both the bare second-precision
// layout and RFC 3339 timestamps.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w entryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	ts, err := parseTimestamp(w.Timestamp)
	if err != nil {
		return err
	}
	act, err := ParseExtended(w.Activity)
	if err != nil {
		return err
	}
	e.Timestamp = ts
	e.Activity = act
	e.Reasoning = ""
	if w.Reasoning != nil {
		e.Reasoning = *w.Reasoning
	}
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{timestampLayout, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts.Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

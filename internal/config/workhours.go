package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ClockTime is a time of day, parsed from "HH:MM" in YAML.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("invalid time format %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time format %q, expected HH:MM", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time format %q, expected HH:MM", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("time %q out of range", s)
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// Minutes returns the minute-of-day value, used for ordering comparisons.
func (t ClockTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// UnmarshalYAML accepts a "HH:MM" scalar.
func (t *ClockTime) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML emits the "HH:MM" form.
func (t ClockTime) MarshalYAML() (any, error) {
	return t.String(), nil
}

// WorkHours is the Monday-Friday time-of-day window during which sampling
// is eligible. Start is inclusive, End exclusive.
type WorkHours struct {
	Start ClockTime `yaml:"start"`
	End   ClockTime `yaml:"end"`
}

// Contains reports whether t falls within work hours: a weekday, at or
// after Start and before End.
func (w WorkHours) Contains(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	return minute >= w.Start.Minutes() && minute < w.End.Minutes()
}

// StatusMessage returns a human-readable description of where t sits
// relative to the window, e.g. "Outside work hours (Before 09:00)".
func (w WorkHours) StatusMessage(t time.Time) string {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return fmt.Sprintf("Outside work hours (%s)", t.Weekday())
	}
	minute := t.Hour()*60 + t.Minute()
	if minute < w.Start.Minutes() {
		return fmt.Sprintf("Outside work hours (Before %s)", w.Start)
	}
	if minute >= w.End.Minutes() {
		return fmt.Sprintf("Outside work hours (After %s)", w.End)
	}
	return "Within work hours"
}

// Package store persists activity samples in a per-day SQLite record.
//
// Each day is one row keyed by date, holding the day's entries as a JSON
// list. Appending is a read-modify-write of the whole list, so writes
// are serialized two ways: an IMMEDIATE transaction within the database
// and a file lock across processes. A tick fired by the scheduler and a
// manual force run can therefore never lose each other's entries.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/invariante/zeit/internal/activity"
)

const schema = `
CREATE TABLE IF NOT EXISTS daily_activities (
	date TEXT PRIMARY KEY,
	activities TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS day_objectives (
	date TEXT PRIMARY KEY,
	main_objective TEXT NOT NULL,
	secondary_objectives TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// DayRecord holds all entries recorded on one date.
type DayRecord struct {
	Date    string
	Entries []activity.Entry
}

// Objectives are the user's stated goals for one day.
type Objectives struct {
	Date      string
	Main      string
	Secondary []string
}

// Info describes the database for diagnostics.
type Info struct {
	Path      string
	SizeBytes int64
	Days      int
	Samples   int
}

// Store is the activity database.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
	log  zerolog.Logger
}

// Open opens (creating if needed) the activity database under dataDir.
func Open(dataDir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(dataDir, "zeit.db")
	// _txlock=immediate makes Begin take the write lock up front, so the
	// read-modify-write in Insert cannot deadlock against another writer.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	s := &Store{
		db:   db,
		lock: flock.New(filepath.Join(dataDir, "zeit.db.lock")),
		path: path,
		log:  logger.With().Str("component", "store").Logger(),
	}
	s.log.Debug().Str("path", path).Msg("database opened")
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert appends one entry to the record of the entry's own date,
// creating the record if the date is new. The file lock plus the
// IMMEDIATE transaction make the append atomic across processes.
func (s *Store) Insert(entry activity.Entry) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire database lock: %w", err)
	}
	defer s.lock.Unlock()

	date := entry.Date()
	now := time.Now().Format("2006-01-02T15:04:05")

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRow("SELECT activities FROM daily_activities WHERE date = ?", date).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		payload, err := marshalEntries([]activity.Entry{entry})
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			"INSERT INTO daily_activities (date, activities, created_at, updated_at) VALUES (?, ?, ?, ?)",
			date, payload, now, now); err != nil {
			return fmt.Errorf("failed to insert day record: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to read day record: %w", err)
	default:
		entries, err := unmarshalEntries(raw)
		if err != nil {
			return fmt.Errorf("corrupt day record for %s: %w", date, err)
		}
		entries = append(entries, entry)
		payload, err := marshalEntries(entries)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			"UPDATE daily_activities SET activities = ?, updated_at = ? WHERE date = ?",
			payload, now, date); err != nil {
			return fmt.Errorf("failed to update day record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.log.Info().Str("date", date).Str("activity", string(entry.Activity)).Msg("activity recorded")
	return nil
}

// Get returns the record for a date, or nil when the date has no data.
func (s *Store) Get(date string) (*DayRecord, error) {
	var raw string
	err := s.db.QueryRow("SELECT activities FROM daily_activities WHERE date = ?", date).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read day record: %w", err)
	}

	entries, err := unmarshalEntries(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt day record for %s: %w", date, err)
	}
	return &DayRecord{Date: date, Entries: entries}, nil
}

// Dates lists every date with data, most recent first.
func (s *Store) Dates() ([]string, error) {
	rows, err := s.db.Query("SELECT date FROM daily_activities ORDER BY date DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// Delete removes a day's record. It reports whether a record existed.
func (s *Store) Delete(date string) (bool, error) {
	if err := s.lock.Lock(); err != nil {
		return false, fmt.Errorf("failed to acquire database lock: %w", err)
	}
	defer s.lock.Unlock()

	res, err := s.db.Exec("DELETE FROM daily_activities WHERE date = ?", date)
	if err != nil {
		return false, fmt.Errorf("failed to delete day record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveObjectives stores (or replaces) the objectives for a date.
func (s *Store) SaveObjectives(o Objectives) error {
	secondary, err := json.Marshal(o.Secondary)
	if err != nil {
		return fmt.Errorf("failed to marshal objectives: %w", err)
	}
	now := time.Now().Format("2006-01-02T15:04:05")

	_, err = s.db.Exec(`
		INSERT INTO day_objectives (date, main_objective, secondary_objectives, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			main_objective = excluded.main_objective,
			secondary_objectives = excluded.secondary_objectives,
			updated_at = excluded.updated_at`,
		o.Date, o.Main, string(secondary), now, now)
	if err != nil {
		return fmt.Errorf("failed to save objectives: %w", err)
	}
	return nil
}

// GetObjectives returns a date's objectives, or nil when none are set.
func (s *Store) GetObjectives(date string) (*Objectives, error) {
	var main, secondaryRaw string
	err := s.db.QueryRow(
		"SELECT main_objective, secondary_objectives FROM day_objectives WHERE date = ?",
		date).Scan(&main, &secondaryRaw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read objectives: %w", err)
	}

	var secondary []string
	if err := json.Unmarshal([]byte(secondaryRaw), &secondary); err != nil {
		return nil, fmt.Errorf("corrupt objectives for %s: %w", date, err)
	}
	return &Objectives{Date: date, Main: main, Secondary: secondary}, nil
}

// DeleteObjectives removes a date's objectives. It reports whether any
// were set.
func (s *Store) DeleteObjectives(date string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM day_objectives WHERE date = ?", date)
	if err != nil {
		return false, fmt.Errorf("failed to delete objectives: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Info reports database size and row counts.
func (s *Store) Info() (*Info, error) {
	info := &Info{Path: s.path}

	if fi, err := os.Stat(s.path); err == nil {
		info.SizeBytes = fi.Size()
	}

	rows, err := s.db.Query("SELECT activities FROM daily_activities")
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		entries, err := unmarshalEntries(raw)
		if err != nil {
			continue
		}
		info.Days++
		info.Samples += len(entries)
	}
	return info, rows.Err()
}

func marshalEntries(entries []activity.Entry) (string, error) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to marshal entries: %w", err)
	}
	return string(raw), nil
}

func unmarshalEntries(raw string) ([]activity.Entry, error) {
	var entries []activity.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

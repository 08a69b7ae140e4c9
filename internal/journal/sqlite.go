package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/h1v3-io/screenshotter/pkg/protocol"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}

	// Scheduled and MCP captures may write concurrently.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS captures (
			id          TEXT PRIMARY KEY,
			tool        TEXT NOT NULL,
			backend     TEXT NOT NULL,
			platform    TEXT NOT NULL,
			path        TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL,
			message     TEXT NOT NULL DEFAULT '',
			source      TEXT NOT NULL DEFAULT '',
			captured_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_captures_captured_at ON captures(captured_at);
		CREATE INDEX IF NOT EXISTS idx_captures_status ON captures(status);
	`)
	if err != nil {
		return fmt.Errorf("journal: migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(rec *protocol.CaptureRecord) error {
	if rec.ID == "" {
		return errors.New("journal: save: record id is required")
	}
	_, err := s.db.Exec(`
		INSERT INTO captures (id, tool, backend, platform, path, status, message, source, captured_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Tool, rec.Backend, rec.Platform, rec.Path, string(rec.Status), rec.Message,
		string(rec.Trigger), formatTime(rec.CapturedAt), rec.DurationMS)
	if err != nil {
		return fmt.Errorf("journal: save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(id string) (*protocol.CaptureRecord, error) {
	row := s.db.QueryRow(`SELECT `+columns+` FROM captures WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("journal: %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("journal: get: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) List(filter Filter) ([]*protocol.CaptureRecord, error) {
	where, args := filter.where()
	query := `SELECT ` + columns + ` FROM captures` + where + ` ORDER BY captured_at DESC, rowid DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	defer rows.Close()

	var recs []*protocol.CaptureRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("journal: list scan: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) Count(filter Filter) (int, error) {
	where, args := filter.where()
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM captures`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("journal: count: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- helpers ---

const columns = `id, tool, backend, platform, path, status, message, source, captured_at, duration_ms`

func (f Filter) where() (string, []any) {
	var clauses []string
	var args []any

	switch f.Status {
	case "":
	case StatusFailed:
		clauses = append(clauses, "status != ?")
		args = append(args, string(protocol.CaptureOK))
	default:
		clauses = append(clauses, "status = ?")
		args = append(args, f.Status)
	}
	if f.Trigger != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, f.Trigger)
	}
	if !f.Since.IsZero() {
		clauses = append(clauses, "captured_at >= ?")
		args = append(args, formatTime(f.Since))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Fixed-width UTC timestamps sort lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(s scannable) (*protocol.CaptureRecord, error) {
	var rec protocol.CaptureRecord
	var status, trigger, capturedAt string
	err := s.Scan(&rec.ID, &rec.Tool, &rec.Backend, &rec.Platform, &rec.Path, &status,
		&rec.Message, &trigger, &capturedAt, &rec.DurationMS)
	if err != nil {
		return nil, err
	}
	rec.Status = protocol.CaptureStatus(status)
	rec.Trigger = protocol.CaptureTrigger(trigger)
	rec.CapturedAt, _ = time.Parse(timeLayout, capturedAt)
	return &rec, nil
}

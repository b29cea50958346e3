// Package store persists decoded messages to a sqlite database.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Record is one decoded message ready to persist, matching the messages
// table schema exactly.
type Record struct {
	Timestamp int64   `json:"timestamp"`
	Band      string  `json:"band"`
	Frequency float64 `json:"frequency"`
	Mode      string  `json:"mode"`
	SNR       float64 `json:"snr"`
	Text      string  `json:"text"`
}

// Store wraps a sqlite-backed messages table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the messages table if it does not already exist.
func (s *Store) Init() error {
	const ddl = `CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER,
		band TEXT,
		frequency REAL,
		mode TEXT,
		snr REAL,
		text TEXT
	);`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	return nil
}

// Insert persists a batch of records in a single transaction; if any
// record fails to insert, the whole batch is rolled back.
func (s *Store) Insert(records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO messages (timestamp, band, frequency, mode, snr, text) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Timestamp, r.Band, r.Frequency, r.Mode, r.SNR, r.Text); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Recent returns up to limit most recently inserted records, newest first.
// Any mode other than "JS8", including a NULL or empty column, reads back
// as "FT8".
func (s *Store) Recent(limit int) ([]Record, error) {
	rows, err := s.db.Query(`SELECT timestamp, band, frequency, mode, snr, text FROM messages ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent messages: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var mode sql.NullString
		if err := rows.Scan(&r.Timestamp, &r.Band, &r.Frequency, &mode, &r.SNR, &r.Text); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		r.Mode = mode.String
		if r.Mode != "JS8" {
			r.Mode = "FT8"
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return out, nil
}

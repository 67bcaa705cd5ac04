package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/BasaniKavya/todo-app/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS blobs (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// blobKey is the single key holding the serialized collection.
const blobKey = "tasks"

// SQLite implements Provider as a single-row key-value blob in SQLite.
type SQLite struct {
	conn *sql.DB
}

// NewSQLite opens (or creates) the database and applies the schema. The
// DSN may already carry driver parameters; WAL and busy-timeout settings
// are appended either way.
func NewSQLite(dsn string) (*SQLite, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	conn, err := sql.Open("sqlite3", dsn+sep+"_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := conn.Exec(sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Load returns the persisted collection; an absent row is an empty store.
func (s *SQLite) Load() ([]models.Task, error) {
	var value string
	err := s.conn.QueryRow(`SELECT value FROM blobs WHERE key = ?`, blobKey).Scan(&value)
	if err == sql.ErrNoRows {
		return []models.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load blob: %w", err)
	}
	var tasks []models.Task
	if err := json.Unmarshal([]byte(value), &tasks); err != nil {
		return nil, fmt.Errorf("storage: decode blob: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Save upserts the serialized collection in one statement.
func (s *SQLite) Save(tasks []models.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}
	_, err = s.conn.Exec(`
		INSERT INTO blobs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, blobKey, string(data))
	if err != nil {
		return fmt.Errorf("storage: save blob: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

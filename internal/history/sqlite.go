package history

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements history.API with SQLite-backed persistence. Reads
// are served by an embedded MemoryStore; every Record is written through to
// SQLite, and existing rows are loaded back at open.
type SQLiteStore struct {
	inner *MemoryStore
	db    *sqlx.DB
	mu    sync.Mutex
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS generations (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	claim_count INTEGER NOT NULL DEFAULT 0,
	files       TEXT NOT NULL DEFAULT '{}',
	created_at  TEXT NOT NULL
);
`

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLiteStore{inner: NewMemoryStore(), db: db}
	if err := s.loadAll(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load history: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) loadAll() error {
	rows, err := s.db.Query("SELECT id, title, claim_count, files, created_at FROM generations ORDER BY created_at")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var e Entry
		var filesJSON, createdAt string
		if err := rows.Scan(&e.ID, &e.Title, &e.ClaimCount, &filesJSON, &createdAt); err != nil {
			return err
		}
		_ = json.Unmarshal([]byte(filesJSON), &e.Files)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		if err := s.inner.Record(e); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) Record(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := s.inner.Record(e); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO generations (id, title, claim_count, files, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.ClaimCount, marshalFiles(e.Files), e.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) Get(id string) (Entry, bool) {
	return s.inner.Get(id)
}

func (s *SQLiteStore) Recent(limit int) []Entry {
	return s.inner.Recent(limit)
}

func marshalFiles(files map[string]string) string {
	if files == nil {
		return "{}"
	}
	b, err := json.Marshal(files)
	if err != nil {
		return "{}"
	}
	return string(b)
}

var _ API = (*SQLiteStore)(nil)

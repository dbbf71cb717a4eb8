package history

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// Entry records one completed generation: the documents it produced plus
// enough metadata to find them again.
type Entry struct {
	ID         string            `json:"id"`
	Title      string            `json:"title,omitempty"`
	ClaimCount int               `json:"claim_count"`
	Files      map[string]string `json:"files"`
	CreatedAt  time.Time         `json:"created_at"`
}

// API is the generation-history contract shared by the in-memory and
// SQLite-backed stores. Callers treat Record as best effort: a generation
// succeeds even when its history row cannot be written.
type API interface {
	Record(Entry) error
	Get(id string) (Entry, bool)
	Recent(limit int) []Entry
}

// MemoryStore keeps history in memory only; it is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string // ids, oldest first
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Record(e Entry) error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("entry id is required")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[e.ID]; !ok {
		s.order = append(s.order, e.ID)
	}
	s.entries[e.ID] = e
	return nil
}

func (s *MemoryStore) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (s *MemoryStore) Recent(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.order) {
		limit = len(s.order)
	}
	out := make([]Entry, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[s.order[i]])
	}
	return out
}

var _ API = (*MemoryStore)(nil)

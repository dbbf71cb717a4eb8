package history

import (
	"testing"
	"time"
)

func TestMemoryStoreRecordAndGet(t *testing.T) {
	s := NewMemoryStore()
	e := Entry{
		ID:         "a1b2c3d4e5",
		Title:      "一种数据处理方法",
		ClaimCount: 3,
		Files:      map[string]string{"spec": "a1b2c3d4e5_说明书.docx"},
	}
	if err := s.Record(e); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, ok := s.Get("a1b2c3d4e5")
	if !ok {
		t.Fatal("expected entry to be found")
	}
	if got.Title != e.Title || got.ClaimCount != 3 {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be stamped")
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestMemoryStoreRejectsEmptyID(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Record(Entry{ID: "  "}); err == nil {
		t.Fatal("expected error for blank id")
	}
}

func TestMemoryStoreRecentNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2026, 2, 17, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"first00000", "second0000", "third00000"} {
		if err := s.Record(Entry{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}

	got := s.Recent(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ID != "third00000" || got[1].ID != "second0000" {
		t.Fatalf("expected newest first, got %q then %q", got[0].ID, got[1].ID)
	}

	all := s.Recent(0)
	if len(all) != 3 {
		t.Fatalf("expected all entries for non-positive limit, got %d", len(all))
	}
}

func TestMemoryStoreRecordOverwrites(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Record(Entry{ID: "dup0000000", Title: "旧标题"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Record(Entry{ID: "dup0000000", Title: "新标题"}); err != nil {
		t.Fatalf("re-record: %v", err)
	}

	if got := s.Recent(0); len(got) != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", len(got))
	}
	got, _ := s.Get("dup0000000")
	if got.Title != "新标题" {
		t.Fatalf("expected overwritten title, got %q", got.Title)
	}
}

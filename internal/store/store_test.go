package store

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

// newTestStore creates a new Store with an in-memory database for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewMemory()
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	tables := []string{"recordings", "transcript_revisions"}
	for _, table := range tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s should exist: %v", table, err)
		}
	}
}

func TestNewStore_MemoryIsPrivate(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)

	if _, err := a.Revisions().Append("ONLY IN A"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	revs, err := b.Revisions().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(revs) != 0 {
		t.Errorf("second store sees %d revisions, want 0", len(revs))
	}
}

func TestRecordingRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Recordings()

	started := time.Now().Add(-3 * time.Second)
	rec := &Recording{
		MimeType:  "video/x-motion-jpeg",
		Data:      []byte{0xff, 0xd8, 0xff, 0xd9},
		Frames:    1,
		StartedAt: started,
		StoppedAt: time.Now(),
	}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.ID == "" {
		t.Fatal("Create() should assign an ID")
	}

	got, err := repo.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.MimeType != rec.MimeType || got.Frames != 1 || got.Size != 4 {
		t.Errorf("Get() = %+v", got)
	}
	if !bytes.Equal(got.Data, rec.Data) {
		t.Errorf("Data = %v, want %v", got.Data, rec.Data)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}
}

func TestRecordingRepository_GetNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Recordings().Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestRecordingRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Recordings()

	for _, id := range []string{"first", "second"} {
		if err := repo.Create(&Recording{ID: id, MimeType: "video/x-motion-jpeg", Data: []byte(id)}); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() len = %d, want 2", len(list))
	}
	if list[0].ID != "second" || list[0].Size != len("second") || list[0].Data != nil {
		t.Errorf("List()[0] = %+v", list[0])
	}
}

func TestRevisionRepository_AppendList(t *testing.T) {
	s := newTestStore(t)
	repo := s.Revisions()

	for _, sentence := range []string{"H", "HE", "HELLO"} {
		if _, err := repo.Append(sentence); err != nil {
			t.Fatalf("Append(%q) error = %v", sentence, err)
		}
	}

	revs, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(revs) != 3 {
		t.Fatalf("List() len = %d, want 3", len(revs))
	}
	for i, want := range []string{"H", "HE", "HELLO"} {
		if revs[i].Sentence != want {
			t.Errorf("revs[%d].Sentence = %q, want %q", i, revs[i].Sentence, want)
		}
		if i > 0 && revs[i].Seq <= revs[i-1].Seq {
			t.Errorf("revision sequence not increasing at %d", i)
		}
	}
}

func TestStore_Reset(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Revisions().Append("A"); err != nil {
		t.Fatal(err)
	}
	if err := s.Recordings().Create(&Recording{MimeType: "video/x-motion-jpeg", Data: []byte("x")}); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	revs, _ := s.Revisions().List()
	if len(revs) != 0 {
		t.Errorf("revisions after Reset = %d, want 0", len(revs))
	}
	recs, _ := s.Recordings().List()
	if len(recs) != 0 {
		t.Errorf("recordings after Reset = %d, want 0", len(recs))
	}
}

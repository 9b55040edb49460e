package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/avetisov/jobscout/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleJob(platform, id string) model.Job {
	j := model.Job{
		Platform:   platform,
		ExternalID: id,
		Title:      "Go Developer",
		Company:    "Acme",
		Location:   "Berlin",
		URL:        "https://example.com/jobs/" + id,
		PostedAt:   time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		IsExternal: true,
	}
	j.ID = j.Key()
	return j
}

func TestSaveJobsIgnoresDuplicates(t *testing.T) {
	s := newTestStore(t)

	jobs := []model.Job{sampleJob("linkedin", "1"), sampleJob("linkedin", "2")}
	saved, err := s.SaveJobs(jobs)
	if err != nil {
		t.Fatalf("SaveJobs() error = %v", err)
	}
	if saved != 2 {
		t.Errorf("saved %d jobs, want 2", saved)
	}

	// Saving the same jobs again plus one new must only count the new row.
	saved, err = s.SaveJobs(append(jobs, sampleJob("indeed", "1")))
	if err != nil {
		t.Fatalf("SaveJobs() error = %v", err)
	}
	if saved != 1 {
		t.Errorf("saved %d jobs on re-save, want 1", saved)
	}
}

func TestListSaved(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SaveJobs([]model.Job{sampleJob("linkedin", "1"), sampleJob("indeed", "2")}); err != nil {
		t.Fatalf("SaveJobs() error = %v", err)
	}

	jobs, err := s.ListSaved(0)
	if err != nil {
		t.Fatalf("ListSaved() error = %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	for _, j := range jobs {
		if j.ID != j.Key() {
			t.Errorf("ID = %q, want derived key %q", j.ID, j.Key())
		}
		if !j.IsExternal {
			t.Error("IsExternal = false, want true")
		}
	}

	limited, err := s.ListSaved(1)
	if err != nil {
		t.Fatalf("ListSaved(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d jobs with limit 1, want 1", len(limited))
	}
}

func TestSeenRoundTrip(t *testing.T) {
	s := newTestStore(t)

	seen, err := s.HasSeen("linkedin-1")
	if err != nil {
		t.Fatalf("HasSeen() error = %v", err)
	}
	if seen {
		t.Error("HasSeen() = true for an unseen key")
	}

	if err := s.MarkSeen("linkedin-1"); err != nil {
		t.Fatalf("MarkSeen() error = %v", err)
	}
	// Marking twice is a no-op, not an error.
	if err := s.MarkSeen("linkedin-1"); err != nil {
		t.Fatalf("second MarkSeen() error = %v", err)
	}

	seen, err = s.HasSeen("linkedin-1")
	if err != nil {
		t.Fatalf("HasSeen() error = %v", err)
	}
	if !seen {
		t.Error("HasSeen() = false after MarkSeen")
	}
}

func TestCleanupKeepsRecentEntries(t *testing.T) {
	s := newTestStore(t)

	if err := s.MarkSeen("linkedin-1"); err != nil {
		t.Fatalf("MarkSeen() error = %v", err)
	}
	if err := s.Cleanup(24 * time.Hour); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	seen, err := s.HasSeen("linkedin-1")
	if err != nil {
		t.Fatalf("HasSeen() error = %v", err)
	}
	if !seen {
		t.Error("Cleanup removed an entry newer than the cutoff")
	}
}

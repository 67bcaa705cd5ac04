package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BasaniKavya/todo-app/internal/models"
)

func sampleTasks() []models.Task {
	return []models.Task{
		{
			ID:        "1-0-abcd1234",
			Text:      "buy milk",
			Priority:  models.PriorityHigh,
			Due:       "2024-03-10",
			Category:  "errands",
			CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Order:     -1,
		},
		{
			ID:        "1-1-abcd5678",
			Text:      "write report",
			Completed: true,
			Priority:  models.PriorityNormal,
			CreatedAt: time.Date(2024, 2, 28, 9, 30, 0, 0, time.UTC),
			Order:     0,
		},
	}
}

func TestFileLoadMissingIsEmpty(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	tasks, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("want empty collection, got %d tasks", len(tasks))
	}
}

func TestFileRoundTrip(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	want := sampleTasks()
	if err := f.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertTasksEqual(t, want, got)
}

func TestFileSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(filepath.Join(dir, "tasks.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := f.Save(sampleTasks()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("want only tasks.json in %s, got %d entries", dir, len(entries))
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("fresh db should be empty, got %d tasks", len(tasks))
	}

	want := sampleTasks()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertTasksEqual(t, want, got)

	// Second save replaces, not appends.
	if err := s.Save(want[:1]); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	got, err = s.Load()
	if err != nil {
		t.Fatalf("Load again: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("want 1 task after replace, got %d", len(got))
	}
}

func TestSQLiteDSNWithParams(t *testing.T) {
	// The configured path may already carry driver parameters.
	dsn := filepath.Join(t.TempDir(), "tasks.db") + "?cache=shared"
	s, err := NewSQLite(dsn)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()

	want := sampleTasks()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertTasksEqual(t, want, got)
}

func assertTasksEqual(t *testing.T, want, got []models.Task) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.ID != w.ID || g.Text != w.Text || g.Completed != w.Completed ||
			g.Priority != w.Priority || g.Due != w.Due || g.Category != w.Category ||
			g.Order != w.Order || !g.CreatedAt.Equal(w.CreatedAt) {
			t.Errorf("task %d = %+v, want %+v", i, g, w)
		}
	}
}

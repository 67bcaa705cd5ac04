package taskstore

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/BasaniKavya/todo-app/internal/idgen"
	"github.com/BasaniKavya/todo-app/internal/models"
	"github.com/BasaniKavya/todo-app/internal/storage"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_ExternalEditReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	provider, err := storage.NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	store, err := New(provider, idgen.New())
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	reloads := 0

	go Watch(ctx, store, path, logger, func() {
		mu.Lock()
		reloads++
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	// Simulate another process replacing the blob.
	external := []models.Task{{
		ID: "ext-1", Text: "from outside", Priority: models.PriorityNormal,
		CreatedAt: time.Now().UTC(), Order: 0,
	}}
	if err := provider.Save(external); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reloads >= 1
	}, "watcher never reloaded after external edit")

	tasks := store.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "from outside" {
		t.Errorf("store after reload = %+v", tasks)
	}
}

func TestWatcher_OwnSaveSuppressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	provider, err := storage.NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	store, err := New(provider, idgen.New())
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	reloads := 0

	go Watch(ctx, store, path, logger, func() {
		mu.Lock()
		reloads++
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	// A mutation through the store writes the file, but loads back
	// identical content: no reload callback.
	if _, err := store.Create("own write", Metadata{}); err != nil {
		t.Fatal(err)
	}

	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if reloads != 0 {
		t.Errorf("own save triggered %d reloads, want 0", reloads)
	}
}

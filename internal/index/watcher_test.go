package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/warband/internal/storage"
)

// watcherTestEnv sets up a snapshot dir, storage, and DB for watcher tests.
func watcherTestEnv(t *testing.T) (string, storage.Provider, *DB) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store, testDB(t)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

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

func TestSync_IndexesAndRemovesStale(t *testing.T) {
	dir, store, db := watcherTestEnv(t)
	logger := quietLogger()

	_ = os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"name":"A"}`), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "b.json"), []byte(`{"name":"B"}`), 0o644)
	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if m, _ := db.AllChecksums(); len(m) != 2 {
		t.Fatalf("indexed = %v, want 2", m)
	}

	_ = os.Remove(filepath.Join(dir, "b.json"))
	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if cs, _ := db.GetChecksum("b"); cs != "" {
		t.Error("stale entry not removed")
	}
}

func TestWatcher_NewFileIndexed(t *testing.T) {
	dir, store, db := watcherTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string

	go Watch(ctx, db, store, dir, quietLogger(), func(kind, id string) {
		mu.Lock()
		events = append(events, kind+":"+id)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	_ = store.Write("novo", []byte(`{"name":"Novo"}`))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("novo")
		return cs != ""
	}, "new snapshot not indexed by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "created:novo" {
				return true
			}
		}
		return false
	}, "expected created:novo callback")
}

func TestWatcher_UpdateReported(t *testing.T) {
	dir, store, db := watcherTestEnv(t)
	_ = store.Write("b", []byte(`{"name":"Antes"}`))
	_ = Sync(db, store, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var kinds []string
	go Watch(ctx, db, store, dir, quietLogger(), func(kind, id string) {
		mu.Lock()
		kinds = append(kinds, kind)
		mu.Unlock()
	})
	time.Sleep(100 * time.Millisecond)

	_ = store.Write("b", []byte(`{"name":"Depois"}`))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		s, err := db.GetWarband("b")
		return err == nil && s.Name == "Depois"
	}, "update not indexed")

	mu.Lock()
	defer mu.Unlock()
	for _, k := range kinds {
		if k == KindCreated {
			t.Errorf("existing snapshot reported as created: %v", kinds)
		}
	}
}

func TestWatcher_ReportsChangeAlreadyIndexedByWriter(t *testing.T) {
	dir, store, db := watcherTestEnv(t)
	_ = store.Write("c", []byte(`{"name":"v1"}`))
	_ = Sync(db, store, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string
	go Watch(ctx, db, store, dir, quietLogger(), func(kind, id string) {
		mu.Lock()
		events = append(events, kind+":"+id)
		mu.Unlock()
	})
	time.Sleep(100 * time.Millisecond)

	// The writer indexes the new content before the file event is handled.
	v2 := []byte(`{"name":"v2"}`)
	if err := indexSnapshot(db, "c", v2, time.Now().UTC()); err != nil {
		t.Fatal(err)
	}
	_ = store.Write("c", v2)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "updated:c" {
				return true
			}
		}
		return false
	}, "change indexed by its writer was not reported")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir, store, db := watcherTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, db, store, dir, quietLogger(), nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	_ = store.Write("real", []byte(`{}`))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("real")
		return cs != ""
	}, "snapshot not indexed")
	if m, _ := db.AllChecksums(); len(m) != 1 {
		t.Errorf("indexed = %v, want only real", m)
	}
}

func TestWatcher_DeleteRemovesFromIndex(t *testing.T) {
	dir, store, db := watcherTestEnv(t)
	logger := quietLogger()

	_ = os.WriteFile(filepath.Join(dir, "del.json"), []byte(`{"name":"Del"}`), 0o644)
	Sync(db, store, logger)

	cs, _ := db.GetChecksum("del")
	if cs == "" {
		t.Fatal("precondition: snapshot should be indexed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, store, dir, logger, nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.Remove(filepath.Join(dir, "del.json"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("del")
		return cs == ""
	}, "deleted snapshot still in index")
}

func TestWatcher_RenameReconciles(t *testing.T) {
	dir, store, db := watcherTestEnv(t)
	logger := quietLogger()

	_ = os.WriteFile(filepath.Join(dir, "old.json"), []byte(`{"name":"Rename"}`), 0o644)
	Sync(db, store, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, store, dir, logger, nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.Rename(filepath.Join(dir, "old.json"), filepath.Join(dir, "renamed.json"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		oldCS, _ := db.GetChecksum("old")
		newCS, _ := db.GetChecksum("renamed")
		return oldCS == "" && newCS != ""
	}, "rename reconciliation failed: old id should be removed and new id indexed")
}

package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestShouldNotify(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		if shouldNotify(fsnotify.Event{Name: "", Op: fsnotify.Write}) {
			t.Fatalf("expected false for empty event name")
		}
	})

	t.Run("chmod ignored", func(t *testing.T) {
		if shouldNotify(fsnotify.Event{Name: "/tmp/a.json", Op: fsnotify.Chmod}) {
			t.Fatalf("expected false for chmod")
		}
	})

	t.Run("write", func(t *testing.T) {
		if !shouldNotify(fsnotify.Event{Name: "/tmp/a.json", Op: fsnotify.Write}) {
			t.Fatalf("expected true for write")
		}
	})

	t.Run("rename", func(t *testing.T) {
		if !shouldNotify(fsnotify.Event{Name: "/tmp/a.json", Op: fsnotify.Rename}) {
			t.Fatalf("expected true for rename")
		}
	})
}

func TestWatcher_NotifiesTrackedFilesOnly(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "a.json")
	other := filepath.Join(dir, "b.json")
	for _, p := range []string{tracked, other} {
		if err := os.WriteFile(p, []byte(`{}`), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	changes := make(chan string, 16)
	w, err := New(func(p string) { changes <- p }, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if err := w.Add(tracked); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !w.Tracked(tracked) || w.Tracked(other) {
		t.Fatalf("tracking state mismatch")
	}

	if err := os.WriteFile(other, []byte(`{"x":1}`), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(tracked, []byte(`{"x":1}`), 0o644); err != nil {
		t.Fatalf("write tracked: %v", err)
	}

	want, err := filepath.Abs(tracked)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-changes:
			if got != want {
				t.Fatalf("untracked file reported: %s", got)
			}
			return
		case <-deadline:
			t.Fatalf("timed out waiting for change notification")
		}
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := New(nil, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

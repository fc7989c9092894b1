package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shardmap.yaml")
	if err := os.WriteFile(path, []byte("shard_count: 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	changed := make(chan string, 16)
	w.OnChange(func(p string) { changed <- p })
	w.StartAsync()
	defer func() {
		w.Stop()
		w.Wait()
	}()

	// A sibling file in the same directory must not trigger callbacks.
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("shard_count: 2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case got := <-changed:
		if filepath.Base(got) != "shardmap.yaml" {
			t.Errorf("callback path = %q, want shardmap.yaml", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification within 5s")
	}
}

func startWatcher(t *testing.T, path string, opts ...WatcherOption) <-chan time.Time {
	t.Helper()
	w, err := NewWatcher(opts...)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	calls := make(chan time.Time, 64)
	w.OnChange(func(string) { calls <- time.Now() })
	w.StartAsync()
	t.Cleanup(func() {
		w.Stop()
		w.Wait()
	})
	return calls
}

func TestWatcher_CoalescesBurst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shardmap.yaml")
	if err := os.WriteFile(path, []byte("shard_count: 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	calls := startWatcher(t, path, WithDebounce(200*time.Millisecond), WithMinInterval(0))

	// Each WriteFile truncates then writes, so this burst is many events.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("shard_count: 2\n"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification within 5s")
	}
	select {
	case <-calls:
		t.Error("burst of writes produced more than one callback")
	case <-time.After(time.Second):
	}
}

func TestWatcher_PacesRounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shardmap.yaml")
	if err := os.WriteFile(path, []byte("shard_count: 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	const interval = 600 * time.Millisecond
	calls := startWatcher(t, path, WithDebounce(20*time.Millisecond), WithMinInterval(interval))

	write := func() {
		if err := os.WriteFile(path, []byte("shard_count: 2\n"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	recv := func() time.Time {
		select {
		case at := <-calls:
			return at
		case <-time.After(5 * time.Second):
			t.Fatal("no change notification within 5s")
			return time.Time{}
		}
	}

	write()
	first := recv()
	write()
	second := recv()

	// Allow for timer granularity.
	if gap := second.Sub(first); gap < interval-50*time.Millisecond {
		t.Errorf("callback rounds %v apart, want at least %v", gap, interval)
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.StartAsync()

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
	w.Wait()
}

func TestWatcher_WatchMissingDir(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch("/nonexistent/dir/shardmap.yaml"); err == nil {
		t.Error("Watch() should fail for a missing directory")
	}
}

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestSnapshotWatcher_TriggersOnWrite(t *testing.T) {
	tmpDir := t.TempDir()
	snapshotFile := filepath.Join(tmpDir, "snapshot.json")
	if err := os.WriteFile(snapshotFile, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to create snapshot: %v", err)
	}

	var mu sync.Mutex
	var calls []string

	watcher, err := NewSnapshotWatcher(snapshotFile, 50*time.Millisecond, nil, func(path string) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, path)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	// an unrelated file in the same directory is ignored
	if err := os.WriteFile(filepath.Join(tmpDir, "other.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to write other file: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(snapshotFile, []byte(`{"game_version": "1"}`), 0644); err != nil {
			t.Fatalf("Failed to modify snapshot: %v", err)
		}
	}

	time.Sleep(400 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if len(calls) != 1 {
		t.Fatalf("Expected 1 debounced call, got %d", len(calls))
	}
	abs, _ := filepath.Abs(snapshotFile)
	if calls[0] != abs {
		t.Errorf("Expected callback for %s, got %s", abs, calls[0])
	}
}

func TestSnapshotWatcher_Run(t *testing.T) {
	snapshotFile := filepath.Join(t.TempDir(), "snapshot.yaml")

	watcher, err := NewSnapshotWatcher(snapshotFile, 0, nil, func(string) error { return nil })
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := watcher.Run(ctx); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}
}

func TestSnapshotWatcher_IsSnapshot(t *testing.T) {
	dir := t.TempDir()
	watcher, err := NewSnapshotWatcher(filepath.Join(dir, "snapshot.json"), 0, nil, func(string) error { return nil })
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	tests := []struct {
		path     string
		expected bool
	}{
		{filepath.Join(dir, "snapshot.json"), true},
		{filepath.Join(dir, "snapshot.json.tmp"), false},
		{filepath.Join(dir, ".snapshot.json.swp"), false},
		{filepath.Join(dir, "other.json"), false},
	}

	for _, tt := range tests {
		if got := watcher.isSnapshot(tt.path); got != tt.expected {
			t.Errorf("isSnapshot(%q) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}

func TestDebouncer_Add(t *testing.T) {
	var mu sync.Mutex
	var called bool
	var files []string

	debouncer := NewDebouncer(50 * time.Millisecond)
	debouncer.SetCallback(func(f []string) {
		mu.Lock()
		defer mu.Unlock()
		called = true
		files = f
	})

	debouncer.Add("snapshot.json")
	debouncer.Add("snapshot.yaml")
	debouncer.Add("snapshot.json")

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if !called {
		t.Error("Expected callback to be called")
	}
	if len(files) != 2 {
		t.Errorf("Expected 2 unique files, got %d", len(files))
	}
}

func TestDebouncer_MultipleFlushes(t *testing.T) {
	var mu sync.Mutex
	var callCount int

	debouncer := NewDebouncer(30 * time.Millisecond)
	debouncer.SetCallback(func(f []string) {
		mu.Lock()
		defer mu.Unlock()
		callCount++
	})

	debouncer.Add("snapshot.json")
	time.Sleep(60 * time.Millisecond)

	debouncer.Add("snapshot.json")
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if callCount != 2 {
		t.Errorf("Expected 2 callback calls, got %d", callCount)
	}
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	var mu sync.Mutex
	var callCount int

	debouncer := NewDebouncer(30 * time.Millisecond)
	debouncer.SetCallback(func([]string) {
		mu.Lock()
		defer mu.Unlock()
		callCount++
	})

	debouncer.Add("snapshot.json")
	debouncer.Stop()
	debouncer.Add("snapshot.json")
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if callCount != 0 {
		t.Errorf("Expected no callback after Stop, got %d", callCount)
	}
}

func TestDebouncer_StopWaitsForRunningCallback(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished bool
	var mu sync.Mutex

	debouncer := NewDebouncer(10 * time.Millisecond)
	debouncer.SetCallback(func([]string) {
		close(started)
		<-release
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		finished = true
		mu.Unlock()
	})

	debouncer.Add("snapshot.json")
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("callback never started")
	}

	stopped := make(chan struct{})
	go func() {
		debouncer.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while the callback was still running")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the callback finished")
	}

	mu.Lock()
	defer mu.Unlock()
	if !finished {
		t.Error("Expected Stop to return only after the callback finished")
	}
}

func TestSnapshotWatcher_StopWaitsForExport(t *testing.T) {
	tmpDir := t.TempDir()
	snapshotFile := filepath.Join(tmpDir, "snapshot.json")
	if err := os.WriteFile(snapshotFile, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to create snapshot: %v", err)
	}

	started := make(chan struct{})
	var once sync.Once
	var mu sync.Mutex
	var done bool

	watcher, err := NewSnapshotWatcher(snapshotFile, 20*time.Millisecond, nil, func(string) error {
		once.Do(func() { close(started) })
		time.Sleep(100 * time.Millisecond)
		mu.Lock()
		done = true
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	if err := os.WriteFile(snapshotFile, []byte(`{"items": []}`), 0644); err != nil {
		t.Fatalf("Failed to rewrite snapshot: %v", err)
	}

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("export never started")
	}

	if err := watcher.Stop(); err != nil {
		t.Errorf("Stop() returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !done {
		t.Error("Expected Stop to wait for the running export")
	}
}

func TestSnapshotWatcher_Stop(t *testing.T) {
	watcher, err := NewSnapshotWatcher(filepath.Join(t.TempDir(), "snapshot.json"), 0, nil, func(string) error { return nil })
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}

	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("Stop() returned error: %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("second Stop() returned error: %v", err)
	}
}

func BenchmarkDebouncer_Add(b *testing.B) {
	debouncer := NewDebouncer(100 * time.Millisecond)
	debouncer.SetCallback(func(files []string) {})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		debouncer.Add("snapshot.json")
	}
}

package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

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

type calls struct {
	mu       sync.Mutex
	contents []string
}

func (c *calls) record(_ context.Context, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contents = append(c.contents, content)
	return nil
}

func (c *calls) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.contents...)
}

func startWatch(t *testing.T, path string, fn Func) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, 50*time.Millisecond, quietLogger(), fn) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Watch returned %v", err)
		}
	})
}

func TestWatch_InitialRunAndChange(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.md")
	if err := os.WriteFile(input, []byte("# One"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &calls{}
	startWatch(t, input, c.record)

	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool {
		return len(c.snapshot()) == 1
	}, "initial run did not happen")

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(input, []byte("# Two"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		got := c.snapshot()
		return len(got) == 2 && got[1] == "# Two"
	}, "change did not trigger a regeneration")
}

func TestWatch_UnchangedContentSkipped(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(input, []byte("same"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &calls{}
	startWatch(t, input, c.record)
	time.Sleep(100 * time.Millisecond)

	// Touch with identical bytes.
	if err := os.WriteFile(input, []byte("same"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)

	if got := len(c.snapshot()); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestWatch_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.json")
	if err := os.WriteFile(input, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &calls{}
	startWatch(t, input, c.record)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(dir, "other.json"), []byte(`[]`), 0o644)
	time.Sleep(400 * time.Millisecond)

	if got := len(c.snapshot()); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestWatch_HandlerErrorKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.md")
	if err := os.WriteFile(input, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	n := 0
	startWatch(t, input, func(context.Context, string) error {
		mu.Lock()
		defer mu.Unlock()
		n++
		return errors.New("boom")
	})
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(input, []byte("b"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return n == 2
	}, "handler not called again after an error")
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope.md"), 0, quietLogger(), func(context.Context, string) error {
		return nil
	})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

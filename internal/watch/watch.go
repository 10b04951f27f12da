// Package watch regenerates output whenever an input file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tftdatascientist/drdoc/internal/checksum"
)

// DefaultDebounce coalesces bursts of writes from editors.
const DefaultDebounce = 200 * time.Millisecond

// Func is called with the new file content. Errors are logged and the
// watch continues.
type Func func(ctx context.Context, content string) error

// Watch runs fn once for the current content of path and again after each
// change, until ctx is cancelled. Changes are debounced and skipped when
// the content checksum is unchanged.
//
// The parent directory is watched rather than the file itself, so
// editors that save by rename-and-replace keep being tracked.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, fn Func) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watcher: started", slog.String("path", abs))

	var last string
	run := func() {
		data, err := os.ReadFile(abs)
		if err != nil {
			logger.Warn("watcher: read failed", slog.String("path", abs), slog.String("error", err.Error()))
			return
		}
		sum := checksum.Sum(data)
		if sum == last {
			logger.Debug("watcher: unchanged", slog.String("path", abs))
			return
		}
		last = sum
		if err := fn(ctx, string(data)); err != nil {
			logger.Error("watcher: regenerate failed", slog.String("path", abs), slog.String("error", err.Error()))
			return
		}
		logger.Debug("watcher: regenerated", slog.String("path", abs), slog.String("checksum", sum))
	}

	run()

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			run()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				schedule()
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// A replacement arrives as a later Create.
				logger.Debug("watcher: input moved away", slog.String("path", abs))
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// Package watch re-runs a conversion whenever source files or the
// configuration file change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures a Watcher.
type Options struct {
	SourcePath string        // Directory watched recursively
	TargetPath string        // Excluded so generated files never retrigger a run
	Extension  string        // Source file extension without the dot
	ConfigFile string        // Optional config file whose edits also trigger a run
	Debounce   time.Duration // Quiet period before a run starts
}

// Watcher turns bursts of file system events into single runs.
type Watcher struct {
	opts    Options
	logger  *slog.Logger
	watcher *fsnotify.Watcher
}

// New creates a Watcher. Paths in opts must be absolute.
func New(opts Options, loggerHandler slog.Handler) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		opts:    opts,
		logger:  slog.New(loggerHandler).With(slog.String("component", "watch")),
		watcher: fw,
	}
	if err := w.addTree(opts.SourcePath); err != nil {
		fw.Close()
		return nil, err
	}
	if opts.ConfigFile != "" {
		// Editors replace files on save, so the directory is watched rather
		// than the file itself.
		if err := fw.Add(filepath.Dir(opts.ConfigFile)); err != nil {
			w.logger.Warn("Cannot watch config file directory", slog.String("path", opts.ConfigFile), slog.String("error", err.Error()))
		}
	}
	return w, nil
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run blocks until ctx is done, calling trigger after every debounced burst
// of relevant changes. Runs never overlap. A trigger error is logged and
// watching continues.
func (w *Watcher) Run(ctx context.Context, trigger func(ctx context.Context) error) error {
	w.logger.Info("Watching for changes", slog.String("path", w.opts.SourcePath), slog.Duration("debounce", w.opts.Debounce))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("fsnotify event channel closed")
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.isTarget(event.Name) {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("Cannot watch new directory", slog.String("path", event.Name), slog.String("error", err.Error()))
					}
				}
			}
			if !w.Relevant(event) {
				continue
			}
			w.logger.Debug("Change detected", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			timer.Reset(w.opts.Debounce)
			pending = true

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("fsnotify error channel closed")
			}
			w.logger.Warn("Watcher error", slog.String("error", err.Error()))

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := trigger(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("Conversion run failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Relevant reports whether event should schedule a run.
func (w *Watcher) Relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod || w.isTarget(event.Name) {
		return false
	}
	if w.opts.ConfigFile != "" && filepath.Clean(event.Name) == filepath.Clean(w.opts.ConfigFile) {
		return true
	}
	if !isWithin(w.opts.SourcePath, event.Name) {
		return false
	}
	ext := strings.TrimPrefix(filepath.Ext(event.Name), ".")
	return strings.EqualFold(ext, w.opts.Extension)
}

func (w *Watcher) isTarget(path string) bool {
	return w.opts.TargetPath != "" && isWithin(w.opts.TargetPath, path)
}

// addTree watches dir and every directory below it except the target.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("cannot watch %q: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.isTarget(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("cannot watch %q: %w", path, err)
		}
		return nil
	})
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

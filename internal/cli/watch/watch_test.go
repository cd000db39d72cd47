package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, debounce time.Duration) (*Watcher, Options) {
	t.Helper()
	root := t.TempDir()
	opts := Options{
		SourcePath: filepath.Join(root, "src"),
		TargetPath: filepath.Join(root, "src", "out"),
		Extension:  "cs",
		ConfigFile: filepath.Join(root, "enum-converter.yaml"),
		Debounce:   debounce,
	}
	require.NoError(t, os.MkdirAll(opts.TargetPath, 0o755))
	w, err := New(opts, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w, opts
}

func TestRelevant(t *testing.T) {
	w, opts := newTestWatcher(t, time.Millisecond)

	testCases := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"source write", fsnotify.Event{Name: filepath.Join(opts.SourcePath, "Color.cs"), Op: fsnotify.Write}, true},
		{"upper case extension", fsnotify.Event{Name: filepath.Join(opts.SourcePath, "a", "Color.CS"), Op: fsnotify.Create}, true},
		{"source removed", fsnotify.Event{Name: filepath.Join(opts.SourcePath, "Color.cs"), Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: filepath.Join(opts.SourcePath, "Color.cs"), Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: filepath.Join(opts.SourcePath, "notes.txt"), Op: fsnotify.Write}, false},
		{"generated output", fsnotify.Event{Name: filepath.Join(opts.TargetPath, "Color.cs"), Op: fsnotify.Write}, false},
		{"config file", fsnotify.Event{Name: opts.ConfigFile, Op: fsnotify.Write}, true},
		{"sibling of config file", fsnotify.Event{Name: filepath.Join(filepath.Dir(opts.ConfigFile), "x.cs"), Op: fsnotify.Write}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, w.Relevant(tc.event))
		})
	}
}

func TestRun_DebouncesBurstIntoOneRun(t *testing.T) {
	w, opts := newTestWatcher(t, 200*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	for _, name := range []string{"A.cs", "B.cs", "C.cs"} {
		require.NoError(t, os.WriteFile(filepath.Join(opts.SourcePath, name), []byte("enum A { B }"), 0o644))
	}

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRun_IgnoresTargetAndOtherFiles(t *testing.T) {
	w, opts := newTestWatcher(t, 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	go func() {
		_ = w.Run(ctx, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	require.NoError(t, os.WriteFile(filepath.Join(opts.TargetPath, "Gen.cs"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(opts.SourcePath, "readme.md"), []byte("x"), 0o644))

	time.Sleep(400 * time.Millisecond)
	assert.Zero(t, runs.Load())
}

func TestRun_WatchesNewDirectories(t *testing.T) {
	w, opts := newTestWatcher(t, 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	go func() {
		_ = w.Run(ctx, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	nested := filepath.Join(opts.SourcePath, "nested")
	require.NoError(t, os.Mkdir(nested, 0o755))
	// Give the watcher time to register the new directory.
	time.Sleep(150 * time.Millisecond)
	startRuns := runs.Load()
	require.NoError(t, os.WriteFile(filepath.Join(nested, "Deep.cs"), []byte("enum D { E }"), 0o644))

	assert.Eventually(t, func() bool { return runs.Load() > startRuns }, 3*time.Second, 20*time.Millisecond)
}

func TestNew_MissingSource(t *testing.T) {
	_, err := New(Options{SourcePath: filepath.Join(t.TempDir(), "missing"), Extension: "cs"}, slog.NewTextHandler(os.Stderr, nil))
	assert.Error(t, err)
}

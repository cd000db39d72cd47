// Package hooks bridges converter run events to the CLI log.
package hooks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/stackvity/enum-converter/pkg/converter"
)

// CLIHooks implements converter.Hooks by logging run events. Per-file
// events are only logged when verbose; failures are always logged.
type CLIHooks struct {
	logger         *slog.Logger
	verboseEnabled bool

	mu     sync.Mutex
	counts map[converter.Status]int
}

// NewCLIHooks creates a new CLIHooks instance.
func NewCLIHooks(logger *slog.Logger, verboseEnabled bool) *CLIHooks {
	return &CLIHooks{
		logger:         logger.With(slog.String("component", "hooks")),
		verboseEnabled: verboseEnabled,
		counts:         make(map[converter.Status]int),
	}
}

var _ converter.Hooks = (*CLIHooks)(nil)

// OnFileDiscovered implements converter.Hooks.
func (h *CLIHooks) OnFileDiscovered(path string) error {
	if h.verboseEnabled {
		h.logger.Debug("File discovered", slog.String("path", path))
	}
	return nil
}

// OnFileStatusUpdate implements converter.Hooks. It is safe for concurrent use.
func (h *CLIHooks) OnFileStatusUpdate(path string, status converter.Status, message string, duration time.Duration) error {
	if status != converter.StatusProcessing {
		h.mu.Lock()
		h.counts[status]++
		h.mu.Unlock()
	}

	if status == converter.StatusFailed {
		h.logger.Error("File processing failed", slog.String("path", path), slog.String("error", message))
		return nil
	}
	if !h.verboseEnabled {
		return nil
	}

	logLevel := slog.LevelDebug
	attrs := []slog.Attr{
		slog.String("path", path),
		slog.String("status", string(status)),
	}
	if duration > 0 {
		attrs = append(attrs, slog.Duration("duration", duration))
	}
	if message != "" {
		attrs = append(attrs, slog.String("message", message))
	}
	if status == converter.StatusSuccess || status == converter.StatusSkipped {
		logLevel = slog.LevelInfo
	}
	h.logger.LogAttrs(context.Background(), logLevel, "File status updated", attrs...)
	return nil
}

// OnRunComplete implements converter.Hooks.
func (h *CLIHooks) OnRunComplete(report converter.Report) error {
	h.logger.Debug("Run complete",
		slog.Int("scanned", report.Summary.TotalFilesScanned),
		slog.Int("succeeded", h.Count(converter.StatusSuccess)),
		slog.Int("skipped", h.Count(converter.StatusSkipped)),
		slog.Int("failed", h.Count(converter.StatusFailed)),
		slog.Float64("seconds", report.Summary.DurationSeconds))
	return nil
}

// Count returns how many files reached status since the hooks were created
// or last Reset.
func (h *CLIHooks) Count(status converter.Status) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[status]
}

// Reset clears the counters; watch mode calls it before every run.
func (h *CLIHooks) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.counts)
}

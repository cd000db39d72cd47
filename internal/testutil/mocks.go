// Package testutil provides testify mocks for the interfaces of the
// enum-converter library plus small filesystem helpers for tests.
package testutil

import (
	"sync"
	"time"

	"github.com/stackvity/enum-converter/pkg/converter"
	"github.com/stackvity/enum-converter/pkg/converter/language"
	"github.com/stretchr/testify/mock"
)

// MockHooks provides a mock implementation of converter.Hooks.
type MockHooks struct {
	mock.Mock
}

// OnFileDiscovered mocks the OnFileDiscovered method.
func (m *MockHooks) OnFileDiscovered(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// OnFileStatusUpdate mocks the OnFileStatusUpdate method.
func (m *MockHooks) OnFileStatusUpdate(path string, status converter.Status, message string, duration time.Duration) error {
	args := m.Called(path, status, message, duration)
	return args.Error(0)
}

// OnRunComplete mocks the OnRunComplete method.
func (m *MockHooks) OnRunComplete(report converter.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

// MockGitClient provides a mock implementation of converter.GitClient.
type MockGitClient struct {
	mock.Mock
}

// ChangedFiles mocks the ChangedFiles method.
func (m *MockGitClient) ChangedFiles(path string) ([]string, error) {
	args := m.Called(path)
	files, _ := args.Get(0).([]string)
	return files, args.Error(1)
}

// MockLanguageDetector provides a mock implementation of language.Detector.
type MockLanguageDetector struct {
	mock.Mock
}

// Detect mocks the Detect method.
func (m *MockLanguageDetector) Detect(filePath string, content []byte) string {
	args := m.Called(filePath, content)
	return args.String(0)
}

// Matches mocks the Matches method.
func (m *MockLanguageDetector) Matches(cfg language.Configuration, filePath string, content []byte) bool {
	args := m.Called(cfg, filePath, content)
	return args.Bool(0)
}

// RecordingHooks is a hand-written converter.Hooks that records every call.
// It is safe for concurrent use.
type RecordingHooks struct {
	mu         sync.Mutex
	Discovered []string
	Statuses   map[string][]converter.Status
	Reports    []converter.Report
}

// NewRecordingHooks returns an empty RecordingHooks.
func NewRecordingHooks() *RecordingHooks {
	return &RecordingHooks{Statuses: make(map[string][]converter.Status)}
}

// OnFileDiscovered implements converter.Hooks.
func (h *RecordingHooks) OnFileDiscovered(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Discovered = append(h.Discovered, path)
	return nil
}

// OnFileStatusUpdate implements converter.Hooks.
func (h *RecordingHooks) OnFileStatusUpdate(path string, status converter.Status, _ string, _ time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Statuses[path] = append(h.Statuses[path], status)
	return nil
}

// OnRunComplete implements converter.Hooks.
func (h *RecordingHooks) OnRunComplete(report converter.Report) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Reports = append(h.Reports, report)
	return nil
}

// FinalStatus returns the last status recorded for path.
func (h *RecordingHooks) FinalStatus(path string) converter.Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	statuses := h.Statuses[path]
	if len(statuses) == 0 {
		return ""
	}
	return statuses[len(statuses)-1]
}

var (
	_ converter.Hooks     = (*MockHooks)(nil)
	_ converter.Hooks     = (*RecordingHooks)(nil)
	_ converter.GitClient = (*MockGitClient)(nil)
	_ language.Detector   = (*MockLanguageDetector)(nil)
)

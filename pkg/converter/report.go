package converter

import (
	"time"

	"github.com/stackvity/enum-converter/pkg/converter/tracker"
)

// Report summarizes the result of a single conversion run.
type Report struct {
	Summary      ReportSummary            `json:"summary"`
	Generation   tracker.GenerationReport `json:"generation"`
	SkippedFiles []SkippedInfo            `json:"skippedFiles"`
	Errors       []ErrorInfo              `json:"errors"`
}

// ReportSummary contains aggregated statistics for a run.
type ReportSummary struct {
	SourcePath        string    `json:"sourcePath"`
	TargetPath        string    `json:"targetPath"`
	SourceLanguage    string    `json:"sourceLanguage"`
	TargetLanguage    string    `json:"targetLanguage"`
	ConfigFilePath    string    `json:"configFilePath,omitempty"`
	TotalFilesScanned int       `json:"totalFilesScanned"`
	ProcessedCount    int       `json:"processedCount"`
	EnumCount         int       `json:"enumCount"`
	SkippedCount      int       `json:"skippedCount"`
	ErrorCount        int       `json:"errorCount"`
	DurationSeconds   float64   `json:"durationSeconds"`
	Concurrency       int       `json:"concurrency"`
	Timestamp         time.Time `json:"timestamp"`
	SchemaVersion     string    `json:"schemaVersion"`
}

// SkippedInfo details a discovered file that was intentionally not converted.
type SkippedInfo struct {
	Path    string `json:"path"`
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

// ErrorInfo details a non-fatal error encountered while handling a specific file.
type ErrorInfo struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// HasProblems reports whether the run recorded anything a user should act on:
// per-file errors, write failures, invalid or unsupported enums.
func (r Report) HasProblems() bool {
	g := r.Generation
	return len(r.Errors) > 0 || len(g.GenerationFailedFiles) > 0 || len(g.InvalidEnums) > 0 || len(g.UnsupportedEnums) > 0
}

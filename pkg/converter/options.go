package converter

import (
	"log/slog"
	"time"

	"github.com/stackvity/enum-converter/pkg/converter/encoding"
	"github.com/stackvity/enum-converter/pkg/converter/generator"
	"github.com/stackvity/enum-converter/pkg/converter/language"
)

// Hooks defines callbacks for status updates during a conversion run.
// Implementations MUST be thread-safe as methods may be called concurrently.
type Hooks interface {
	OnFileDiscovered(path string) error
	OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error
	OnRunComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnFileDiscovered implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileDiscovered(path string) error { return nil }

// OnFileStatusUpdate implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error {
	return nil
}

// OnRunComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// GitClient lists the files of a working tree that differ from HEAD.
type GitClient interface {
	// ChangedFiles returns absolute paths of modified, added and untracked
	// files in the repository containing path.
	ChangedFiles(path string) ([]string, error)
}

// Options holds all configuration for a conversion run.
type Options struct {
	// --- Core Paths & Languages ---
	SourcePath     string `mapstructure:"-"` // Required: directory scanned for source files
	TargetPath     string `mapstructure:"-"` // Required: directory receiving generated files
	SourceLanguage string `mapstructure:"-"` // Required: registry identifier or alias
	TargetLanguage string `mapstructure:"-"` // Required: registry identifier or alias

	// --- Behavior & Control ---
	SeparateFileForEachType bool                    `mapstructure:"separateFileForEachType"` // One file per enum instead of one per source file
	FeatureToggle           generator.FeatureToggle `mapstructure:"-"`                       // Experimental fallback switch, read at call time
	Concurrency             int                     `mapstructure:"concurrency"`             // Number of workers (0=auto)
	ConfigFilePath          string                  `mapstructure:"-"`                       // Path to the loaded config file (for reporting)

	// --- File Handling & Filtering ---
	IgnorePatterns  []string `mapstructure:"ignore"`          // Gitignore-style patterns (aggregated with .enumconverterignore)
	ChangedOnly     bool     `mapstructure:"changedOnly"`     // Only convert files Git reports as changed
	DefaultEncoding string   `mapstructure:"defaultEncoding"` // Fallback when detection is uncertain

	// --- Output & Formatting ---
	OutputFormat OutputFormat `mapstructure:"outputFormat"` // ("text", "json") for final report

	// --- Injected Dependencies ---
	EventHooks       Hooks             `mapstructure:"-"` // Optional: defaults to NoOpHooks
	Logger           slog.Handler      `mapstructure:"-"` // Required: logging backend
	GitClient        GitClient         `mapstructure:"-"` // Required when ChangedOnly is set
	LanguageDetector language.Detector `mapstructure:"-"` // Optional: defaults to go-enry
	EncodingHandler  encoding.Handler  `mapstructure:"-"` // Optional: defaults to charset handler
}

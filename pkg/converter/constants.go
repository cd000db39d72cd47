package converter

import "time"

// Constants defining default values for the configuration options.
// These are used when setting up Viper defaults in the configuration loading process.
const (
	// DefaultSeparateFileForEachType writes one file per enum.
	DefaultSeparateFileForEachType = true
	// DefaultExperimentalEnumGeneration keeps the experimental fallback off.
	DefaultExperimentalEnumGeneration = false
	// DefaultConcurrency determines the default number of workers. 0 means runtime.NumCPU().
	DefaultConcurrency = 0
	// DefaultChangedOnly converts every discovered file, not just Git changes.
	DefaultChangedOnly = false
	// DefaultOutputFormat is the default format for the final summary report.
	DefaultOutputFormat = OutputFormatText
	// DefaultWatchDebounceString is the default debounce duration string for watch mode.
	DefaultWatchDebounceString = "300ms"
	// DefaultWatchDebounceDuration is the parsed default debounce duration.
	DefaultWatchDebounceDuration = 300 * time.Millisecond
	// DefaultVerbose is the default state for verbose logging.
	DefaultVerbose = false
)

// IgnoreFileName is the gitignore-style file looked up from the source
// directory upwards.
const IgnoreFileName = ".enumconverterignore"

// ReportSchemaVersion indicates the version of the JSON report structure.
const ReportSchemaVersion = "1.0"

// Constants defining skip reasons used in the Report.
const (
	SkipReasonIgnored    = "ignored_pattern"
	SkipReasonGitExclude = "excluded_by_git"
	SkipReasonBinary     = "binary_file"
	SkipReasonLanguage   = "language_mismatch"
)

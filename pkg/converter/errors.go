package converter

import "errors"

// --- Exported Error Variables ---
// Fatal errors are returned by NewEngine or Convert before any file is read.
// Per-file errors end up in Report.Errors and never stop a run. Library users
// can check against all of them with errors.Is.

var (
	// ErrConfigValidation indicates that the provided Options failed validation.
	// Every fatal validation error below also matches ErrConfigValidation.
	ErrConfigValidation = errors.New("invalid configuration options provided")

	// ErrSourceLanguageRequired indicates an empty source language.
	ErrSourceLanguageRequired = errors.New("source language is required")

	// ErrTargetLanguageRequired indicates an empty target language.
	ErrTargetLanguageRequired = errors.New("target language is required")

	// ErrUnsupportedSourceLanguage indicates a source language missing from the registry.
	ErrUnsupportedSourceLanguage = errors.New("unsupported source language")

	// ErrUnsupportedTargetLanguage indicates a target language missing from the registry.
	ErrUnsupportedTargetLanguage = errors.New("unsupported target language")

	// ErrSameSourceAndTargetLanguage indicates a conversion from a language to itself.
	ErrSameSourceAndTargetLanguage = errors.New("source and target language must differ")

	// ErrInvalidSourceDirectory indicates a source path that is missing or not a directory.
	ErrInvalidSourceDirectory = errors.New("invalid source directory")

	// ErrSameSourceAndTargetDirectory indicates that generated files would be
	// written into the directory being read.
	ErrSameSourceAndTargetDirectory = errors.New("source and target directory must differ")

	// ErrReadFailed indicates a failure to read a source file.
	// Recorded in Report.Errors; the run continues.
	ErrReadFailed = errors.New("failed to read file")

	// ErrDecodeFailed indicates a source file whose bytes could not be decoded to UTF-8.
	// Recorded in Report.Errors; the run continues.
	ErrDecodeFailed = errors.New("failed to decode file")

	// ErrConvertFailed indicates a template failure while rendering the enums of one file.
	// Recorded in Report.Errors; the run continues.
	ErrConvertFailed = errors.New("failed to convert enums")

	// ErrWriteFailed indicates a failure to write a generated file. The file
	// name is also recorded in the generation report's failed list.
	ErrWriteFailed = errors.New("failed to write output file")

	// ErrGitOperation indicates a failure while querying Git for changed files.
	// Fatal when ChangedOnly is requested, since the file set cannot be determined.
	ErrGitOperation = errors.New("git operation failed")
)

package language

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Detector decides whether a candidate source file really is written in the
// configured source language.
//
// Extension matching alone is not enough: ".ts" is shared by TypeScript and
// Qt translation files, and generated or vendored files may carry misleading
// extensions. Implementations MUST be safe for concurrent use.
type Detector interface {
	// Detect returns the detected language name (Linguist spelling, e.g. "C#")
	// or "" when nothing conclusive was found.
	Detect(filePath string, content []byte) string

	// Matches reports whether the file should be parsed with cfg.
	Matches(cfg Configuration, filePath string, content []byte) bool
}

// enryDetector implements Detector with go-enry.
type enryDetector struct{}

// NewEnryDetector returns the default go-enry backed Detector.
func NewEnryDetector() Detector {
	return enryDetector{}
}

// Detect implements Detector.
func (enryDetector) Detect(filePath string, content []byte) string {
	filename := filepath.Base(filePath)
	if len(content) == 0 {
		lang, _ := enry.GetLanguageByExtension(filename)
		return lang
	}
	lang := enry.GetLanguage(filename, content)
	if lang == "Text" {
		return ""
	}
	return lang
}

// Matches implements Detector.
// Files with the configured extension are accepted unless go-enry classifies
// the content as a non-programming language (a ".ts" Qt translation file is
// XML). Small snippets are often ambiguous between programming languages
// sharing an extension, so those guesses are not trusted. Vendored files are
// always rejected.
func (d enryDetector) Matches(cfg Configuration, filePath string, content []byte) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	if ext != strings.ToLower(cfg.FileExtension) {
		return false
	}
	if enry.IsVendor(filepath.ToSlash(filePath)) {
		return false
	}
	detected := d.Detect(filePath, content)
	if detected == "" || strings.EqualFold(detected, cfg.LinguistName) {
		return true
	}
	return enry.GetLanguageType(detected) == enry.Programming
}

// ExtensionDetector accepts every file carrying the configured extension.
// Useful when content sniffing is undesirable, e.g. in tests.
type ExtensionDetector struct{}

// Detect implements Detector.
func (ExtensionDetector) Detect(filePath string, _ []byte) string {
	lang, _ := enry.GetLanguageByExtension(filepath.Base(filePath))
	return lang
}

// Matches implements Detector.
func (ExtensionDetector) Matches(cfg Configuration, filePath string, _ []byte) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	return ext == strings.ToLower(cfg.FileExtension)
}

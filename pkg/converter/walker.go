package converter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/stackvity/enum-converter/pkg/util"
)

// Walker traverses the source directory and selects the files carrying the
// source language's extension, applying ignore rules and the optional Git
// changed-files filter.
type Walker struct {
	opts          *Options
	hooks         Hooks
	logger        *slog.Logger
	ignoreMatcher *ignoreMatcher
	extension     string
	targetAbsPath string
	// changed holds absolute paths; nil disables the filter.
	changed map[string]struct{}
}

// NewWalker creates a new Walker instance. opts.SourcePath and opts.TargetPath
// must already be absolute.
func NewWalker(opts *Options, extension string, changed map[string]struct{}, loggerHandler slog.Handler) (*Walker, error) {
	logger := slog.New(loggerHandler).With(slog.String("component", "walker"))
	matcher, err := newIgnoreMatcher(opts.SourcePath, opts.IgnorePatterns, logger)
	if err != nil {
		logger.Error("Failed to initialize ignore pattern matcher", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to initialize ignore patterns: %w", err)
	}
	logger.Debug("Ignore patterns loaded", slog.Int("count", matcher.patternCount()))

	hooks := opts.EventHooks
	if hooks == nil {
		hooks = &NoOpHooks{}
	}
	return &Walker{
		opts:          opts,
		hooks:         hooks,
		logger:        logger,
		ignoreMatcher: matcher,
		extension:     "." + strings.ToLower(extension),
		targetAbsPath: opts.TargetPath,
		changed:       changed,
	}, nil
}

// Discover walks the source directory and returns the absolute paths of the
// candidate files in lexical order, along with the files it skipped.
func (w *Walker) Discover(ctx context.Context) ([]string, []SkippedInfo, error) {
	w.logger.Info("Starting directory walk", slog.String("path", w.opts.SourcePath))
	var (
		candidates []string
		skipped    []SkippedInfo
	)

	walkErr := filepath.WalkDir(w.opts.SourcePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("Error accessing path during walk", slog.String("path", path), slog.String("error", err.Error()))
			if path == w.opts.SourcePath {
				return fmt.Errorf("cannot read source directory %q: %w", path, err)
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.Type()&fs.ModeSymlink != 0 {
			w.logger.Debug("Skipping symbolic link", slog.String("path", path))
			return nil
		}

		relativePath, err := filepath.Rel(w.opts.SourcePath, path)
		if err != nil {
			w.logger.Warn("Could not calculate relative path", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}
		relativePath = filepath.ToSlash(relativePath)
		if relativePath == "." {
			return nil
		}

		isDir := d.IsDir()
		if isDir && path == w.targetAbsPath {
			w.logger.Debug("Skipping target directory inside source", slog.String("path", relativePath))
			return filepath.SkipDir
		}
		if !isDir && strings.ToLower(filepath.Ext(path)) != w.extension {
			return nil
		}
		if !isDir {
			if hookErr := w.hooks.OnFileDiscovered(relativePath); hookErr != nil {
				w.logger.Warn("Event hook OnFileDiscovered failed", slog.String("path", relativePath), slog.String("error", hookErr.Error()))
			}
		}

		if w.ignoreMatcher.Match(relativePath, isDir) {
			matchedPattern := w.ignoreMatcher.LastMatchPattern(relativePath, isDir)
			w.logger.Debug("Path ignored", slog.String("path", relativePath), slog.Bool("isDir", isDir), slog.String("pattern", matchedPattern))
			if isDir {
				return filepath.SkipDir
			}
			skipped = append(skipped, w.skip(relativePath, SkipReasonIgnored, "Matched pattern: "+matchedPattern))
			return nil
		}
		if isDir {
			return nil
		}

		if w.changed != nil {
			if _, found := w.changed[path]; !found {
				w.logger.Debug("Path unchanged in Git, skipping", slog.String("path", relativePath))
				skipped = append(skipped, w.skip(relativePath, SkipReasonGitExclude, "Unchanged since HEAD"))
				return nil
			}
		}

		candidates = append(candidates, path)
		return nil
	})

	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			w.logger.Info("Directory walk cancelled", slog.String("reason", walkErr.Error()))
			return nil, nil, walkErr
		}
		w.logger.Error("Directory walk failed", slog.String("error", walkErr.Error()))
		return nil, nil, fmt.Errorf("directory walk failed: %w", walkErr)
	}
	w.logger.Info("Directory walk completed", slog.Int("candidates", len(candidates)), slog.Int("skipped", len(skipped)))
	return candidates, skipped, nil
}

func (w *Walker) skip(relativePath, reason, details string) SkippedInfo {
	if hookErr := w.hooks.OnFileStatusUpdate(relativePath, StatusSkipped, details, 0); hookErr != nil {
		w.logger.Warn("Event hook OnFileStatusUpdate (skipped) failed", slog.String("path", relativePath), slog.String("error", hookErr.Error()))
	}
	return SkippedInfo{Path: relativePath, Reason: reason, Details: details}
}

// --- ignoreMatcher ---

type ignoreMatcher struct {
	patterns []ignorePattern
	basePath string // Absolute path to the source directory
	logger   *slog.Logger
}

type ignorePattern struct {
	pattern     string // Cleaned pattern string for matching (using '/' separators)
	origPattern string // Original pattern string for reporting
	negated     bool
	isDirOnly   bool
	isRooted    bool   // Pattern started with '/' relative to its base
	baseAbsPath string // Absolute path of the dir containing the defining ignore file or the source path
}

// newIgnoreMatcher loads patterns from the nearest ignore file and from configuration.
func newIgnoreMatcher(sourcePath string, configPatterns []string, logger *slog.Logger) (*ignoreMatcher, error) {
	absSourcePath, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute path for source: %w", err)
	}
	matcher := &ignoreMatcher{
		basePath: absSourcePath,
		logger:   logger.With(slog.String("component", "ignoreMatcher")),
	}

	ignoreFilePath, err := findIgnoreFile(absSourcePath)
	if err != nil {
		matcher.logger.Warn("Error searching for ignore file", slog.String("name", IgnoreFileName), slog.String("error", err.Error()))
	}
	if ignoreFilePath != "" {
		filePatterns, err := loadPatternsFromFile(ignoreFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load ignore file %s: %w", ignoreFilePath, err)
		}
		matcher.addPatterns(filePatterns, filepath.Dir(ignoreFilePath))
		matcher.logger.Debug("Loaded patterns from ignore file", slog.String("path", ignoreFilePath), slog.Int("count", len(filePatterns)))
	}

	// Patterns from config/flags are relative to the source path.
	matcher.addPatterns(configPatterns, absSourcePath)
	return matcher, nil
}

// findIgnoreFile walks up from absStartPath looking for IgnoreFileName.
func findIgnoreFile(absStartPath string) (string, error) {
	currentPath := absStartPath
	for {
		potentialPath := filepath.Join(currentPath, IgnoreFileName)
		if _, err := os.Stat(potentialPath); err == nil {
			return potentialPath, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("error checking for ignore file at %s: %w", potentialPath, err)
		}
		parent := filepath.Dir(currentPath)
		if parent == currentPath || parent == "" {
			return "", nil
		}
		currentPath = parent
	}
}

// loadPatternsFromFile reads an ignore file, dropping blanks and comments.
func loadPatternsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open ignore file %s: %w", filePath, err)
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore file %s: %w", filePath, err)
	}
	return patterns, nil
}

func (m *ignoreMatcher) addPatterns(rawPatterns []string, baseAbsPath string) {
	for _, rawPattern := range rawPatterns {
		p := ignorePattern{origPattern: rawPattern, baseAbsPath: baseAbsPath}
		trimmed := strings.TrimSpace(rawPattern)
		if strings.HasPrefix(trimmed, "!") {
			p.negated = true
			trimmed = strings.TrimSpace(trimmed[1:])
		}
		if strings.HasPrefix(trimmed, "/") {
			p.isRooted = true
			trimmed = strings.TrimPrefix(trimmed, "/")
		}
		if strings.HasSuffix(trimmed, "/") {
			p.isDirOnly = true
			trimmed = strings.TrimSuffix(trimmed, "/")
		}
		p.pattern = filepath.ToSlash(trimmed)
		if p.pattern == "" {
			continue
		}
		m.patterns = append(m.patterns, p)
	}
}

// Match reports whether relativePath is ignored. The last matching pattern
// wins, so later negations re-include earlier exclusions.
func (m *ignoreMatcher) Match(relativePath string, isDir bool) bool {
	ignored, _ := m.evaluate(relativePath, isDir)
	return ignored
}

// LastMatchPattern returns the pattern that caused relativePath to be ignored.
func (m *ignoreMatcher) LastMatchPattern(relativePath string, isDir bool) string {
	ignored, pattern := m.evaluate(relativePath, isDir)
	if !ignored {
		return ""
	}
	return pattern
}

func (m *ignoreMatcher) evaluate(relativePath string, isDir bool) (bool, string) {
	ignored, lastPattern := false, ""
	for _, p := range m.patterns {
		if p.isDirOnly && !isDir {
			continue
		}
		if util.MatchesGitignore(p.pattern, p.baseAbsPath, m.basePath, relativePath, p.isRooted) {
			ignored = !p.negated
			lastPattern = p.origPattern
		}
	}
	return ignored, lastPattern
}

func (m *ignoreMatcher) patternCount() int {
	return len(m.patterns)
}

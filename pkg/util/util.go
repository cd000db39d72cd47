// Package util holds path helpers shared by the converter and the CLI.
package util

import (
	"path"
	"path/filepath"
	"strings"
)

// MatchesGitignore reports whether relPath (relative to walkBase) matches a
// gitignore-style pattern defined in patternBase. Patterns containing a
// slash, or rooted ones, are anchored to patternBase; others match any
// trailing run of path segments. A "**" segment matches zero or more
// directories.
func MatchesGitignore(pattern, patternBase, walkBase, relPath string, isRooted bool) bool {
	pattern = filepath.ToSlash(pattern)
	relPath = filepath.ToSlash(relPath)
	if pattern == "" || relPath == "" || relPath == "." {
		return false
	}

	fromBase, err := filepath.Rel(patternBase, filepath.Join(walkBase, filepath.FromSlash(relPath)))
	if err != nil {
		return false
	}
	fromBase = filepath.ToSlash(fromBase)
	if strings.HasPrefix(fromBase, "../") {
		return false
	}

	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(fromBase, "/")
	if isRooted || strings.Contains(pattern, "/") {
		return matchSegments(patternParts, pathParts)
	}
	for i := range pathParts {
		if matchSegments(patternParts, pathParts[i:]) {
			return true
		}
	}
	return false
}

// matchSegments matches pattern segments against path segments in full.
func matchSegments(pattern, parts []string) bool {
	if len(pattern) == 0 {
		return len(parts) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(parts); i++ {
			if matchSegments(pattern[1:], parts[i:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	ok, err := path.Match(pattern[0], parts[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], parts[1:])
}

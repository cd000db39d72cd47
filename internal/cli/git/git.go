// Package git lists the files of a working tree that differ from HEAD, for
// the --changed-only filter.
package git

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"

	"github.com/stackvity/enum-converter/pkg/converter"
)

// ErrNotRepository indicates a path that is not inside a Git working tree.
var ErrNotRepository = errors.New("not a git repository")

// GoGitClient implements converter.GitClient using go-git, so no git binary
// is needed on PATH.
type GoGitClient struct {
	logger *slog.Logger
}

// NewGoGitClient creates a new GoGitClient.
func NewGoGitClient(loggerHandler slog.Handler) *GoGitClient {
	logger := slog.New(loggerHandler).With(slog.String("component", "gitClient"), slog.String("backend", "go-git"))
	return &GoGitClient{logger: logger}
}

var _ converter.GitClient = (*GoGitClient)(nil)

// ChangedFiles implements converter.GitClient. It reports staged, unstaged
// and untracked files; deleted files are left out since there is nothing to
// convert.
func (c *GoGitClient) ChangedFiles(path string) ([]string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %q: %w", path, err)
	}
	logger := c.logger.With(slog.String("path", absPath))

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, absPath)
		}
		return nil, fmt.Errorf("failed to open repository at %q: %w", absPath, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree for %q: %w", absPath, err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get git status for %q: %w", absPath, err)
	}

	root := worktree.Filesystem.Root()
	files := make([]string, 0, len(status))
	for relPath, fileStatus := range status {
		if fileStatus.Staging == git.Deleted || fileStatus.Worktree == git.Deleted {
			continue
		}
		if fileStatus.Staging == git.Unmodified && fileStatus.Worktree == git.Unmodified {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(relPath)))
	}
	sort.Strings(files)

	logger.Debug("Git status obtained", slog.Int("entries", len(status)), slog.Int("changed", len(files)))
	return files, nil
}

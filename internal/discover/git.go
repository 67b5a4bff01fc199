package discover

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

const (
	openRepositoryFormat = "open repository at %s: %w"
	worktreeFormat       = "open worktree at %s: %w"
	worktreeStatusFormat = "read worktree status at %s: %w"
)

// ErrNotRepository is returned when a location is not inside a git worktree.
var ErrNotRepository = errors.New("not a git repository")

// ChangedSet holds the absolute paths git reports as modified, staged or untracked.
type ChangedSet map[string]struct{}

// Contains reports whether path is one of the changed files.
func (set ChangedSet) Contains(path string) bool {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return false
	}
	_, found := set[absolutePath]
	return found
}

// ChangedFiles returns the files of the worktree enclosing location that differ from HEAD.
func ChangedFiles(location string) (ChangedSet, error) {
	repository, openError := git.PlainOpenWithOptions(location, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf(openRepositoryFormat, location, ErrNotRepository)
		}
		return nil, fmt.Errorf(openRepositoryFormat, location, openError)
	}
	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return nil, fmt.Errorf(worktreeFormat, location, worktreeError)
	}
	status, statusError := worktree.Status()
	if statusError != nil {
		return nil, fmt.Errorf(worktreeStatusFormat, location, statusError)
	}
	worktreeRoot, absoluteError := filepath.Abs(worktree.Filesystem.Root())
	if absoluteError != nil {
		return nil, fmt.Errorf(worktreeFormat, location, absoluteError)
	}

	changed := make(ChangedSet, len(status))
	for relativePath, fileStatus := range status {
		if fileStatus.Staging == git.Unmodified && fileStatus.Worktree == git.Unmodified {
			continue
		}
		changed[filepath.Join(worktreeRoot, filepath.FromSlash(relativePath))] = struct{}{}
	}
	return changed, nil
}

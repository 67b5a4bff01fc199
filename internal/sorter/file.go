package sorter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/temirov/fop/internal/types"
	"github.com/temirov/fop/internal/utils"
)

const (
	crlfLineEnding    = "\r\n"
	lfLineEnding      = "\n"
	diffContextLines  = 3
	diffSourcePrefix  = "a/"
	diffTargetPrefix  = "b/"
	readFileFormat    = "read %s: %w"
	statFileFormat    = "stat %s: %w"
	sortFileFormat    = "sort %s: %w"
	diffFileFormat    = "diff %s: %w"
	backupFileFormat  = "backup %s: %w"
	createTempFormat  = "create temporary file for %s: %w"
	writeTempFormat   = "write temporary file for %s: %w"
	replaceFileFormat = "replace %s: %w"
)

// DetectLineEnding returns "\r\n" when the content uses Windows line endings.
func DetectLineEnding(content []byte) string {
	if bytes.Contains(content, []byte(crlfLineEnding)) {
		return crlfLineEnding
	}
	return lfLineEnding
}

// SortFile sorts one filter list in place, or reports the difference during a dry run.
func (driver *Driver) SortFile(path string) (types.FileResult, error) {
	result := types.FileResult{Path: path}
	fileInformation, statError := os.Stat(path)
	if statError != nil {
		return result, fmt.Errorf(statFileFormat, path, statError)
	}
	original, readError := os.ReadFile(path)
	if readError != nil {
		return result, fmt.Errorf(readFileFormat, path, readError)
	}

	var sorted bytes.Buffer
	sorted.Grow(len(original))
	if sortError := driver.Sort(bytes.NewReader(original), &sorted, DetectLineEnding(original)); sortError != nil {
		return result, fmt.Errorf(sortFileFormat, path, sortError)
	}
	if bytes.Equal(original, sorted.Bytes()) {
		return result, nil
	}
	result.Changed = true
	permissions := fileInformation.Mode().Perm()

	if driver.options.DryRun {
		if driver.options.OutputChanged {
			result.ChangedPath = utils.ChangedCopyPath(path)
			return result, writeFileAtomically(result.ChangedPath, sorted.Bytes(), permissions)
		}
		diff, diffError := UnifiedDiff(path, string(original), sorted.String())
		if diffError != nil {
			return result, fmt.Errorf(diffFileFormat, path, diffError)
		}
		result.Diff = diff
		return result, nil
	}

	if driver.options.Backup {
		result.BackupPath = BackupPath(path)
		if backupError := os.WriteFile(result.BackupPath, original, permissions); backupError != nil {
			return result, fmt.Errorf(backupFileFormat, path, backupError)
		}
	}
	return result, writeFileAtomically(path, sorted.Bytes(), permissions)
}

// BackupPath replaces the extension of path with .backup.
func BackupPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + utils.BackupFileExtension
}

// UnifiedDiff renders a unified diff between the original and sorted content.
func UnifiedDiff(path string, original string, sorted string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(sorted),
		FromFile: diffSourcePrefix + filepath.ToSlash(path),
		ToFile:   diffTargetPrefix + filepath.ToSlash(path),
		Context:  diffContextLines,
	})
}

// writeFileAtomically writes content to a temporary file beside path and renames it into place.
func writeFileAtomically(path string, content []byte, permissions os.FileMode) error {
	temporaryFile, createError := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*"+utils.TemporaryFileExtension)
	if createError != nil {
		return fmt.Errorf(createTempFormat, path, createError)
	}
	temporaryPath := temporaryFile.Name()
	cleanup := func() { _ = os.Remove(temporaryPath) }

	if _, writeError := temporaryFile.Write(content); writeError != nil {
		_ = temporaryFile.Close()
		cleanup()
		return fmt.Errorf(writeTempFormat, path, writeError)
	}
	if syncError := temporaryFile.Sync(); syncError != nil {
		_ = temporaryFile.Close()
		cleanup()
		return fmt.Errorf(writeTempFormat, path, syncError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		cleanup()
		return fmt.Errorf(writeTempFormat, path, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, permissions); chmodError != nil {
		cleanup()
		return fmt.Errorf(writeTempFormat, path, chmodError)
	}
	if renameError := os.Rename(temporaryPath, path); renameError != nil {
		cleanup()
		return fmt.Errorf(replaceFileFormat, path, renameError)
	}
	return nil
}

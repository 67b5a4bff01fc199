package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/fop/internal/utils"
)

const (
	hiddenEntryPrefix    = "."
	notDirectoryFormat   = "%s does not exist or is not a folder: %w"
	walkDirectoryFormat  = "walk %s: %w"
	removeLeftoverFormat = "remove %s: %w"
)

// ErrNotDirectory is returned when a location is not a readable directory.
var ErrNotDirectory = errors.New("not a directory")

// FindFilterFiles walks root and returns the filter lists to sort in lexical order.
// Hidden entries below root are skipped along with ignored files and directories.
func FindFilterFiles(root string, options Options) ([]string, error) {
	var filterFiles []string
	walkError := walkLocation(root, options, func(path string, name string) {
		if options.acceptsFile(name) {
			filterFiles = append(filterFiles, path)
		}
	})
	return filterFiles, walkError
}

// RemoveLeftovers deletes the temporary and merge leftover files below root and
// returns the removed paths.
func RemoveLeftovers(root string, options Options) ([]string, error) {
	var leftovers []string
	walkError := walkLocation(root, options, func(path string, name string) {
		extension := filepath.Ext(name)
		if extension == utils.TemporaryFileExtension || extension == utils.OriginalFileExtension {
			leftovers = append(leftovers, path)
		}
	})
	if walkError != nil {
		return nil, walkError
	}
	removed := make([]string, 0, len(leftovers))
	for _, leftover := range leftovers {
		if removeError := os.Remove(leftover); removeError != nil && !errors.Is(removeError, fs.ErrNotExist) {
			return removed, fmt.Errorf(removeLeftoverFormat, leftover, removeError)
		}
		removed = append(removed, leftover)
	}
	return removed, nil
}

func walkLocation(root string, options Options, visitFile func(path string, name string)) error {
	rootInformation, statError := os.Stat(root)
	if statError != nil {
		return fmt.Errorf(notDirectoryFormat, root, statError)
	}
	if !rootInformation.IsDir() {
		return fmt.Errorf(notDirectoryFormat, root, ErrNotDirectory)
	}

	walkError := filepath.WalkDir(root, func(path string, entry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return entryError
		}
		if path == root {
			return nil
		}
		name := entry.Name()
		if strings.HasPrefix(name, hiddenEntryPrefix) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if options.skipsDirectory(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if isRegularFile(path, entry) {
			visitFile(path, name)
		}
		return nil
	})
	if walkError != nil {
		return fmt.Errorf(walkDirectoryFormat, root, walkError)
	}
	return nil
}

func isRegularFile(path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInformation, statError := os.Stat(path)
	return statError == nil && targetInformation.Mode().IsRegular()
}

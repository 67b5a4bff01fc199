// Package utils contains general helper functions used across the fop tool.
package utils

import (
	"path/filepath"
	"strings"
)

const (
	// TemporaryFileExtension marks files left behind by an interrupted sort.
	TemporaryFileExtension = ".temp"
	// OriginalFileExtension marks merge leftovers removed after sorting.
	OriginalFileExtension = ".orig"
	// BackupFileExtension is appended to the original file when backups are enabled.
	BackupFileExtension = ".backup"
	// ChangedFileSuffix is inserted before the extension of dry-run output copies.
	ChangedFileSuffix = "--changed"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// SplitList splits a comma-separated list, trimming whitespace and dropping empty items.
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		trimmedItem := strings.TrimSpace(item)
		if trimmedItem != "" {
			items = append(items, trimmedItem)
		}
	}
	return items
}

// MatchesName reports whether the entry name equals one of the patterns or contains it.
func MatchesName(entryName string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if entryName == pattern || strings.Contains(entryName, pattern) {
			return true
		}
	}
	return false
}

// HasExtension reports whether the file name ends with one of the extensions.
// Extensions are compared case-insensitively and may be given with or without the dot.
func HasExtension(fileName string, extensions []string) bool {
	fileExtension := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if fileExtension == "" {
		return false
	}
	for _, extension := range extensions {
		if strings.TrimPrefix(strings.ToLower(extension), ".") == fileExtension {
			return true
		}
	}
	return false
}

// ChangedCopyPath returns the dry-run output path for a file, e.g. list.txt -> list--changed.txt.
func ChangedCopyPath(filePath string) string {
	extension := filepath.Ext(filePath)
	stem := strings.TrimSuffix(filePath, extension)
	return stem + ChangedFileSuffix + extension
}

// MatchesFile reports whether the file is named by one of the entries, either by its
// base name or by a trailing run of path components such as "hosts/list.txt".
func MatchesFile(filePath string, names []string) bool {
	slashedPath := filepath.ToSlash(filePath)
	baseName := filepath.Base(filePath)
	for _, name := range names {
		slashedName := strings.Trim(filepath.ToSlash(name), "/")
		if slashedName == "" {
			continue
		}
		if baseName == slashedName || slashedPath == slashedName || strings.HasSuffix(slashedPath, "/"+slashedName) {
			return true
		}
	}
	return false
}

// Package headers maintains the "Last modified", "Version" and "Checksum" header
// comments of filter lists.
package headers

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	timestampLayout      = "2 Jan 2006 15:04"
	versionLayout        = "200601021504"
	timestampSuffix      = " UTC"
	lastModifiedLabel    = "Last modified"
	lastUpdatedLabel     = "Last updated"
	versionLabel         = "version:"
	exclamationPrefix    = "!"
	hashPrefix           = "#"
	timestampReadFormat  = "read %s: %w"
	timestampWriteFormat = "write %s: %w"
)

// FormatTimestamp renders t as "2 Jan 2006 15:04 UTC".
func FormatTimestamp(moment time.Time) string {
	return moment.UTC().Format(timestampLayout) + timestampSuffix
}

// FormatVersion renders t as a YYYYMMDDHHMM version string.
func FormatVersion(moment time.Time) string {
	return moment.UTC().Format(versionLayout)
}

func commentPrefix(line string) string {
	if strings.HasPrefix(strings.TrimSpace(line), hashPrefix) {
		return hashPrefix
	}
	return exclamationPrefix
}

// IsTimestampLine reports "Last modified:" or "Last updated:" header lines.
func IsTimestampLine(line string) bool {
	lowered := strings.ToLower(line)
	return strings.Contains(lowered, strings.ToLower(lastModifiedLabel)+":") ||
		strings.Contains(lowered, strings.ToLower(lastUpdatedLabel)+":")
}

// IsVersionLine reports "! Version:" header lines.
func IsVersionLine(line string) bool {
	trimmed := strings.TrimLeft(strings.TrimSpace(line), "!#")
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(trimmed)), versionLabel)
}

// UpdateHeaderLine rewrites a timestamp or version header line for moment.
// It returns false for any other line.
func UpdateHeaderLine(line string, moment time.Time) (string, bool) {
	prefix := commentPrefix(line)
	switch {
	case IsTimestampLine(line):
		label := lastModifiedLabel
		if !strings.Contains(strings.ToLower(line), strings.ToLower(lastModifiedLabel)+":") {
			label = lastUpdatedLabel
		}
		return fmt.Sprintf("%s %s: %s", prefix, label, FormatTimestamp(moment)), true
	case IsVersionLine(line):
		return fmt.Sprintf("%s Version: %s", prefix, FormatVersion(moment)), true
	default:
		return line, false
	}
}

// AddTimestamp updates the timestamp line of a file, inserting one after the
// first line when none exists. It reports whether the file changed.
func AddTimestamp(path string, useHash bool, moment time.Time) (bool, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return false, fmt.Errorf(timestampReadFormat, path, readError)
	}
	if len(content) == 0 {
		return false, nil
	}
	document := splitDocument(string(content))
	timestamp := FormatTimestamp(moment)

	replaced := false
	for index, line := range document.lines {
		if !IsTimestampLine(line) {
			continue
		}
		if colon := strings.Index(line, ":"); colon >= 0 {
			document.lines[index] = line[:colon] + ": " + timestamp
		}
		replaced = true
		break
	}
	if !replaced {
		prefix := exclamationPrefix
		if useHash {
			prefix = hashPrefix
		}
		document.insertAfterFirst(fmt.Sprintf("%s %s: %s", prefix, lastModifiedLabel, timestamp))
	}

	updated := document.String()
	if updated == string(content) {
		return false, nil
	}
	if writeError := writeFilePreservingMode(path, []byte(updated)); writeError != nil {
		return false, fmt.Errorf(timestampWriteFormat, path, writeError)
	}
	return true, nil
}

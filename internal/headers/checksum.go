package headers

import (
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

const (
	checksumLabel       = "checksum"
	checksumReadFormat  = "read %s: %w"
	checksumWriteFormat = "write %s: %w"
)

// ChecksumStatus is the outcome of verifying a file.
type ChecksumStatus int

const (
	ChecksumMissing ChecksumStatus = iota
	ChecksumValid
	ChecksumInvalid
)

func (status ChecksumStatus) String() string {
	switch status {
	case ChecksumValid:
		return "valid"
	case ChecksumInvalid:
		return "invalid"
	default:
		return "missing"
	}
}

// MarshalText renders the status by name.
func (status ChecksumStatus) MarshalText() ([]byte, error) {
	return []byte(status.String()), nil
}

// ChecksumResult reports a verification.
type ChecksumResult struct {
	Status   ChecksumStatus `json:"status"`
	Expected string         `json:"expected,omitempty"`
	Found    string         `json:"found,omitempty"`
}

// IsChecksumLine reports "! Checksum:" or "# Checksum:" lines, case-insensitively.
func IsChecksumLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, exclamationPrefix) && !strings.HasPrefix(trimmed, hashPrefix) {
		return false
	}
	rest := strings.TrimSpace(trimmed[1:])
	return len(rest) >= len(checksumLabel) && strings.EqualFold(rest[:len(checksumLabel)], checksumLabel)
}

// CalculateChecksum returns the Adblock Plus checksum of data: the unpadded
// base64 MD5 of the content with CR removed and runs of newlines collapsed.
func CalculateChecksum(data string) string {
	hasher := md5.New()
	normalized := make([]byte, 0, len(data))
	previousNewline := false
	for index := 0; index < len(data); index++ {
		character := data[index]
		switch {
		case character == '\r':
			continue
		case character == '\n' && previousNewline:
			continue
		case character == '\n':
			previousNewline = true
		default:
			previousNewline = false
		}
		normalized = append(normalized, character)
	}
	hasher.Write(normalized)
	return base64.RawStdEncoding.EncodeToString(hasher.Sum(nil))
}

func checksumValue(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}

func checksumPayload(lines []string) string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if !IsChecksumLine(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, lfLineEnding) + lfLineEnding
}

// VerifyChecksum checks the checksum line of a file without modifying it.
func VerifyChecksum(path string) (ChecksumResult, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return ChecksumResult{}, fmt.Errorf(checksumReadFormat, path, readError)
	}
	if len(content) == 0 {
		return ChecksumResult{Status: ChecksumMissing}, nil
	}
	parsed := splitDocument(string(content))
	found := ""
	for _, line := range parsed.lines {
		if IsChecksumLine(line) {
			found = checksumValue(line)
			break
		}
	}
	if found == "" {
		return ChecksumResult{Status: ChecksumMissing}, nil
	}
	expected := CalculateChecksum(checksumPayload(parsed.lines))
	if expected == found {
		return ChecksumResult{Status: ChecksumValid, Expected: expected, Found: found}, nil
	}
	return ChecksumResult{Status: ChecksumInvalid, Expected: expected, Found: found}, nil
}

// AddChecksum writes or refreshes the checksum line, inserting it after the
// first line when absent. It returns the checksum and whether the file changed.
func AddChecksum(path string, useHash bool) (string, bool, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return "", false, fmt.Errorf(checksumReadFormat, path, readError)
	}
	if len(content) == 0 {
		return "", false, nil
	}
	parsed := splitDocument(string(content))
	checksum := CalculateChecksum(checksumPayload(parsed.lines))
	prefix := exclamationPrefix
	if useHash {
		prefix = hashPrefix
	}
	checksumLine := prefix + " Checksum: " + checksum

	replaced := false
	for index, line := range parsed.lines {
		if IsChecksumLine(line) {
			parsed.lines[index] = checksumLine
			replaced = true
			break
		}
	}
	if !replaced {
		parsed.insertAfterFirst(checksumLine)
	}

	updated := parsed.String()
	if updated == string(content) {
		return checksum, false, nil
	}
	if writeError := writeFilePreservingMode(path, []byte(updated)); writeError != nil {
		return "", false, fmt.Errorf(checksumWriteFormat, path, writeError)
	}
	return checksum, true, nil
}

package headers

import (
	"os"
	"strings"
)

const (
	crlfLineEnding    = "\r\n"
	lfLineEnding      = "\n"
	defaultPermission = 0o644
)

// document is a file split into lines with its line ending remembered.
type document struct {
	lines           []string
	lineEnding      string
	trailingNewline bool
}

func splitDocument(content string) document {
	parsed := document{lineEnding: lfLineEnding}
	if strings.Contains(content, crlfLineEnding) {
		parsed.lineEnding = crlfLineEnding
	}
	parsed.trailingNewline = strings.HasSuffix(content, lfLineEnding)
	trimmed := strings.TrimSuffix(content, lfLineEnding)
	for _, line := range strings.Split(trimmed, lfLineEnding) {
		parsed.lines = append(parsed.lines, strings.TrimSuffix(line, "\r"))
	}
	return parsed
}

func (parsed *document) insertAfterFirst(line string) {
	if len(parsed.lines) == 0 {
		parsed.lines = []string{line}
		return
	}
	updated := make([]string, 0, len(parsed.lines)+1)
	updated = append(updated, parsed.lines[0], line)
	parsed.lines = append(updated, parsed.lines[1:]...)
}

func (parsed document) String() string {
	joined := strings.Join(parsed.lines, parsed.lineEnding)
	if parsed.trailingNewline {
		joined += parsed.lineEnding
	}
	return joined
}

func writeFilePreservingMode(path string, content []byte) error {
	permissions := os.FileMode(defaultPermission)
	if fileInformation, statError := os.Stat(path); statError == nil {
		permissions = fileInformation.Mode().Perm()
	}
	return os.WriteFile(path, content, permissions)
}

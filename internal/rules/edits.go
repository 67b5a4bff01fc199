package rules

import (
	"sort"
	"strings"
)

// textEdit replaces snapshot[start:end] with replacement.
type textEdit struct {
	start       int
	end         int
	replacement string
}

// editList collects edits computed against one immutable snapshot.
type editList []textEdit

func (edits *editList) add(start, end int, replacement string) {
	*edits = append(*edits, textEdit{start: start, end: end, replacement: replacement})
}

// apply rewrites the snapshot in a single pass. Edits are applied in start order;
// an edit overlapping an earlier one is dropped.
func (edits editList) apply(snapshot string) string {
	if len(edits) == 0 {
		return snapshot
	}
	ordered := append(editList(nil), edits...)
	sort.SliceStable(ordered, func(left, right int) bool {
		return ordered[left].start < ordered[right].start
	})

	var builder strings.Builder
	builder.Grow(len(snapshot))
	cursor := 0
	for _, edit := range ordered {
		if edit.start < cursor {
			continue
		}
		builder.WriteString(snapshot[cursor:edit.start])
		builder.WriteString(edit.replacement)
		cursor = edit.end
	}
	builder.WriteString(snapshot[cursor:])
	return builder.String()
}

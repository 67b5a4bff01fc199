// Package output renders run reports as raw text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/temirov/fop/internal/changes"
	"github.com/temirov/fop/internal/commands"
	"github.com/temirov/fop/internal/headers"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	// maximumListedItems caps every section of the raw change report.
	maximumListedItems = 40

	typosFixedHeader        = "## Typos Fixed"
	domainsCombinedHeader   = "## Domains Combined"
	hasTextMergedHeader     = "## :has-text() Merged"
	duplicatesRemovedHeader = "## Duplicates Removed"
	noChangesLine           = "No rule changes recorded."

	typoFixedItemFormat       = "- `%s` -> `%s` (%s)\n"
	domainsCombinedItemFormat = "- `%s` -> `%s`\n"
	hasTextMergedItemFormat   = "- %d rules -> `%s`\n"
	duplicateItemFormat       = "- `%s`\n"
	remainingItemsFormat      = "- ... and %d more\n"
	originalsSeparator        = "` + `"
	fixesSeparator            = ", "

	findingLineFormat  = "%s:%d: %s → %s (%s)\n"
	checksumLineFormat = "%s: %s\n"
	checksumDiffFormat = "%s: %s (expected %s, found %s)\n"
	checksumAddFormat  = "%s: %s %s\n"
	checksumUpdated    = "updated"
	checksumUnchanged  = "unchanged"
)

// RenderJSON returns the indented JSON encoding of value.
func RenderJSON(value any) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(value, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderChangesRaw returns the change report as Markdown sections, listing at most
// forty entries per section.
func RenderChangesRaw(report changes.Report) string {
	if report.Empty() {
		return noChangesLine + "\n"
	}
	var builder strings.Builder
	if len(report.TyposFixed) > 0 {
		builder.WriteString(typosFixedHeader + "\n\n")
		for _, typoFix := range limit(report.TyposFixed) {
			fmt.Fprintf(&builder, typoFixedItemFormat, typoFix.Before, typoFix.After, strings.Join(typoFix.Fixes, fixesSeparator))
		}
		writeRemaining(&builder, len(report.TyposFixed))
	}
	if len(report.DomainsCombined) > 0 {
		builder.WriteString(domainsCombinedHeader + "\n\n")
		for _, merge := range limit(report.DomainsCombined) {
			fmt.Fprintf(&builder, domainsCombinedItemFormat, strings.Join(merge.Originals, originalsSeparator), merge.Result)
		}
		writeRemaining(&builder, len(report.DomainsCombined))
	}
	if len(report.HasTextMerged) > 0 {
		builder.WriteString(hasTextMergedHeader + "\n\n")
		for _, merge := range limit(report.HasTextMerged) {
			fmt.Fprintf(&builder, hasTextMergedItemFormat, len(merge.Originals), merge.Result)
		}
		writeRemaining(&builder, len(report.HasTextMerged))
	}
	if len(report.DuplicatesRemoved) > 0 {
		builder.WriteString(duplicatesRemovedHeader + "\n\n")
		for _, duplicate := range limit(report.DuplicatesRemoved) {
			fmt.Fprintf(&builder, duplicateItemFormat, duplicate)
		}
		writeRemaining(&builder, len(report.DuplicatesRemoved))
	}
	return builder.String()
}

func limit[Item any](items []Item) []Item {
	if len(items) > maximumListedItems {
		return items[:maximumListedItems]
	}
	return items
}

func writeRemaining(builder *strings.Builder, total int) {
	if total > maximumListedItems {
		fmt.Fprintf(builder, remainingItemsFormat, total-maximumListedItems)
	}
	builder.WriteString("\n")
}

// RenderFindingsRaw lists every typo as "path:line: before → after (fixes)".
func RenderFindingsRaw(reported []commands.FileFindings) string {
	var builder strings.Builder
	for _, fileFindings := range reported {
		for _, finding := range fileFindings.Findings {
			fmt.Fprintf(&builder, findingLineFormat, fileFindings.Path, finding.Line, finding.Before, finding.After, strings.Join(finding.Fixes, fixesSeparator))
		}
	}
	return builder.String()
}

// RenderChecksumsRaw prints one line per verified or updated file.
func RenderChecksumsRaw(reports []commands.ChecksumReport, added bool) string {
	var builder strings.Builder
	for _, report := range reports {
		switch {
		case added:
			state := checksumUnchanged
			if report.Changed {
				state = checksumUpdated
			}
			fmt.Fprintf(&builder, checksumAddFormat, report.Path, state, report.Checksum)
		case report.Result.Status == headers.ChecksumInvalid:
			fmt.Fprintf(&builder, checksumDiffFormat, report.Path, report.Result.Status, report.Result.Expected, report.Result.Found)
		default:
			fmt.Fprintf(&builder, checksumLineFormat, report.Path, report.Result.Status)
		}
	}
	return builder.String()
}

package output_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/temirov/fop/internal/changes"
	"github.com/temirov/fop/internal/commands"
	"github.com/temirov/fop/internal/headers"
	"github.com/temirov/fop/internal/output"
	"github.com/temirov/fop/internal/typos"
)

const changesRawExpected = "## Typos Fixed\n\n" +
	"- `example.com###.ad` -> `example.com##.ad` (Extra # (### → ##))\n\n" +
	"## Domains Combined\n\n" +
	"- `a.com##.ad` + `b.com##.ad` -> `a.com,b.com##.ad`\n\n" +
	"## :has-text() Merged\n\n" +
	"- 2 rules -> `##.x:has-text(/bar|foo/)`\n\n" +
	"## Duplicates Removed\n\n" +
	"- `||a.com^`\n\n"

func sampleReport() changes.Report {
	return changes.Report{
		TyposFixed: []changes.TypoFix{{Before: "example.com###.ad", After: "example.com##.ad", Fixes: []string{"Extra # (### → ##)"}}},
		DomainsCombined: []changes.Merge{{
			Originals: []string{"a.com##.ad", "b.com##.ad"},
			Result:    "a.com,b.com##.ad",
		}},
		HasTextMerged: []changes.Merge{{
			Originals: []string{"##.x:has-text(bar)", "##.x:has-text(foo)"},
			Result:    "##.x:has-text(/bar|foo/)",
		}},
		DuplicatesRemoved: []string{"||a.com^"},
	}
}

func TestRenderChangesRaw(testingInstance *testing.T) {
	if actual := output.RenderChangesRaw(sampleReport()); actual != changesRawExpected {
		testingInstance.Fatalf("unexpected report\nexpected:\n%s\nactual:\n%s", changesRawExpected, actual)
	}
	if actual := output.RenderChangesRaw(changes.Report{}); actual != "No rule changes recorded.\n" {
		testingInstance.Fatalf("unexpected empty report %q", actual)
	}
}

func TestRenderChangesRawLimitsSections(testingInstance *testing.T) {
	var report changes.Report
	for index := 0; index < 45; index++ {
		report.DuplicatesRemoved = append(report.DuplicatesRemoved, fmt.Sprintf("||site%d.com^", index))
	}
	rendered := output.RenderChangesRaw(report)
	if strings.Contains(rendered, "site40.com") {
		testingInstance.Fatalf("expected the list to be truncated")
	}
	if !strings.Contains(rendered, "- ... and 5 more\n") {
		testingInstance.Fatalf("expected a remainder line, got %q", rendered)
	}
}

func TestRenderJSON(testingInstance *testing.T) {
	rendered, renderError := output.RenderJSON(sampleReport())
	if renderError != nil {
		testingInstance.Fatalf("render failed: %v", renderError)
	}
	var decoded changes.Report
	if decodeError := json.Unmarshal([]byte(rendered), &decoded); decodeError != nil {
		testingInstance.Fatalf("decode failed: %v", decodeError)
	}
	if decoded.DomainsCombined[0].Result != "a.com,b.com##.ad" || !strings.Contains(rendered, "\n  \"typosFixed\"") {
		testingInstance.Fatalf("unexpected JSON %s", rendered)
	}

	checksumJSON, checksumError := output.RenderJSON(commands.ChecksumReport{Path: "list.txt", Result: headers.ChecksumResult{Status: headers.ChecksumInvalid}})
	if checksumError != nil || !strings.Contains(checksumJSON, `"status": "invalid"`) {
		testingInstance.Fatalf("unexpected checksum JSON %s (%v)", checksumJSON, checksumError)
	}
}

func TestRenderFindingsRaw(testingInstance *testing.T) {
	reported := []commands.FileFindings{{
		Path: "list.txt",
		Findings: []typos.Finding{{
			Line:   2,
			Before: "example.com,,example.org##.ad",
			After:  "example.com,example.org##.ad",
			Fixes:  []string{"Double comma (,, → ,)"},
		}},
	}}
	expected := "list.txt:2: example.com,,example.org##.ad → example.com,example.org##.ad (Double comma (,, → ,))\n"
	if actual := output.RenderFindingsRaw(reported); actual != expected {
		testingInstance.Fatalf("expected %q, got %q", expected, actual)
	}
}

func TestRenderChecksumsRaw(testingInstance *testing.T) {
	verified := []commands.ChecksumReport{
		{Path: "a.txt", Result: headers.ChecksumResult{Status: headers.ChecksumValid}},
		{Path: "b.txt", Result: headers.ChecksumResult{Status: headers.ChecksumInvalid, Expected: "x", Found: "y"}},
		{Path: "c.txt", Result: headers.ChecksumResult{Status: headers.ChecksumMissing}},
	}
	expected := "a.txt: valid\nb.txt: invalid (expected x, found y)\nc.txt: missing\n"
	if actual := output.RenderChecksumsRaw(verified, false); actual != expected {
		testingInstance.Fatalf("expected %q, got %q", expected, actual)
	}

	added := []commands.ChecksumReport{{Path: "a.txt", Checksum: "abc", Changed: true}}
	if actual := output.RenderChecksumsRaw(added, true); actual != "a.txt: updated abc\n" {
		testingInstance.Fatalf("unexpected add output %q", actual)
	}
}

package sorter_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/temirov/fop/internal/changes"
	"github.com/temirov/fop/internal/sorter"
	"github.com/temirov/fop/internal/types"
	"github.com/temirov/fop/internal/warnings"
)

func assertLines(testingInstance *testing.T, expected []string, actual []string) {
	testingInstance.Helper()
	if strings.Join(expected, "\n") != strings.Join(actual, "\n") {
		testingInstance.Fatalf("unexpected output\nexpected:\n%s\nactual:\n%s", strings.Join(expected, "\n"), strings.Join(actual, "\n"))
	}
}

func TestSortLinesEndToEnd(testingInstance *testing.T) {
	driver := sorter.NewDriver(types.DefaultSortOptions(), nil, nil)
	actual := driver.SortLines([]string{
		"||ads.example.com^$image,Script,Third-Party",
		"example.com,abc.com##.ad",
		"abc.com,example.com##.ad",
	})
	assertLines(testingInstance, []string{
		"||ads.example.com^$image,script,third-party",
		"abc.com,example.com##.ad",
	}, actual)
}

var sectionedInput = []string{
	"[Adblock Plus 2.0]",
	"! Title: Test",
	"||b.com^$Script",
	"||a.com^$script",
	"||a.com^$script",
	"a.com##.ad",
	"b.com##.ad",
	"##div>a",
	"##.x:has-text(foo)",
	"##.x:has-text(bar)",
	"! Section two",
	"||ads.com^$script,domain=b.com",
	"||ads.com^$script,domain=a.com",
}

var sectionedOutput = []string{
	"[Adblock Plus 2.0]",
	"! Title: Test",
	"||a.com^$script",
	"||b.com^$script",
	"a.com,b.com##.ad",
	"##.x:has-text(/bar|foo/)",
	"##div > a",
	"! Section two",
	"||ads.com^$script,domain=a.com|b.com",
}

func TestSortLinesSections(testingInstance *testing.T) {
	tracker := changes.NewTracker()
	driver := sorter.NewDriver(types.DefaultSortOptions(), nil, tracker)
	assertLines(testingInstance, sectionedOutput, driver.SortLines(sectionedInput))

	report := tracker.Snapshot()
	if len(report.DuplicatesRemoved) != 1 || report.DuplicatesRemoved[0] != "||a.com^$script" {
		testingInstance.Fatalf("unexpected duplicates %v", report.DuplicatesRemoved)
	}
	if len(report.DomainsCombined) != 2 {
		testingInstance.Fatalf("expected two domain combinations, got %+v", report.DomainsCombined)
	}
	if len(report.HasTextMerged) != 1 {
		testingInstance.Fatalf("expected one has-text merge, got %+v", report.HasTextMerged)
	}
}

func TestSortLinesIsIdempotent(testingInstance *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "sections", input: sectionedInput, expected: sectionedOutput},
		{
			name: "has_text_groups_on_different_domains",
			input: []string{
				"d1.com##.x:has-text(b)",
				"d1.com##.x:has-text(c)",
				"d2.com##.x:has-text(a0)",
			},
			expected: []string{
				"d1.com##.x:has-text(/b|c/)",
				"d2.com##.x:has-text(a0)",
			},
		},
		{
			name: "has_text_merge_followed_by_domain_combine",
			input: []string{
				"a.com##.x:has-text(b)",
				"a.com##.x:has-text(c)",
				"b.com##.x:has-text(/b|c/)",
			},
		},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(subTest *testing.T) {
			driver := sorter.NewDriver(types.DefaultSortOptions(), nil, nil)
			firstPass := driver.SortLines(testCase.input)
			if testCase.expected != nil {
				assertLines(subTest, testCase.expected, firstPass)
			}
			secondPass := driver.SortLines(firstPass)
			assertLines(subTest, firstPass, secondPass)
		})
	}
}

func TestSortLinesNoSortKeepsOrder(testingInstance *testing.T) {
	options := types.DefaultSortOptions()
	options.NoSort = true
	driver := sorter.NewDriver(options, nil, nil)
	actual := driver.SortLines([]string{"||b.com^", "||a.com^", "||b.com^"})
	assertLines(testingInstance, []string{"||b.com^", "||a.com^"}, actual)
}

func TestSortLinesEmptyLines(testingInstance *testing.T) {
	input := []string{"||b.com^", "", "||a.com^"}

	driver := sorter.NewDriver(types.DefaultSortOptions(), nil, nil)
	assertLines(testingInstance, []string{"||a.com^", "||b.com^"}, driver.SortLines(input))

	options := types.DefaultSortOptions()
	options.KeepEmptyLines = true
	keepingDriver := sorter.NewDriver(options, nil, nil)
	assertLines(testingInstance, []string{"||b.com^", "", "||a.com^"}, keepingDriver.SortLines(input))
}

func TestSortLinesDropsBroadRules(testingInstance *testing.T) {
	warningSink := warnings.NewBufferedSink("")
	driver := sorter.NewDriver(types.DefaultSortOptions(), warningSink, nil)
	actual := driver.SortLines([]string{"||.com^", "||localhost^", "||ads.example.com^", "a"})
	assertLines(testingInstance, []string{"||ads.example.com^"}, actual)

	expectedWarnings := []string{
		"Removed overly broad TLD-only rule: ||.com^",
		"Skipped network rule without dot in domain: ||localhost^ (domain: localhost)",
	}
	assertLines(testingInstance, expectedWarnings, warningSink.Messages())
}

func TestSortLinesLocalhost(testingInstance *testing.T) {
	options := types.DefaultSortOptions()
	options.Localhost = true
	warningSink := warnings.NewBufferedSink("")
	driver := sorter.NewDriver(options, warningSink, nil)
	actual := driver.SortLines([]string{
		"# hosts",
		"0.0.0.0 b.com",
		"0.0.0.0 A.com",
		"192.168.0.1 c.com",
		"127.0.0.1 a.com",
	})
	assertLines(testingInstance, []string{"# hosts", "0.0.0.0 A.com", "127.0.0.1 a.com", "0.0.0.0 b.com"}, actual)
	assertLines(testingInstance, []string{"Removed invalid localhost entry: 192.168.0.1 c.com"}, warningSink.Messages())
}

func TestSortLinesFixesTypos(testingInstance *testing.T) {
	options := types.DefaultSortOptions()
	options.FixTypos = true
	tracker := changes.NewTracker()
	warningSink := warnings.NewBufferedSink("")
	driver := sorter.NewDriver(options, warningSink, tracker)

	assertLines(testingInstance, []string{"example.com##.ad"}, driver.SortLines([]string{"example.com###.ad"}))
	assertLines(testingInstance, []string{"Fixed typo: example.com###.ad → example.com##.ad (Extra # (### → ##))"}, warningSink.Messages())
	if fixes := tracker.Snapshot().TyposFixed; len(fixes) != 1 || fixes[0].Before != "example.com###.ad" {
		testingInstance.Fatalf("unexpected typo report %+v", fixes)
	}
}

func TestSortUpdatesTimestampAndKeepsLineEnding(testingInstance *testing.T) {
	options := types.DefaultSortOptions()
	options.UpdateTimestamp = true
	moment := time.Date(2026, time.October, 19, 9, 5, 0, 0, time.UTC)
	driver := sorter.NewDriver(options, nil, nil).WithClock(func() time.Time { return moment })

	input := "[Adblock Plus 2.0]\r\n! Last modified: 1 Jan 2020 00:00 UTC\r\n||b.com^\r\n||a.com^\r\n"
	var output bytes.Buffer
	if sortError := driver.Sort(strings.NewReader(input), &output, sorter.DetectLineEnding([]byte(input))); sortError != nil {
		testingInstance.Fatalf("sort failed: %v", sortError)
	}
	expected := "[Adblock Plus 2.0]\r\n! Last modified: 19 Oct 2026 09:05 UTC\r\n||a.com^\r\n||b.com^\r\n"
	if output.String() != expected {
		testingInstance.Fatalf("unexpected output %q", output.String())
	}
}

func TestSortLinesAltSortCombinesExtendedSeparators(testingInstance *testing.T) {
	options := types.DefaultSortOptions()
	options.AltSort = true
	driver := sorter.NewDriver(options, nil, nil)
	actual := driver.SortLines([]string{
		"b.com#$#body { overflow: auto !important; }",
		"a.com#$#body { overflow: auto !important; }",
	})
	assertLines(testingInstance, []string{"a.com,b.com#$#body { overflow: auto !important; }"}, actual)
}

package sorter

import (
	"testing"

	"github.com/temirov/fop/internal/rules"
	"github.com/temirov/fop/internal/types"
	"github.com/temirov/fop/internal/warnings"
)

func TestAppendRepairedLineFollowsNewKind(testingInstance *testing.T) {
	testCases := []struct {
		name             string
		repairedText     string
		expectedWarnings []string
		expectedRules    []string
	}{
		{
			name:             "undotted_domain_is_dropped",
			repairedText:     "||ads^",
			expectedWarnings: []string{"Skipped network rule without dot in domain: ||ads^ (domain: ads)"},
		},
		{
			name:             "top_level_domain_is_dropped",
			repairedText:     "||.com^",
			expectedWarnings: []string{"Removed overly broad TLD-only rule: ||.com^"},
		},
		{
			name:          "network_rule_is_tidied",
			repairedText:  "||ads.com^$Script",
			expectedRules: []string{"||ads.com^$script"},
		},
		{
			name:          "element_rule_is_tidied",
			repairedText:  "b.com,a.com##.ad",
			expectedRules: []string{"a.com,b.com##.ad"},
		},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(subTest *testing.T) {
			warningSink := warnings.NewBufferedSink("")
			driver := NewDriver(types.DefaultSortOptions(), warningSink, nil)
			current := &section{}
			collector := &lineCollector{}

			repaired := rules.Classify(testCase.repairedText, driver.classifierOptions)
			driver.appendRepairedLine(repaired, familyBlocking, current, collector)

			var bufferedTexts []string
			for _, rule := range current.rules {
				bufferedTexts = append(bufferedTexts, rule.text)
			}
			if !equalStrings(bufferedTexts, testCase.expectedRules) {
				subTest.Fatalf("expected buffered rules %v, got %v", testCase.expectedRules, bufferedTexts)
			}
			if !equalStrings(warningSink.Messages(), testCase.expectedWarnings) {
				subTest.Fatalf("expected warnings %v, got %v", testCase.expectedWarnings, warningSink.Messages())
			}
			if len(collector.lines) != 0 {
				subTest.Fatalf("a repaired rule must not be written directly, got %v", collector.lines)
			}
		})
	}
}

func equalStrings(left []string, right []string) bool {
	if len(left) != len(right) {
		return false
	}
	for index := range left {
		if left[index] != right[index] {
			return false
		}
	}
	return true
}

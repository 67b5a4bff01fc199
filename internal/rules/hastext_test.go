package rules_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/fop/internal/changes"
	"github.com/temirov/fop/internal/rules"
)

func TestCombineHasTextRules(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "plain arguments",
			input:    []string{"a.com##.x:has-text(foo)", "a.com##.x:has-text(bar)"},
			expected: []string{"a.com##.x:has-text(/foo|bar/)"},
		},
		{
			name:     "plain arguments escaped",
			input:    []string{"##div:has-text($9.99)", "##div:has-text(Sale)"},
			expected: []string{`##div:has-text(/\$9\.99|Sale/)`},
		},
		{
			name:     "regex arguments unwrapped",
			input:    []string{"##div:has-text(/ad[sv]/)", "##div:has-text(promo)"},
			expected: []string{"##div:has-text(/ad[sv]|promo/)"},
		},
		{
			name:     "abp contains",
			input:    []string{"##div:-abp-contains(a)", "##div:-abp-contains(b)"},
			expected: []string{"##div:-abp-contains(/a|b/)"},
		},
		{
			name:     "different bases",
			input:    []string{"##div:has-text(a)", "##span:has-text(b)"},
			expected: []string{"##div:has-text(a)", "##span:has-text(b)"},
		},
		{
			name:     "different domains",
			input:    []string{"a.com##div:has-text(a)", "b.com##div:has-text(b)"},
			expected: []string{"a.com##div:has-text(a)", "b.com##div:has-text(b)"},
		},
		{
			name:     "single rule unchanged",
			input:    []string{"##div:has-text(Buy now)"},
			expected: []string{"##div:has-text(Buy now)"},
		},
		{
			name:     "merged rule takes first position",
			input:    []string{"##div:has-text(a)", "##.other", "##div:has-text(b)"},
			expected: []string{"##div:has-text(/a|b/)", "##.other"},
		},
		{
			name:     "chained calls untouched",
			input:    []string{"##div:has-text(a):has-text(b)", "##div:has-text(c)"},
			expected: []string{"##div:has-text(a):has-text(b)", "##div:has-text(c)"},
		},
		{
			name:     "exception rules untouched",
			input:    []string{"a.com#@#div:has-text(a)", "a.com#@#div:has-text(b)"},
			expected: []string{"a.com#@#div:has-text(a)", "a.com#@#div:has-text(b)"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, rules.CombineHasTextRules(testCase.input, changes.Nop))
		})
	}
}

func TestCombineHasTextRulesRecordsChanges(t *testing.T) {
	tracker := changes.NewTracker()
	rules.CombineHasTextRules([]string{"##p:has-text(Buy now)", "##p:has-text(Subscribe)"}, tracker)

	report := tracker.Snapshot()
	require.Len(t, report.HasTextMerged, 1)
	require.Equal(t, "##p:has-text(/Buy now|Subscribe/)", report.HasTextMerged[0].Result)
	require.Equal(t, []string{"##p:has-text(Buy now)", "##p:has-text(Subscribe)"}, report.HasTextMerged[0].Originals)
}

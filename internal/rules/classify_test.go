package rules_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/fop/internal/rules"
)

func TestClassify(t *testing.T) {
	defaultOptions := rules.ClassifierOptions{CommentCharacters: []string{"!"}}
	testCases := []struct {
		name     string
		line     string
		options  rules.ClassifierOptions
		expected rules.Kind
	}{
		{name: "blank", line: "   ", options: defaultOptions, expected: rules.KindBlank},
		{name: "comment", line: "! Title: EasyList", options: defaultOptions, expected: rules.KindComment},
		{name: "header", line: "[Adblock Plus 2.0]", options: defaultOptions, expected: rules.KindSectionHeader},
		{name: "include", line: "%include easylist:easylist_general.txt%", options: defaultOptions, expected: rules.KindDirective},
		{name: "short", line: "ab", options: defaultOptions, expected: rules.KindShort},
		{name: "adguard modifier", line: `[$path=/\/(dom|pro)/]rambler.ru##div[style^="order:"]`, options: defaultOptions, expected: rules.KindModifier},
		{name: "regex domain", line: "/^ads\\d+/##.banner", options: defaultOptions, expected: rules.KindRegexElement},
		{name: "element", line: "example.com##.ad", options: defaultOptions, expected: rules.KindElement},
		{name: "network", line: "||ads.example.com^$script", options: defaultOptions, expected: rules.KindNetwork},
		{name: "undotted domain", line: "||localhost^", options: defaultOptions, expected: rules.KindUndottedDomain},
		{name: "undotted domain ignored", line: "||localhost^", options: rules.ClassifierOptions{IgnoreDotDomains: true}, expected: rules.KindNetwork},
		{name: "ip address", line: "||192.168.0.1^", options: defaultOptions, expected: rules.KindNetwork},
		{name: "skipped scheme", line: "|http://ads", options: defaultOptions, expected: rules.KindNetwork},
		{name: "wildcard domain", line: "||ads*^", options: defaultOptions, expected: rules.KindNetwork},
		{name: "top level domain", line: "||.com^", options: defaultOptions, expected: rules.KindTopLevelDomain},
		{name: "action block needs alt sort", line: "example.com#$#body { overflow: auto }", options: defaultOptions, expected: rules.KindNetwork},
		{name: "action block with alt sort", line: "example.com#$#body { overflow: auto }", options: rules.ClassifierOptions{AltSort: true}, expected: rules.KindElement},
		{name: "localhost entry", line: "0.0.0.0 ads.example.com", options: rules.ClassifierOptions{Localhost: true}, expected: rules.KindLocalhost},
		{name: "localhost tab", line: "127.0.0.1\tads.example.com", options: rules.ClassifierOptions{Localhost: true}, expected: rules.KindLocalhost},
		{name: "localhost hash comment", line: "# hosts", options: rules.ClassifierOptions{Localhost: true}, expected: rules.KindComment},
		{name: "localhost foreign address", line: "192.168.1.1 ads.example.com", options: rules.ClassifierOptions{Localhost: true}, expected: rules.KindInvalidLocalhost},
		{name: "localhost missing host", line: "0.0.0.0 ", options: rules.ClassifierOptions{Localhost: true}, expected: rules.KindInvalidLocalhost},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, rules.Classify(testCase.line, testCase.options).Kind)
		})
	}
}

func TestClassifyElementParts(t *testing.T) {
	line := rules.Classify("  Example.com,~Sub.Example.com#@#.ad  ", rules.ClassifierOptions{})
	require.Equal(t, rules.KindElement, line.Kind)
	require.Equal(t, "Example.com,~Sub.Example.com#@#.ad", line.Text)
	require.Equal(t, "Example.com,~Sub.Example.com", line.Domains)
	require.Equal(t, "#@#", line.Separator)
	require.Equal(t, ".ad", line.Selector)
}

func TestClassifyUndottedDomain(t *testing.T) {
	line := rules.Classify("||adserver^$third-party", rules.ClassifierOptions{})
	require.Equal(t, rules.KindUndottedDomain, line.Kind)
	require.Equal(t, "adserver", line.Domain)
}

func TestParseLocalhostEntry(t *testing.T) {
	testCases := []struct {
		name            string
		text            string
		expectedValid   bool
		expectedAddress string
		expectedHost    string
	}{
		{name: "unspecified address", text: "0.0.0.0 tracker.example.org", expectedValid: true, expectedAddress: "0.0.0.0", expectedHost: "tracker.example.org"},
		{name: "loopback address", text: "127.0.0.1 ads.example.com", expectedValid: true, expectedAddress: "127.0.0.1", expectedHost: "ads.example.com"},
		{name: "empty label", text: "0.0.0.0 bad..host"},
		{name: "oversized label", text: "0.0.0.0 " + strings.Repeat("a", 64) + ".com"},
		{name: "hostname address", text: "localhost tracker.example.org"},
		{name: "foreign address", text: "10.0.0.1 tracker.example.org"},
		{name: "missing host", text: "0.0.0.0"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			address, host, valid := rules.ParseLocalhostEntry(testCase.text)
			require.Equal(t, testCase.expectedValid, valid)
			if !testCase.expectedValid {
				return
			}
			require.Equal(t, testCase.expectedAddress, address.String())
			require.Equal(t, testCase.expectedHost, host)
		})
	}
}

func TestIsTopLevelDomainOnly(t *testing.T) {
	require.True(t, rules.IsTopLevelDomainOnly("||.com^"))
	require.True(t, rules.IsTopLevelDomainOnly("|.ru"))
	require.True(t, rules.IsTopLevelDomainOnly(".net"))
	require.False(t, rules.IsTopLevelDomainOnly("||.c^"))
	require.False(t, rules.IsTopLevelDomainOnly("||example.com^"))
	require.False(t, rules.IsTopLevelDomainOnly("||.co.uk^"))
	require.False(t, rules.IsTopLevelDomainOnly("||.COM^"))
}

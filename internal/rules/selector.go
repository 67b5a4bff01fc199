package rules

import (
	"strings"
)

const (
	selectorBoundary   = "@"
	scriptletPrefix    = "+js("
	scriptletSeparator = ", "
)

// ElementTidy canonicalizes a cosmetic rule and returns domains + separator + selector.
// Domain lists with more than one entry are validated, sorted and deduplicated.
// Extended-syntax selectors pass through unchanged apart from scriptlet argument spacing.
func (tidier *Tidier) ElementTidy(domains string, separator string, selector string) string {
	domains = strings.ToLower(domains)
	if strings.Contains(domains, ",") {
		domains = tidier.tidyElementDomains(domains, separator, selector)
	}
	if IsExtendedSelector(separator, selector) {
		return domains + separator + normalizeScriptletArguments(selector)
	}
	return domains + separator + CanonicalSelector(selector)
}

func (tidier *Tidier) tidyElementDomains(domains string, separator string, selector string) string {
	tokens := strings.Split(domains, ",")
	validTokens := make([]string, 0, len(tokens))
	var invalidTokens []string
	for _, token := range tokens {
		if IsValidDomainToken(token) {
			validTokens = append(validTokens, token)
			continue
		}
		invalidTokens = append(invalidTokens, token)
	}
	if len(invalidTokens) > 0 {
		tidier.warn(invalidDomainsWarningFormat, strings.Join(invalidTokens, ", "), domains, separator, selector)
	}
	return strings.Join(uniqueSortedDomains(validTokens), ",")
}

// IsExtendedSelector reports procedural or scriptlet selectors that must not be rewritten.
func IsExtendedSelector(separator string, selector string) bool {
	if _, extension := extensionSeparators[separator]; extension {
		return true
	}
	for _, prefix := range extendedSelectorPrefixes {
		if strings.HasPrefix(selector, prefix) {
			return true
		}
	}
	for _, marker := range extendedSelectorMarkers {
		if strings.Contains(selector, marker) {
			return true
		}
	}
	return extendedPseudoPattern.MatchString(selector)
}

// normalizeScriptletArguments joins unquoted +js() arguments with ", ".
func normalizeScriptletArguments(selector string) string {
	if !strings.HasPrefix(selector, scriptletPrefix) || strings.ContainsAny(selector, `"'`) {
		return selector
	}
	closing := strings.LastIndex(selector, ")")
	if closing < len(scriptletPrefix) {
		return selector
	}
	arguments := strings.Split(selector[len(scriptletPrefix):closing], ",")
	for index, argument := range arguments {
		arguments[index] = strings.TrimSpace(argument)
	}
	return scriptletPrefix + strings.Join(arguments, scriptletSeparator) + selector[closing:]
}

// selectorSnapshot is a bounded selector plus its string-free and strings-only views.
type selectorSnapshot struct {
	text     string
	stripped string
	strings  string
}

func newSelectorSnapshot(selector string) selectorSnapshot {
	bounded := selectorBoundary + selector + selectorBoundary
	var strippedBuilder, stringsBuilder strings.Builder
	cursor := 0
	for _, span := range quotedStringPattern.FindAllStringIndex(bounded, -1) {
		if bounded[span[0]] == '\\' {
			continue
		}
		strippedBuilder.WriteString(bounded[cursor:span[0]])
		stringsBuilder.WriteString(bounded[span[0]:span[1]])
		cursor = span[1]
	}
	strippedBuilder.WriteString(bounded[cursor:])
	return selectorSnapshot{text: bounded, stripped: strippedBuilder.String(), strings: stringsBuilder.String()}
}

// outsideStrings reports whether a match can be rewritten without touching quoted text.
func (snapshot selectorSnapshot) outsideStrings(match string) bool {
	return !strings.Contains(snapshot.strings, match) && strings.Contains(snapshot.stripped, match)
}

// CanonicalSelector normalizes combinator spacing, drops redundant universal
// selectors and lowercases pseudo-classes, never changing quoted strings.
func CanonicalSelector(selector string) string {
	snapshot := newSelectorSnapshot(selector)
	var edits editList
	collectCombinatorEdits(snapshot, &edits)
	collectUniversalTagEdits(snapshot, &edits)
	collectPseudoClassEdits(snapshot, &edits)
	rewritten := edits.apply(snapshot.text)
	return rewritten[len(selectorBoundary) : len(rewritten)-len(selectorBoundary)]
}

func collectCombinatorEdits(snapshot selectorSnapshot, edits *editList) {
	text := snapshot.text
	lastIndex := len(text) - len(selectorBoundary)
	offset := 0
	for offset < len(text) {
		location := combinatorPattern.FindStringSubmatchIndex(text[offset:])
		if location == nil {
			return
		}
		prefixStart, prefixEnd := offset+location[2], offset+location[3]
		combinatorStart, combinatorEnd := offset+location[4], offset+location[5]
		suffixStart, suffixEnd := offset+location[6], offset+location[7]
		offset = suffixStart

		prefix := text[prefixStart:prefixEnd]
		combinator := text[combinatorStart:combinatorEnd]
		suffix := text[suffixStart:suffixEnd]
		whitespace := combinator == " " || combinator == "\t"
		leading := prefixStart == 0
		switch {
		case suffixStart == lastIndex:
			continue
		case leading && whitespace:
			continue
		case prefix == `\` || prefix == `\'` || prefix == `\"`:
			continue
		case combinator == "~" && suffix == "=":
			continue
		case !snapshot.outsideStrings(text[prefixStart:suffixEnd]):
			continue
		}

		// A leading combinator starts a relative selector, like one after "(".
		replacement := " " + combinator + " "
		switch {
		case whitespace:
			replacement = " "
			if prefix == "(" {
				replacement = ""
			}
		case prefix == "(" || leading:
			replacement = combinator + " "
		}
		if text[prefixEnd:suffixStart] != replacement {
			edits.add(prefixEnd, suffixStart, replacement)
		}
	}
}

var universalTagExceptions = []string{"not(", "has(", "-abp-contains", "-abp-has"}

func collectUniversalTagEdits(snapshot selectorSnapshot, edits *editList) {
	text := snapshot.text
	for _, location := range universalTagPattern.FindAllStringSubmatchIndex(text, -1) {
		boundary := text[location[6]:location[7]]
		if boundary == ":" && hasAnyPrefix(text[location[7]:], universalTagExceptions) {
			continue
		}
		if !snapshot.outsideStrings(text[location[0]:location[1]]) {
			continue
		}
		edits.add(location[4], location[5], "")
	}
}

func collectPseudoClassEdits(snapshot selectorSnapshot, edits *editList) {
	if unicodeSelectorPattern.MatchString(snapshot.stripped) {
		return
	}
	text := snapshot.text
	for _, location := range pseudoClassPattern.FindAllStringIndex(text, -1) {
		match := text[location[0]:location[1]]
		if !snapshot.outsideStrings(match) {
			continue
		}
		edits.add(location[0], location[1], strings.ToLower(match))
	}
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

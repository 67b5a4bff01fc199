package rules

import (
	"regexp"
	"strings"

	"github.com/temirov/fop/internal/changes"
)

const (
	// ElementDomainSeparator joins cosmetic-rule domains.
	ElementDomainSeparator = ","
	// FilterDomainSeparator joins domain= values of network rules.
	FilterDomainSeparator = "|"
)

// domainScope is the domain fragment of a rule located by a domain pattern.
type domainScope struct {
	// span is the whole pattern match, e.g. "a.com,b.com##" or "$script,domain=a.com".
	span    string
	domains string
}

func locateDomainScope(rule string, domainPattern *regexp.Regexp) (domainScope, bool) {
	match := domainPattern.FindStringSubmatch(rule)
	if match == nil || len(match) < 2 || match[1] == "" {
		return domainScope{}, false
	}
	return domainScope{span: match[0], domains: match[1]}, true
}

// CombineFilters merges adjacent rules that differ only by their domain list.
// Rules must already be sorted so that domain-only variants are adjacent; a run
// of N variants collapses into one rule.
func CombineFilters(rules []string, domainPattern *regexp.Regexp, separator string, changeSink changes.Sink) []string {
	if len(rules) <= 1 {
		return rules
	}
	if changeSink == nil {
		changeSink = changes.Nop
	}

	combined := make([]string, 0, len(rules))
	carry := rules[0]
	for _, next := range rules[1:] {
		merged, ok := combinePair(carry, next, domainPattern, separator)
		if !ok {
			combined = append(combined, carry)
			carry = next
			continue
		}
		changeSink.DomainsCombined([]string{carry, next}, merged)
		carry = merged
	}
	return append(combined, carry)
}

// combinePair returns current with its domains unioned with next's when the two
// rules are identical apart from the domain list and scope the same direction.
func combinePair(current string, next string, domainPattern *regexp.Regexp, separator string) (string, bool) {
	currentScope, currentFound := locateDomainScope(current, domainPattern)
	nextScope, nextFound := locateDomainScope(next, domainPattern)
	if !currentFound || !nextFound {
		return "", false
	}
	if strings.ReplaceAll(currentScope.span, currentScope.domains, nextScope.domains) != nextScope.span {
		return "", false
	}
	if removeFirst(current, currentScope.span) != removeFirst(next, nextScope.span) {
		return "", false
	}

	currentDomains := strings.Split(currentScope.domains, separator)
	nextDomains := strings.Split(nextScope.domains, separator)
	currentDirection := directionOf(currentDomains)
	if currentDirection == directionMixed || currentDirection != directionOf(nextDomains) {
		return "", false
	}

	mergedDomains := uniqueSortedDomains(append(currentDomains, nextDomains...))
	mergedSpan := strings.ReplaceAll(currentScope.span, currentScope.domains, strings.Join(mergedDomains, separator))
	return strings.Replace(current, currentScope.span, mergedSpan, 1), true
}

func removeFirst(text string, fragment string) string {
	return strings.Replace(text, fragment, "", 1)
}

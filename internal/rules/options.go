package rules

import (
	"sort"
	"strings"
)

const (
	allowlistPrefix     = "@@"
	optionSeparator     = "$"
	domainOptionPrefix  = "domain="
	fromOptionPrefix    = "from="
	regexOptionMarker   = "=/"
	networkDomainJoiner = "|"
	wildcardCharacter   = '*'
)

// FilterTidy canonicalizes a network rule: option names are lowercased and
// sorted, domain= fragments are merged into one sorted list placed last, and
// redundant wildcards are removed from the pattern.
func (tidier *Tidier) FilterTidy(filter string) string {
	lastSeparator := strings.LastIndex(filter, optionSeparator)
	if lastSeparator >= 0 && strings.Contains(filter[lastSeparator:], regexOptionMarker) {
		return filter
	}
	if lastSeparator < 0 {
		return RemoveUnnecessaryWildcards(collapseNetworkWhitespace(filter))
	}
	match := optionPattern.FindStringSubmatch(filter)
	if match == nil || strings.HasSuffix(match[1], `\`) {
		return RemoveUnnecessaryWildcards(collapseNetworkWhitespace(filter))
	}

	pattern := RemoveUnnecessaryWildcards(collapseNetworkWhitespace(match[1]))
	options := strings.Split(match[2], ",")
	for index, option := range options {
		options[index] = normalizeOptionName(option)
	}
	if tidier.ConvertUBOOptions {
		options = ConvertUBOOptions(options)
	}

	var domains []string
	optionSet := make(map[string]struct{}, len(options))
	remaining := make([]string, 0, len(options))
	for _, option := range options {
		if strings.HasPrefix(option, domainOptionPrefix) {
			domains = append(domains, strings.Split(option[len(domainOptionPrefix):], networkDomainJoiner)...)
			continue
		}
		if _, seen := optionSet[option]; seen {
			continue
		}
		optionSet[option] = struct{}{}
		if !IsKnownOption(option) {
			tidier.warn(unknownOptionWarningFormat, option, filter)
		}
		remaining = append(remaining, option)
	}
	sort.SliceStable(remaining, func(left, right int) bool {
		return compareDomains(remaining[left], remaining[right]) < 0
	})

	if mergedDomains := uniqueSortedDomains(domains); len(mergedDomains) > 0 {
		remaining = append(remaining, domainOptionPrefix+strings.Join(mergedDomains, networkDomainJoiner))
	}
	return pattern + optionSeparator + strings.Join(remaining, ",")
}

// normalizeOptionName lowercases the option name and turns underscores into
// dashes, leaving any value untouched.
func normalizeOptionName(option string) string {
	name, value, hasValue := strings.Cut(option, "=")
	name = strings.ReplaceAll(strings.ToLower(name), "_", "-")
	if !hasValue {
		return name
	}
	return name + "=" + value
}

// ConvertUBOOptions maps uBlock Origin option aliases to Adblock Plus names.
func ConvertUBOOptions(options []string) []string {
	converted := make([]string, len(options))
	for index, option := range options {
		switch {
		case strings.HasPrefix(option, fromOptionPrefix):
			converted[index] = domainOptionPrefix + option[len(fromOptionPrefix):]
		default:
			if replacement, alias := uboOptionConversions[option]; alias {
				converted[index] = replacement
				continue
			}
			converted[index] = option
		}
	}
	return converted
}

// IsKnownOption reports whether the option, ignoring a leading "~", is recognised.
func IsKnownOption(option string) bool {
	name := strings.TrimPrefix(option, exclusionMarker)
	if _, known := knownOptions[name]; known {
		return true
	}
	return hasAnyPrefix(name, knownOptionPrefixes)
}

// RemoveUnnecessaryWildcards strips leading and trailing "*" that do not change
// what a network pattern matches.
func RemoveUnnecessaryWildcards(filter string) string {
	pattern, allowlist := strings.CutPrefix(filter, allowlistPrefix)
	originalLength := len(pattern)
	for len(pattern) > 1 && pattern[0] == wildcardCharacter && pattern[1] != '|' && pattern[1] != '!' {
		pattern = pattern[1:]
	}
	for len(pattern) > 1 && pattern[len(pattern)-1] == wildcardCharacter &&
		pattern[len(pattern)-2] != '|' && pattern[len(pattern)-2] != ' ' {
		pattern = pattern[:len(pattern)-1]
	}
	if len(pattern) != originalLength && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		pattern += string(wildcardCharacter)
	}
	if pattern == string(wildcardCharacter) {
		pattern = ""
	}
	if allowlist {
		return allowlistPrefix + pattern
	}
	return pattern
}

// collapseNetworkWhitespace removes stray whitespace from plain network patterns.
// Regex patterns and lines carrying a cosmetic separator keep their spacing.
func collapseNetworkWhitespace(filter string) string {
	pattern := strings.TrimPrefix(filter, allowlistPrefix)
	if strings.HasPrefix(pattern, "/") || cosmeticMarkerPattern.MatchString(filter) {
		return filter
	}
	if !strings.ContainsAny(filter, " \t") {
		return filter
	}
	return strings.Join(strings.Fields(filter), "")
}

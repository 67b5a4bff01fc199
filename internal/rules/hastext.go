package rules

import (
	"strings"

	"github.com/temirov/fop/internal/changes"
)

const (
	hidingSeparator = "##"
	regexDelimiter  = "/"
	alternation     = "|"
)

// hasTextRule is a ## rule ending in a single text-matching pseudo-class call.
type hasTextRule struct {
	domains  string
	base     string
	pseudo   string
	argument string
}

type hasTextKey struct {
	domains string
	base    string
	pseudo  string
}

func (rule hasTextRule) key() hasTextKey {
	return hasTextKey{domains: rule.domains, base: rule.base, pseudo: rule.pseudo}
}

func (rule hasTextRule) render(argument string) string {
	return rule.domains + hidingSeparator + rule.base + ":" + rule.pseudo + "(" + argument + ")"
}

func parseHasTextRule(line string) (hasTextRule, bool) {
	if strings.HasPrefix(line, "!") || strings.HasPrefix(line, "[") {
		return hasTextRule{}, false
	}
	domains, selector, found := strings.Cut(line, hidingSeparator)
	if !found {
		return hasTextRule{}, false
	}
	match := hasTextPattern.FindStringSubmatch(selector)
	if match == nil || !balancedParentheses(match[3]) {
		return hasTextRule{}, false
	}
	return hasTextRule{domains: domains, base: match[1], pseudo: match[2], argument: match[3]}, true
}

// balancedParentheses rejects arguments that span more than one call, e.g. "a):has-text(b".
func balancedParentheses(argument string) bool {
	depth := 0
	for index := 0; index < len(argument); index++ {
		switch argument[index] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

type hasTextGroup struct {
	slot      int
	first     hasTextRule
	originals []string
	arguments []string
}

// CombineHasTextRules merges ## rules sharing domains, base selector and
// pseudo-class into one rule whose argument is a regex alternation. A merged
// rule takes the position of the first rule of its group.
func CombineHasTextRules(lines []string, changeSink changes.Sink) []string {
	if changeSink == nil {
		changeSink = changes.Nop
	}

	output := make([]string, 0, len(lines))
	groups := make(map[hasTextKey]*hasTextGroup)
	var ordered []*hasTextGroup
	for _, line := range lines {
		rule, parsed := parseHasTextRule(line)
		if !parsed {
			output = append(output, line)
			continue
		}
		group, exists := groups[rule.key()]
		if !exists {
			group = &hasTextGroup{slot: len(output), first: rule}
			groups[rule.key()] = group
			ordered = append(ordered, group)
			output = append(output, line)
		}
		group.originals = append(group.originals, line)
		group.arguments = append(group.arguments, rule.argument)
	}

	for _, group := range ordered {
		if len(group.arguments) < 2 {
			continue
		}
		merged := group.first.render(mergeHasTextArguments(group.arguments))
		output[group.slot] = merged
		changeSink.HasTextMerged(group.originals, merged)
	}
	return output
}

func mergeHasTextArguments(arguments []string) string {
	fragments := make([]string, len(arguments))
	for index, argument := range arguments {
		if isRegexArgument(argument) {
			fragments[index] = argument[1 : len(argument)-1]
			continue
		}
		fragments[index] = escapeRegexCharacters(argument)
	}
	return regexDelimiter + strings.Join(fragments, alternation) + regexDelimiter
}

func isRegexArgument(argument string) bool {
	return len(argument) >= 2 && strings.HasPrefix(argument, regexDelimiter) && strings.HasSuffix(argument, regexDelimiter)
}

const regexSpecialCharacters = `\.+*?()[]{}|^$`

func escapeRegexCharacters(text string) string {
	var builder strings.Builder
	builder.Grow(len(text) * 2)
	for _, character := range text {
		if strings.ContainsRune(regexSpecialCharacters, character) {
			builder.WriteByte('\\')
		}
		builder.WriteRune(character)
	}
	return builder.String()
}

// Package typos detects and repairs common punctuation mistakes in filter rules.
package typos

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	minimumCheckedLength = 4
	maximumFixIterations = 10
	checkedLineBuffer    = 1024 * 1024
	typoReadErrorFormat  = "read rules: %w"
)

// Typo is one detected mistake and the corrected line.
type Typo struct {
	Fixed       string
	Description string
}

var (
	cosmeticSeparatorPattern = regexp.MustCompile(`#[@?$%]?#`)
	extraHashPattern         = regexp.MustCompile(`^([^#]*)(###+)([.#\[*])`)
	singleHashPattern        = regexp.MustCompile(`^([^#/|$@!\s]+)#([.#\[*][a-zA-Z.\[]|[a-zA-Z])`)
	doubleDotPattern         = regexp.MustCompile(`(##)\.\.([a-zA-Z])`)
	repeatedCommaPattern     = regexp.MustCompile(`,,+`)
	trailingCommaPattern     = regexp.MustCompile(`,+(#[@?$%]?#)`)
	leadingCommaPattern      = regexp.MustCompile(`^,+([a-zA-Z])`)
	spacedCommaPattern       = regexp.MustCompile(`\s*,\s*`)
	domainListPattern        = regexp.MustCompile(`^[a-zA-Z0-9.~*,|\-]+$`)

	repeatedDollarPattern = regexp.MustCompile(`\$\$+domain=`)
	missingDollarPattern  = regexp.MustCompile(`(\^|\.(?:js|css|png|jpg|jpeg|gif|svg|webp|php|html|json|mp4|xml))domain=`)
	dottedDomainPattern   = regexp.MustCompile(`^~?[a-zA-Z0-9\-]+(?:\.[a-zA-Z0-9\-]+)+$`)
)

const (
	domainOptionPrefix = "domain="
	allowlistPrefix    = "@@"
)

// check is one typo rule; apply reports the corrected line and whether the rule matched.
type check struct {
	description string
	apply       func(line string) (string, bool)
}

var cosmeticChecks = []check{
	{description: "Wrong domain separator (| → ,)", apply: fixPipeDomainSeparator},
	{description: "", apply: fixExtraHash},
	{description: "Single # (# → ##)", apply: fixSingleHash},
	{description: "Double dot (.. → .)", apply: replaceWith(doubleDotPattern, "${1}.${2}")},
	{description: "Double comma (,, → ,)", apply: fixRepeatedComma},
	{description: "Trailing comma before ##", apply: replaceWith(trailingCommaPattern, "${1}")},
	{description: "Leading comma removed", apply: replaceWith(leadingCommaPattern, "${1}")},
	{description: "Space in domain list removed", apply: fixSpacedComma},
}

var networkChecks = []check{
	{description: "Repeated $ before domain= ($$ → $)", apply: replaceWith(repeatedDollarPattern, "$$"+domainOptionPrefix)},
	{description: "Missing $ before domain=", apply: replaceWith(missingDollarPattern, "${1}$$"+domainOptionPrefix)},
	{description: "Comma in domain= list (, → |)", apply: fixDomainOptionCommas},
}

// Detect returns the first typo found in the line by priority, or false.
func Detect(line string) (Typo, bool) {
	if len(line) < minimumCheckedLength || strings.HasPrefix(line, "!") ||
		strings.HasPrefix(line, "[") || strings.HasPrefix(line, "%") {
		return Typo{}, false
	}

	var checks []check
	switch {
	case isNetworkRule(line):
		checks = networkChecks
	case strings.Contains(line, "#"):
		checks = cosmeticChecks
	default:
		return Typo{}, false
	}

	for _, candidate := range checks {
		fixed, changed := candidate.apply(line)
		if !changed || fixed == line {
			continue
		}
		description := candidate.description
		if description == "" {
			description = extraHashDescription(line)
		}
		return Typo{Fixed: fixed, Description: description}, true
	}
	return Typo{}, false
}

// FixAll applies Detect until the line stops changing or the iteration cap is
// reached, returning the final line and the descriptions of every fix.
func FixAll(line string) (string, []string) {
	current := line
	var fixes []string
	for iteration := 0; iteration < maximumFixIterations; iteration++ {
		typo, found := Detect(current)
		if !found {
			break
		}
		fixes = append(fixes, typo.Description)
		current = typo.Fixed
	}
	return current, fixes
}

func isNetworkRule(line string) bool {
	return strings.HasPrefix(line, "|") || strings.HasPrefix(line, allowlistPrefix) ||
		strings.Contains(line, "$"+domainOptionPrefix) || strings.Contains(line, ","+domainOptionPrefix)
}

func replaceWith(pattern *regexp.Regexp, replacement string) func(string) (string, bool) {
	return func(line string) (string, bool) {
		if !pattern.MatchString(line) {
			return line, false
		}
		return pattern.ReplaceAllString(line, replacement), true
	}
}

// domainSegment splits a cosmetic rule before its first #-run.
func domainSegment(line string) (string, string) {
	hashIndex := strings.Index(line, "#")
	if hashIndex < 0 {
		return line, ""
	}
	return line[:hashIndex], line[hashIndex:]
}

func fixPipeDomainSeparator(line string) (string, bool) {
	if !cosmeticSeparatorPattern.MatchString(line) {
		return line, false
	}
	domains, rest := domainSegment(line)
	if !strings.Contains(domains, "|") || !domainListPattern.MatchString(domains) {
		return line, false
	}
	return strings.ReplaceAll(domains, "|", ",") + rest, true
}

func fixExtraHash(line string) (string, bool) {
	if !extraHashPattern.MatchString(line) {
		return line, false
	}
	return extraHashPattern.ReplaceAllString(line, "${1}##${3}"), true
}

func extraHashDescription(line string) string {
	match := extraHashPattern.FindStringSubmatch(line)
	if match == nil {
		return "Extra #"
	}
	return fmt.Sprintf("Extra # (%s → ##)", match[2])
}

func fixSingleHash(line string) (string, bool) {
	if strings.Contains(line, "##") {
		return line, false
	}
	match := singleHashPattern.FindStringSubmatchIndex(line)
	if match == nil {
		return line, false
	}
	domains := line[match[2]:match[3]]
	selectorStart := line[match[4]:match[5]]
	isTagSelector := len(selectorStart) == 1
	if isTagSelector && !strings.Contains(domains, ".") {
		return line, false
	}
	return domains + "##" + line[match[4]:], true
}

func fixRepeatedComma(line string) (string, bool) {
	domains, rest := domainSegment(line)
	if !repeatedCommaPattern.MatchString(domains) {
		return line, false
	}
	return repeatedCommaPattern.ReplaceAllString(domains, ",") + rest, true
}

func fixSpacedComma(line string) (string, bool) {
	domains, rest := domainSegment(line)
	if !strings.Contains(domains, ",") || !strings.ContainsAny(domains, " \t") {
		return line, false
	}
	return spacedCommaPattern.ReplaceAllString(domains, ",") + rest, true
}

// fixDomainOptionCommas rewrites "domain=a.com,b.com" to "domain=a.com|b.com"
// when the token after each comma is itself a dotted domain.
func fixDomainOptionCommas(line string) (string, bool) {
	optionIndex := strings.Index(line, domainOptionPrefix)
	if optionIndex < 0 {
		return line, false
	}
	valueStart := optionIndex + len(domainOptionPrefix)
	value := line[valueStart:]

	var builder strings.Builder
	changed := false
	cursor := 0
	for cursor < len(value) {
		tokenEnd := strings.IndexAny(value[cursor:], ",|$")
		if tokenEnd < 0 {
			builder.WriteString(value[cursor:])
			cursor = len(value)
			break
		}
		tokenEnd += cursor
		token := value[cursor:tokenEnd]
		builder.WriteString(token)
		delimiter := value[tokenEnd]
		if delimiter == '$' {
			break
		}
		nextEnd := strings.IndexAny(value[tokenEnd+1:], ",|$")
		if nextEnd < 0 {
			nextEnd = len(value)
		} else {
			nextEnd += tokenEnd + 1
		}
		nextToken := value[tokenEnd+1 : nextEnd]
		if delimiter == ',' {
			if !dottedDomainPattern.MatchString(token) || !dottedDomainPattern.MatchString(nextToken) {
				break
			}
			delimiter = '|'
			changed = true
		}
		builder.WriteByte(delimiter)
		cursor = tokenEnd + 1
	}
	if !changed {
		return line, false
	}
	return line[:valueStart] + builder.String() + value[len(builder.String()):], true
}

// Finding is a typo found while checking a file.
type Finding struct {
	Line   int      `json:"line"`
	Before string   `json:"before"`
	After  string   `json:"after"`
	Fixes  []string `json:"fixes"`
}

// CheckReader reports every line of the reader that FixAll would change.
func CheckReader(reader io.Reader) ([]Finding, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), checkedLineBuffer)
	var findings []Finding
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		fixed, fixes := FixAll(line)
		if len(fixes) == 0 {
			continue
		}
		findings = append(findings, Finding{Line: lineNumber, Before: line, After: fixed, Fixes: fixes})
	}
	if scanError := scanner.Err(); scanError != nil {
		return findings, fmt.Errorf(typoReadErrorFormat, scanError)
	}
	return findings, nil
}

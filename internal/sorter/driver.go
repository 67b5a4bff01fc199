// Package sorter tidies, deduplicates, sorts and merges the sections of a filter list.
package sorter

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/temirov/fop/internal/changes"
	"github.com/temirov/fop/internal/headers"
	"github.com/temirov/fop/internal/rules"
	"github.com/temirov/fop/internal/typos"
	"github.com/temirov/fop/internal/types"
	"github.com/temirov/fop/internal/warnings"
)

const (
	headerLineLimit        = 10
	maximumLineLength      = 4 * 1024 * 1024
	initialScannerCapacity = 64 * 1024
	typoFixedWarningFormat = "Fixed typo: %s → %s (%s)"
	readLinesErrorFormat   = "read lines: %w"
	writeLinesErrorFormat  = "write lines: %w"
	typoFixSeparator       = ", "
	maximumCosmeticPasses  = 8
)

// ruleFamily decides how a buffered rule is sorted and merged.
type ruleFamily int

const (
	familyBlocking ruleFamily = iota
	familyCosmetic
	familyLocalhost
)

type bufferedRule struct {
	text   string
	family ruleFamily
	host   string
}

type sectionState int

const (
	stateIdle sectionState = iota
	stateBuffering
)

// section buffers the rules between two boundary lines.
type section struct {
	state sectionState
	rules []bufferedRule
}

func (current *section) append(rule bufferedRule) {
	current.state = stateBuffering
	current.rules = append(current.rules, rule)
}

func (current *section) reset() {
	current.state = stateIdle
	current.rules = current.rules[:0]
}

// Driver runs the section state machine over one filter list at a time.
// A Driver holds no per-file state and may be shared by concurrent workers.
type Driver struct {
	options           types.SortOptions
	classifierOptions rules.ClassifierOptions
	tidier            *rules.Tidier
	warnings          warnings.Sink
	changes           changes.Sink
	now               func() time.Time
}

// NewDriver creates a driver reporting to the given sinks. Nil sinks discard.
func NewDriver(options types.SortOptions, warningSink warnings.Sink, changeSink changes.Sink) *Driver {
	if warningSink == nil {
		warningSink = warnings.Discard
	}
	if changeSink == nil {
		changeSink = changes.Nop
	}
	commentCharacters := options.CommentCharacters
	if len(commentCharacters) == 0 {
		commentCharacters = []string{types.DefaultCommentCharacter}
	}
	return &Driver{
		options: options,
		classifierOptions: rules.ClassifierOptions{
			CommentCharacters: commentCharacters,
			Localhost:         options.Localhost,
			AltSort:           options.AltSort,
			IgnoreDotDomains:  options.IgnoreDotDomains,
		},
		tidier:   rules.NewTidier(options.ConvertUBOOptions, warningSink),
		warnings: warningSink,
		changes:  changeSink,
		now:      time.Now,
	}
}

// WithClock returns a copy of the driver using now for header timestamps.
func (driver *Driver) WithClock(now func() time.Time) *Driver {
	copied := *driver
	copied.now = now
	return &copied
}

// Options returns the options the driver was built with.
func (driver *Driver) Options() types.SortOptions {
	return driver.options
}

// Sort reads a filter list and writes its tidied form, terminating every line with lineEnding.
func (driver *Driver) Sort(input io.Reader, output io.Writer, lineEnding string) error {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, initialScannerCapacity), maximumLineLength)
	writer := &lineWriter{writer: bufio.NewWriter(output), lineEnding: lineEnding}

	current := &section{}
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		rawLine := scanner.Text()
		if driver.options.UpdateTimestamp && lineNumber <= headerLineLimit {
			rawLine = driver.updateHeader(rawLine)
		}
		driver.processLine(rules.Classify(rawLine, driver.classifierOptions), current, writer)
	}
	if scanError := scanner.Err(); scanError != nil {
		return fmt.Errorf(readLinesErrorFormat, scanError)
	}
	driver.flush(current, writer)
	if flushError := writer.finish(); flushError != nil {
		return fmt.Errorf(writeLinesErrorFormat, flushError)
	}
	return nil
}

// SortLines is Sort for an in-memory list.
func (driver *Driver) SortLines(lines []string) []string {
	collector := &lineCollector{}
	current := &section{}
	for _, rawLine := range lines {
		driver.processLine(rules.Classify(rawLine, driver.classifierOptions), current, collector)
	}
	driver.flush(current, collector)
	return collector.lines
}

func (driver *Driver) updateHeader(rawLine string) string {
	trimmed := strings.TrimSpace(rawLine)
	if !strings.HasPrefix(trimmed, "!") && !strings.HasPrefix(trimmed, "#") {
		return rawLine
	}
	if updated, isHeader := headers.UpdateHeaderLine(trimmed, driver.now()); isHeader {
		return updated
	}
	return rawLine
}

func (driver *Driver) processLine(line rules.Line, current *section, writer lineSink) {
	switch line.Kind {
	case rules.KindBlank:
		if !driver.options.KeepEmptyLines {
			return
		}
		driver.flush(current, writer)
		writer.writeLine("")
	case rules.KindComment, rules.KindSectionHeader, rules.KindDirective:
		driver.flush(current, writer)
		writer.writeLine(line.Text)
	case rules.KindShort:
		// too short to be a rule
	case rules.KindInvalidLocalhost:
		driver.warn(rules.InvalidLocalhostWarningFormat, line.Text)
	case rules.KindUndottedDomain:
		driver.warn(rules.UndottedDomainWarningFormat, line.Text, line.Domain)
	case rules.KindTopLevelDomain:
		driver.warn(rules.TopLevelDomainWarningFormat, line.Text)
	case rules.KindLocalhost:
		current.append(bufferedRule{text: line.Text, family: familyLocalhost, host: strings.ToLower(line.Host)})
	case rules.KindModifier, rules.KindRegexElement:
		current.append(bufferedRule{text: line.Text, family: familyCosmetic})
	case rules.KindElement, rules.KindNetwork:
		driver.appendContentLine(line, current, writer)
	}
}

func (driver *Driver) warn(format string, arguments ...any) {
	driver.warnings.Emit(fmt.Sprintf(format, arguments...))
}

func (driver *Driver) tidyRule(line rules.Line) bufferedRule {
	if line.Kind == rules.KindElement {
		return bufferedRule{text: driver.tidier.ElementTidy(line.Domains, line.Separator, line.Selector), family: familyCosmetic}
	}
	return bufferedRule{text: driver.tidier.FilterTidy(line.Text), family: familyBlocking}
}

// appendContentLine tidies a rule and buffers it. With typo fixing enabled a repaired
// rule is classified again and handled by the kind it now has.
func (driver *Driver) appendContentLine(line rules.Line, current *section, writer lineSink) {
	tidied := driver.tidyRule(line)
	if !driver.options.FixTypos {
		current.append(tidied)
		return
	}
	fixed, fixes := typos.FixAll(tidied.text)
	if len(fixes) == 0 {
		current.append(tidied)
		return
	}
	driver.warn(typoFixedWarningFormat, tidied.text, fixed, strings.Join(fixes, typoFixSeparator))
	driver.changes.TypoFixed(tidied.text, fixed, fixes)
	driver.appendRepairedLine(rules.Classify(fixed, driver.classifierOptions), tidied.family, current, writer)
}

// appendRepairedLine buffers a typo-fixed rule. Rules that became invalid are dropped
// with the usual warning; a repaired rule never ends the section.
func (driver *Driver) appendRepairedLine(repaired rules.Line, family ruleFamily, current *section, writer lineSink) {
	switch repaired.Kind {
	case rules.KindElement, rules.KindNetwork:
		current.append(driver.tidyRule(repaired))
	case rules.KindBlank, rules.KindComment, rules.KindSectionHeader, rules.KindDirective:
		current.append(bufferedRule{text: repaired.Text, family: family})
	default:
		driver.processLine(repaired, current, writer)
	}
}

// flush dedupes, sorts and merges the buffered section and writes it out.
// Blocking rules are written before cosmetic rules.
func (driver *Driver) flush(current *section, writer lineSink) {
	if current.state == stateIdle || len(current.rules) == 0 {
		current.reset()
		return
	}
	var blocking, cosmetic, hosts []bufferedRule
	for _, rule := range driver.deduplicate(current.rules) {
		switch rule.family {
		case familyBlocking:
			blocking = append(blocking, rule)
		case familyCosmetic:
			cosmetic = append(cosmetic, rule)
		case familyLocalhost:
			hosts = append(hosts, rule)
		}
	}
	current.reset()

	if len(blocking) > 0 {
		ordered := driver.sortRules(blocking, func(rule bufferedRule) string { return rule.text }, true)
		writer.writeLines(rules.CombineFilters(ordered, rules.FilterDomainPattern, rules.FilterDomainSeparator, driver.changes))
	}
	if len(cosmetic) > 0 {
		keyPattern := rules.StandardElementDomainPattern
		if driver.options.AltSort {
			keyPattern = rules.ElementDomainPattern
		}
		selectorKey := func(rule bufferedRule) string {
			return keyPattern.ReplaceAllLiteralString(rule.text, "")
		}
		writer.writeLines(driver.mergeCosmetic(driver.sortRules(cosmetic, selectorKey, false), selectorKey))
	}
	if len(hosts) > 0 {
		writer.writeLines(driver.sortRules(hosts, func(rule bufferedRule) string { return rule.host }, false))
	}
}

// mergeCosmetic combines domains and has-text arguments of sorted cosmetic rules and
// sorts the merged rules again until nothing changes, so the result is its own sorted form.
func (driver *Driver) mergeCosmetic(ordered []string, selectorKey func(bufferedRule) string) []string {
	current := ordered
	for pass := 0; pass < maximumCosmeticPasses; pass++ {
		combined := rules.CombineFilters(current, rules.ElementDomainPattern, rules.ElementDomainSeparator, driver.changes)
		merged := rules.CombineHasTextRules(combined, driver.changes)
		buffered := make([]bufferedRule, len(merged))
		for index, text := range merged {
			buffered[index] = bufferedRule{text: text, family: familyCosmetic}
		}
		resorted := driver.sortRules(buffered, selectorKey, false)
		if slices.Equal(resorted, current) {
			return current
		}
		current = resorted
	}
	return current
}

// deduplicate keeps the first occurrence of every rule text.
func (driver *Driver) deduplicate(buffered []bufferedRule) []bufferedRule {
	seen := make(map[string]struct{}, len(buffered))
	unique := make([]bufferedRule, 0, len(buffered))
	for _, rule := range buffered {
		if _, duplicate := seen[rule.text]; duplicate {
			if driver.changes.Enabled() {
				driver.changes.DuplicateRemoved(rule.text)
			}
			continue
		}
		seen[rule.text] = struct{}{}
		unique = append(unique, rule)
	}
	return unique
}

// sortRules returns rule texts ordered by key; the order is kept when sorting is disabled.
func (driver *Driver) sortRules(buffered []bufferedRule, key func(bufferedRule) string, foldCase bool) []string {
	type keyedRule struct {
		key  string
		text string
	}
	keyed := make([]keyedRule, len(buffered))
	for index, rule := range buffered {
		keyed[index] = keyedRule{key: key(rule), text: rule.text}
	}
	if !driver.options.NoSort {
		sort.SliceStable(keyed, func(left, right int) bool {
			if foldCase {
				return compareFoldASCII(keyed[left].key, keyed[right].key) < 0
			}
			return keyed[left].key < keyed[right].key
		})
	}
	texts := make([]string, len(keyed))
	for index, rule := range keyed {
		texts[index] = rule.text
	}
	return texts
}

// compareFoldASCII compares two strings ignoring ASCII letter case.
func compareFoldASCII(left, right string) int {
	for index := 0; index < len(left) && index < len(right); index++ {
		leftByte, rightByte := lowerASCII(left[index]), lowerASCII(right[index])
		if leftByte != rightByte {
			if leftByte < rightByte {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(left) < len(right):
		return -1
	case len(left) > len(right):
		return 1
	default:
		return 0
	}
}

func lowerASCII(character byte) byte {
	if character >= 'A' && character <= 'Z' {
		return character + ('a' - 'A')
	}
	return character
}

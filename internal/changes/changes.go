// Package changes records the rewrites applied while sorting so they can be reported.
package changes

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Sink receives notifications about rewrites. Implementations must be safe for concurrent use.
type Sink interface {
	// Enabled reports whether notifications are recorded at all.
	Enabled() bool
	TypoFixed(before string, after string, fixes []string)
	DomainsCombined(originals []string, combined string)
	HasTextMerged(originals []string, merged string)
	DuplicateRemoved(rule string)
}

// TypoFix is one typo-corrected rule.
type TypoFix struct {
	Before string   `json:"before"`
	After  string   `json:"after"`
	Fixes  []string `json:"fixes"`
}

// Merge is one group of rules collapsed into a single rule.
type Merge struct {
	Originals []string `json:"originals"`
	Result    string   `json:"result"`
}

// Report is a point-in-time copy of everything a Tracker recorded.
type Report struct {
	TyposFixed        []TypoFix `json:"typosFixed"`
	DomainsCombined   []Merge   `json:"domainsCombined"`
	HasTextMerged     []Merge   `json:"hasTextMerged"`
	DuplicatesRemoved []string  `json:"duplicatesRemoved"`
}

// Empty reports whether nothing was recorded.
func (report Report) Empty() bool {
	return len(report.TyposFixed) == 0 && len(report.DomainsCombined) == 0 &&
		len(report.HasTextMerged) == 0 && len(report.DuplicatesRemoved) == 0
}

// Tracker accumulates changes across all files of a run.
type Tracker struct {
	enabled    atomic.Bool
	mutex      sync.Mutex
	report     Report
	duplicates map[string]struct{}
}

// NewTracker creates an enabled tracker.
func NewTracker() *Tracker {
	tracker := &Tracker{duplicates: make(map[string]struct{})}
	tracker.enabled.Store(true)
	return tracker
}

// Enabled reports whether the tracker is recording.
func (tracker *Tracker) Enabled() bool {
	return tracker.enabled.Load()
}

// SetEnabled switches recording on or off.
func (tracker *Tracker) SetEnabled(enabled bool) {
	tracker.enabled.Store(enabled)
}

// TypoFixed records a typo correction.
func (tracker *Tracker) TypoFixed(before string, after string, fixes []string) {
	if !tracker.Enabled() {
		return
	}
	tracker.mutex.Lock()
	defer tracker.mutex.Unlock()
	tracker.report.TyposFixed = append(tracker.report.TyposFixed, TypoFix{
		Before: before,
		After:  after,
		Fixes:  append([]string(nil), fixes...),
	})
}

// DomainsCombined records rules merged by domain.
func (tracker *Tracker) DomainsCombined(originals []string, combined string) {
	if !tracker.Enabled() {
		return
	}
	tracker.mutex.Lock()
	defer tracker.mutex.Unlock()
	tracker.report.DomainsCombined = append(tracker.report.DomainsCombined, Merge{
		Originals: append([]string(nil), originals...),
		Result:    combined,
	})
}

// HasTextMerged records has-text rules merged into a regex alternation.
func (tracker *Tracker) HasTextMerged(originals []string, merged string) {
	if !tracker.Enabled() {
		return
	}
	tracker.mutex.Lock()
	defer tracker.mutex.Unlock()
	tracker.report.HasTextMerged = append(tracker.report.HasTextMerged, Merge{
		Originals: append([]string(nil), originals...),
		Result:    merged,
	})
}

// DuplicateRemoved records a rule dropped as a duplicate. Each rule is reported once.
func (tracker *Tracker) DuplicateRemoved(rule string) {
	if !tracker.Enabled() {
		return
	}
	tracker.mutex.Lock()
	defer tracker.mutex.Unlock()
	if _, seen := tracker.duplicates[rule]; seen {
		return
	}
	tracker.duplicates[rule] = struct{}{}
	tracker.report.DuplicatesRemoved = append(tracker.report.DuplicatesRemoved, rule)
}

// Snapshot returns a copy of the recorded changes with duplicates sorted.
func (tracker *Tracker) Snapshot() Report {
	tracker.mutex.Lock()
	defer tracker.mutex.Unlock()
	snapshot := Report{
		TyposFixed:        append([]TypoFix(nil), tracker.report.TyposFixed...),
		DomainsCombined:   append([]Merge(nil), tracker.report.DomainsCombined...),
		HasTextMerged:     append([]Merge(nil), tracker.report.HasTextMerged...),
		DuplicatesRemoved: append([]string(nil), tracker.report.DuplicatesRemoved...),
	}
	sort.Strings(snapshot.DuplicatesRemoved)
	return snapshot
}

// Reset clears everything recorded so far.
func (tracker *Tracker) Reset() {
	tracker.mutex.Lock()
	defer tracker.mutex.Unlock()
	tracker.report = Report{}
	tracker.duplicates = make(map[string]struct{})
}

type nopSink struct{}

func (nopSink) Enabled() bool                     { return false }
func (nopSink) TypoFixed(string, string, []string) {}
func (nopSink) DomainsCombined([]string, string)   {}
func (nopSink) HasTextMerged([]string, string)     {}
func (nopSink) DuplicateRemoved(string)            {}

// Nop ignores every change.
var Nop Sink = nopSink{}

var _ Sink = (*Tracker)(nil)

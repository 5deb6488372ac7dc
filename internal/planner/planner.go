// Package planner decides which files move and where they go.
package planner

import (
	"iter"
	"time"

	"shelve/internal/filedate"
	"shelve/internal/period"
	"shelve/internal/scanner"
)

// Options holds the already validated inputs of a planning pass.
type Options struct {
	SourceRoot         string
	DestinationRoot    string
	GroupBy            period.Granularity // period.None disables grouping
	PreviousPeriodOnly bool
	OlderThan          *time.Time // nil disables the age cutoff
	DateKinds          []filedate.Kind
	IgnoredPaths       []string
}

// FileToMove is one entry of a move plan.
type FileToMove struct {
	Source      string
	Destination string
}

// Plan is the ordered result of a planning pass, in traversal order.
type Plan struct {
	Files    []FileToMove
	Scanned  int // regular files considered
	Ignored  int
	Excluded int
	Failed   int
}

// EventKind classifies a per-file planning decision.
type EventKind string

const (
	EventPlanned  EventKind = "PLANNED"
	EventIgnored  EventKind = "IGNORED"
	EventExcluded EventKind = "EXCLUDED"
	EventFailed   EventKind = "FAILED"
)

// ReasonCode explains why a file was not planned.
type ReasonCode string

const (
	ReasonNone                 ReasonCode = ""
	ReasonIgnoredPath          ReasonCode = "IGNORED_PATH"
	ReasonNotOlderThanCutoff   ReasonCode = "NOT_OLDER_THAN_CUTOFF"
	ReasonCurrentPeriod        ReasonCode = "CURRENT_PERIOD"
	ReasonTimestampUnavailable ReasonCode = "TIMESTAMP_UNAVAILABLE"
	ReasonOutsideSourceRoot    ReasonCode = "OUTSIDE_SOURCE_ROOT"
	ReasonWalkError            ReasonCode = "WALK_ERROR"
)

// Event is a structured fact about one traversed path.
type Event struct {
	Kind        EventKind
	Path        string
	Destination string    // set for EventPlanned
	Date        time.Time // effective date, zero when not resolved
	Reason      ReasonCode
	Err         error
}

// Reporter receives planning events as they happen.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) { f(e) }

// NopReporter discards events.
type NopReporter struct{}

// Report does nothing.
func (NopReporter) Report(Event) {}

// ShouldMove applies the age cutoff and the previous-period filter to an
// effective date. previous-period-only without a granularity has no effect.
func ShouldMove(date, now time.Time, opts Options) (bool, ReasonCode) {
	if opts.OlderThan != nil && !date.Before(*opts.OlderThan) {
		return false, ReasonNotOlderThanCutoff
	}
	if opts.PreviousPeriodOnly && opts.GroupBy != period.None {
		if !period.IsBeforeCurrent(opts.GroupBy, date, now) {
			return false, ReasonCurrentPeriod
		}
	}
	return true, ReasonNone
}

// IsIgnored reports whether path lies within one of the ignored paths.
func IsIgnored(path string, ignored []string) bool {
	for _, ig := range ignored {
		if Within(path, ig) {
			return true
		}
	}
	return false
}

// Builder turns traversal results into a move plan.
type Builder struct {
	opts     Options
	source   filedate.Source
	reporter Reporter
}

// NewBuilder creates a Builder. A nil reporter discards events.
func NewBuilder(opts Options, source filedate.Source, reporter Reporter) *Builder {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Builder{opts: opts, source: source, reporter: reporter}
}

// Build consumes entries and returns the plan. The only error it returns is
// filedate.ErrNoKinds, checked before any entry is read; everything else is
// a per-file failure reported through the Reporter.
func (b *Builder) Build(entries iter.Seq2[scanner.FileEntry, error], now time.Time) (*Plan, error) {
	if len(b.opts.DateKinds) == 0 {
		return nil, filedate.ErrNoKinds
	}

	plan := &Plan{Files: []FileToMove{}}
	for entry, err := range entries {
		if err != nil {
			plan.Failed++
			b.reporter.Report(Event{Kind: EventFailed, Path: entry.FullPath, Reason: ReasonWalkError, Err: err})
			continue
		}
		if !entry.IsFile {
			continue
		}
		plan.Scanned++
		b.consider(plan, entry.FullPath, now)
	}
	return plan, nil
}

func (b *Builder) consider(plan *Plan, path string, now time.Time) {
	if IsIgnored(path, b.opts.IgnoredPaths) {
		plan.Ignored++
		b.reporter.Report(Event{Kind: EventIgnored, Path: path, Reason: ReasonIgnoredPath})
		return
	}

	date, err := b.resolve(path)
	if err != nil {
		plan.Failed++
		b.reporter.Report(Event{Kind: EventFailed, Path: path, Reason: ReasonTimestampUnavailable, Err: err})
		return
	}

	if ok, reason := ShouldMove(date, now, b.opts); !ok {
		plan.Excluded++
		b.reporter.Report(Event{Kind: EventExcluded, Path: path, Date: date, Reason: reason})
		return
	}

	var group string
	if b.opts.GroupBy != period.None {
		group = period.FolderName(b.opts.GroupBy, date)
	}

	dest, err := Destination(path, b.opts.SourceRoot, b.opts.DestinationRoot, group)
	if err != nil {
		plan.Failed++
		b.reporter.Report(Event{Kind: EventFailed, Path: path, Date: date, Reason: ReasonOutsideSourceRoot, Err: err})
		return
	}

	plan.Files = append(plan.Files, FileToMove{Source: path, Destination: dest})
	b.reporter.Report(Event{Kind: EventPlanned, Path: path, Destination: dest, Date: date})
}

func (b *Builder) resolve(path string) (time.Time, error) {
	raw, err := b.source.Times(path)
	if err != nil {
		return time.Time{}, err
	}
	return filedate.Resolve(raw, b.opts.DateKinds)
}

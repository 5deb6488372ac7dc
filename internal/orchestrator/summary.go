package orchestrator

import (
	"fmt"
	"time"

	"shelve/internal/audit"
	"shelve/internal/organizer"
	"shelve/internal/planner"
)

// RunSummary contains statistics from a run.
type RunSummary struct {
	Scanned     int // regular files considered by the planner
	Planned     int
	Moved       int // includes duplicates; in dry-run, files that would move
	Duplicates  int // moves that needed a duplicate suffix
	Excluded    int
	Ignored     int
	Failed      int // planning failures plus move failures
	RemovedDirs int
	DryRun      bool
	Duration    time.Duration
}

// GenerateSummary creates a summary from the parts of a run. Any of plan,
// applied may be nil when the run stopped before reaching them.
func GenerateSummary(plan *planner.Plan, applied *organizer.ApplyResult, removed []string, dryRun bool, duration time.Duration) *RunSummary {
	summary := &RunSummary{
		RemovedDirs: len(removed),
		DryRun:      dryRun,
		Duration:    duration,
	}
	if plan != nil {
		summary.Scanned = plan.Scanned
		summary.Planned = len(plan.Files)
		summary.Excluded = plan.Excluded
		summary.Ignored = plan.Ignored
		summary.Failed = plan.Failed
	}
	if applied != nil {
		summary.Moved = len(applied.Moved)
		summary.Duplicates = applied.Duplicates()
		summary.Failed += len(applied.Failures)
	}
	return summary
}

// Journal converts s to the journal form.
func (s *RunSummary) Journal() audit.RunSummary {
	return audit.RunSummary{
		Scanned:     s.Scanned,
		Planned:     s.Planned,
		Moved:       s.Moved,
		Duplicates:  s.Duplicates,
		Excluded:    s.Excluded,
		Ignored:     s.Ignored,
		Failed:      s.Failed,
		RemovedDirs: s.RemovedDirs,
		DryRun:      s.DryRun,
	}
}

// Lines renders the summary for the terminal.
func (s *RunSummary) Lines() []string {
	moved := fmt.Sprintf("Moved: %d", s.Moved)
	if s.DryRun {
		moved = fmt.Sprintf("Would move: %d", s.Moved)
	}
	lines := []string{
		fmt.Sprintf("Scanned: %d", s.Scanned),
		fmt.Sprintf("Planned: %d", s.Planned),
		moved,
		fmt.Sprintf("Renamed as duplicate: %d", s.Duplicates),
		fmt.Sprintf("Excluded: %d", s.Excluded),
		fmt.Sprintf("Ignored: %d", s.Ignored),
		fmt.Sprintf("Failed: %d", s.Failed),
	}
	if !s.DryRun {
		lines = append(lines, fmt.Sprintf("Removed empty directories: %d", s.RemovedDirs))
	}
	return append(lines, fmt.Sprintf("Duration: %s", s.Duration.Round(time.Millisecond)))
}

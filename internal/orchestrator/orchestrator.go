// Package orchestrator coordinates a shelve run: validate the settings,
// plan the moves, execute them and clean up emptied directories.
package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"shelve/internal/audit"
	"shelve/internal/clock"
	"shelve/internal/config"
	"shelve/internal/filedate"
	"shelve/internal/organizer"
	"shelve/internal/output"
	"shelve/internal/planner"
	"shelve/internal/scanner"
)

// Deps are the capabilities a run works through. Zero fields get the
// production implementation.
type Deps struct {
	Fs     afero.Fs
	Source filedate.Source
	Clock  clock.Clock
	IDs    clock.IDGenerator
	Out    *output.Output
}

// RunResult is everything a run produced. Fields stay nil when the run
// stopped before reaching the step that fills them.
type RunResult struct {
	RunID       audit.RunID // empty without a journal
	Plan        *planner.Plan
	Applied     *organizer.ApplyResult
	RemovedDirs []string
	Summary     *RunSummary
}

// HasErrors returns true if any file failed to be planned or moved.
func (r *RunResult) HasErrors() bool {
	return r.Summary != nil && r.Summary.Failed > 0
}

// Orchestrator runs one pass over already resolved settings.
type Orchestrator struct {
	settings *config.Settings
	deps     Deps
}

// New creates an Orchestrator.
func New(settings *config.Settings, deps Deps) *Orchestrator {
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Source == nil {
		deps.Source = filedate.NewFSSource(deps.Fs)
	}
	if deps.Clock == nil {
		deps.Clock = clock.RealClock{}
	}
	if deps.IDs == nil {
		deps.IDs = clock.UUIDGenerator{}
	}
	if deps.Out == nil {
		deps.Out = output.New(output.DefaultConfig())
	}
	return &Orchestrator{settings: settings, deps: deps}
}

// Run executes the pass. now is the single reference instant for every
// period decision of the run.
//
// Configuration problems are returned before anything is scanned. Per-file
// failures are reported and counted but do not make Run fail. A journal
// write failure stops the run at the next file.
func (o *Orchestrator) Run(now time.Time) (*RunResult, error) {
	start := o.deps.Clock.Now()
	s := o.settings
	out := o.deps.Out

	validation := config.ValidateSettings(o.deps.Fs, s)
	for _, w := range validation.Warnings {
		out.Warn("%s", w.Message)
	}
	if err := validation.Err(); err != nil {
		return nil, err
	}

	printSettings(out, s, now)

	if err := o.ensureDestination(); err != nil {
		return nil, err
	}

	j := &journal{}
	if s.Journal != "" {
		w, err := audit.NewAuditWriter(o.deps.Fs, s.Journal, o.deps.Clock, o.deps.IDs)
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		j.w = w
	}

	result := &RunResult{}
	runID, err := j.start(s)
	if err != nil {
		j.end(audit.RunStatusFailed, audit.RunSummary{})
		return nil, err
	}
	result.RunID = runID

	runErr := o.execute(now, j, result)

	result.Summary = GenerateSummary(result.Plan, result.Applied, result.RemovedDirs, s.DryRun, o.deps.Clock.Now().Sub(start))
	status := audit.RunStatusCompleted
	if runErr != nil {
		status = audit.RunStatusFailed
	}
	if err := j.end(status, result.Summary.Journal()); err != nil && runErr == nil {
		runErr = err
	}

	out.Info("")
	for _, line := range result.Summary.Lines() {
		out.Info("%s", line)
	}
	return result, runErr
}

func (o *Orchestrator) ensureDestination() error {
	dest := o.settings.DestinationRoot
	if _, err := o.deps.Fs.Stat(dest); err == nil || !os.IsNotExist(err) {
		return nil
	}
	if o.settings.DryRun {
		o.deps.Out.Info("Destination directory does not exist and would be created: %s", dest)
		return nil
	}
	o.deps.Out.Info("Destination directory does not exist. Creating: %s", dest)
	if err := o.deps.Fs.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", dest, err)
	}
	return nil
}

func (o *Orchestrator) execute(now time.Time, j *journal, result *RunResult) error {
	s := o.settings
	out := o.deps.Out
	ignored := config.EffectiveIgnoredPaths(s)

	out.Info("Finding files to move in %s...", s.SourceRoot)
	entries := scanner.Walk(o.deps.Fs, s.SourceRoot, scanner.Options{
		MinDepth:       s.MinDepth,
		MaxDepth:       s.MaxDepth,
		FollowSymlinks: s.FollowSymlinks,
	})
	opts := planner.Options{
		SourceRoot:         s.SourceRoot,
		DestinationRoot:    s.DestinationRoot,
		GroupBy:            s.GroupBy,
		PreviousPeriodOnly: s.PreviousPeriodOnly,
		OlderThan:          s.OlderThan,
		DateKinds:          s.DateKinds,
		IgnoredPaths:       ignored,
	}

	seen := 0
	out.StartProgress("Scanning", 0)
	reporter := planner.ReporterFunc(func(e planner.Event) {
		seen++
		out.UpdateProgress(seen)
		o.report(e)
		j.planned(e)
	})
	plan, err := planner.NewBuilder(opts, o.deps.Source, reporter).Build(entries, now)
	out.EndProgress()
	if err != nil {
		return err
	}
	result.Plan = plan
	if j.err != nil {
		return j.err
	}

	if len(plan.Files) == 0 {
		out.Info("No files to move")
	} else {
		out.Info("Found %d file(s) to move", len(plan.Files))
		for i, f := range plan.Files {
			out.Verbose("%d. %s", i+1, f.Source)
		}
		if err := o.move(plan.Files, j, result); err != nil {
			return err
		}
	}

	if s.DryRun || s.KeepEmptyFolders {
		return nil
	}
	return o.cleanup(ignored, j, result)
}

func (o *Orchestrator) move(files []planner.FileToMove, j *journal, result *RunResult) error {
	s := o.settings
	out := o.deps.Out

	if s.DryRun {
		out.Info("Moving files (DRY RUN)...")
	} else {
		out.Info("Moving files...")
	}

	org := organizer.New(o.deps.Fs, s.DryRun)
	applied, err := org.Apply(files, func(index, total int, item planner.FileToMove, res *organizer.MoveResult, moveErr error) error {
		if moveErr != nil {
			out.Error("moving file %s: %v", item.Source, moveErr)
		} else {
			out.Info("%d/%d. %s\n       ↳ %s", index, total, res.SourcePath, filepath.Dir(res.DestinationPath))
			if res.IsDuplicate {
				out.Info("       renamed to %s, %s already exists", filepath.Base(res.DestinationPath), res.OriginalName)
			}
		}
		return j.moved(item, res, moveErr, s.DryRun)
	})
	result.Applied = applied
	if err != nil {
		return err
	}

	if s.DryRun {
		out.Info("DRY RUN: %d file(s) would have been moved successfully", len(applied.Moved))
	} else {
		out.Info("Finished moving files, %d file(s) moved successfully", len(applied.Moved))
	}
	return nil
}

func (o *Orchestrator) cleanup(ignored []string, j *journal, result *RunResult) error {
	out := o.deps.Out

	removed, err := organizer.RemoveEmptyDirs(o.deps.Fs, o.settings.SourceRoot, ignored)
	result.RemovedDirs = removed
	for _, dir := range removed {
		out.Verbose("Deleted empty directory: %s", dir)
		if jerr := j.dirRemoved(dir); jerr != nil {
			return jerr
		}
	}
	if len(removed) > 0 {
		out.Info("Deleted %d empty director(ies)", len(removed))
	}
	if err != nil {
		out.Warn("some empty directories could not be deleted: %v", err)
	}
	return nil
}

// report prints a planning event. Only failures are shown outside verbose mode.
func (o *Orchestrator) report(e planner.Event) {
	out := o.deps.Out
	switch e.Kind {
	case planner.EventIgnored:
		out.Verbose("Ignoring %s", e.Path)
	case planner.EventExcluded:
		out.Verbose("Skipping %s (%s)", e.Path, e.Reason)
	case planner.EventFailed:
		out.Error("%s: %s: %v", e.Reason, e.Path, e.Err)
	}
}

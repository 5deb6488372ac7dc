package orchestrator

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"shelve/internal/audit"
	"shelve/internal/config"
	"shelve/internal/organizer"
	"shelve/internal/planner"
)

// journal forwards run facts to an audit writer. A nil writer makes every
// method a no-op. The first write error is kept and every later call
// returns it, so the run can stop at the next checkpoint.
type journal struct {
	w   *audit.AuditWriter
	err error
}

func (j *journal) enabled() bool {
	return j.w != nil
}

func (j *journal) keep(err error) error {
	if err != nil && j.err == nil {
		j.err = fmt.Errorf("journal write failed: %w", err)
	}
	return j.err
}

func (j *journal) start(s *config.Settings) (audit.RunID, error) {
	if !j.enabled() {
		return "", nil
	}
	id, err := j.w.StartRun(settingsMetadata(s))
	return id, j.keep(err)
}

// planned records a planning event. It never stops planning: a failed
// write is kept and surfaces at the next checkpoint.
func (j *journal) planned(e planner.Event) {
	if !j.enabled() || j.err != nil {
		return
	}
	var err error
	switch e.Kind {
	case planner.EventPlanned:
		err = j.w.RecordPlanned(e.Path, e.Destination, e.Date)
	case planner.EventIgnored:
		err = j.w.RecordSkip(audit.EventIgnored, e.Path, audit.ReasonCode(e.Reason))
	case planner.EventExcluded:
		err = j.w.RecordSkip(audit.EventExcluded, e.Path, audit.ReasonCode(e.Reason))
	case planner.EventFailed:
		err = j.w.RecordFailure(e.Path, audit.ReasonCode(e.Reason), e.Err)
	}
	j.keep(err)
}

func (j *journal) moved(item planner.FileToMove, res *organizer.MoveResult, moveErr error, dryRun bool) error {
	if !j.enabled() || j.err != nil {
		return j.err
	}
	switch {
	case moveErr != nil:
		return j.keep(j.w.RecordError(item.Source, moveErr, "move"))
	case res.IsDuplicate:
		return j.keep(j.w.RecordDuplicate(res.SourcePath, item.Destination, res.DestinationPath))
	default:
		return j.keep(j.w.RecordMove(res.SourcePath, res.DestinationPath, dryRun))
	}
}

func (j *journal) dirRemoved(path string) error {
	if !j.enabled() || j.err != nil {
		return j.err
	}
	return j.keep(j.w.RecordDirRemoved(path))
}

// end writes RUN_END and closes the writer. It is attempted even after a
// write failure so a partial run is still marked when possible.
func (j *journal) end(status audit.RunStatus, s audit.RunSummary) error {
	if !j.enabled() {
		return nil
	}
	if j.w.CurrentRunID() != nil {
		j.keep(j.w.EndRun(status, s))
	}
	j.keep(j.w.Close())
	return j.err
}

func settingsMetadata(s *config.Settings) map[string]string {
	kinds := make([]string, len(s.DateKinds))
	for i, k := range s.DateKinds {
		kinds[i] = string(k)
	}
	m := map[string]string{
		config.KeySource:              s.SourceRoot,
		config.KeyDestination:         s.DestinationRoot,
		config.KeyGroupBy:             s.GroupBy.String(),
		config.KeyPreviousPeriodOnly:  strconv.FormatBool(s.PreviousPeriodOnly),
		config.KeyFileDateTypes:       strings.Join(kinds, ","),
		config.KeyIgnoredPaths:        strings.Join(s.IgnoredPaths, string(filepath.ListSeparator)),
		config.KeyMinDepth:            strconv.Itoa(s.MinDepth),
		config.KeyMaxDepth:            strconv.Itoa(s.MaxDepth),
		config.KeyKeepEmptyFolders:    strconv.FormatBool(s.KeepEmptyFolders),
		config.KeyFollowSymbolicLinks: strconv.FormatBool(s.FollowSymlinks),
		config.KeyDryRun:              strconv.FormatBool(s.DryRun),
	}
	if s.OlderThan != nil {
		m[config.KeyOlderThan] = s.OlderThan.Format(audit.TimestampFormat)
	}
	return m
}

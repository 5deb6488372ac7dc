package orchestrator

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"shelve/internal/config"
	"shelve/internal/output"
	"shelve/internal/period"
)

// printSettings echoes the resolved settings before anything is scanned.
func printSettings(out *output.Output, s *config.Settings, now time.Time) {
	out.Info("These are the settings in effect:")
	out.Info("Source directory: %s", s.SourceRoot)
	out.Info("Destination directory: %s", s.DestinationRoot)

	kinds := make([]string, len(s.DateKinds))
	for i, k := range s.DateKinds {
		kinds[i] = string(k)
	}
	out.Info("Finding files to move by their: %s", strings.Join(kinds, ", "))
	out.Info("Grouping by: %s", s.GroupBy)

	if s.PreviousPeriodOnly && s.GroupBy != period.None {
		out.Info("Filter: previous periods only (excluding the current %s)", s.GroupBy)
	}
	if s.OlderThan != nil {
		loc := s.Location
		if loc == nil {
			loc = time.Local
		}
		cutoff := s.OlderThan.In(loc).Format("2006-01-02 15:04:05 MST")
		age := humanize.RelTime(*s.OlderThan, now, "ago", "from now")
		if s.OlderThanInput != "" {
			out.Info("Filter: only files older than %s (%s, %s)", s.OlderThanInput, cutoff, age)
		} else {
			out.Info("Filter: only files older than %s (%s)", cutoff, age)
		}
	}
	if len(s.IgnoredPaths) > 0 {
		out.Info("Ignored paths: %s", strings.Join(s.IgnoredPaths, ", "))
	}
	if s.MinDepth > 0 {
		out.Info("Min depth: %d", s.MinDepth)
	}
	if s.MaxDepth >= 0 {
		out.Info("Max depth: %d", s.MaxDepth)
	}
	if s.KeepEmptyFolders {
		out.Info("Keeping empty folders after moving files")
	}
	if s.FollowSymlinks {
		out.Info("Following symbolic links")
	}
	if s.Journal != "" {
		out.Info("Journal: %s", s.Journal)
	}
	if s.DryRun {
		out.Info("DRY RUN: no file will be moved")
	}
}

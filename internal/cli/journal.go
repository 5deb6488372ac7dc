package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shelve/internal/audit"
	"shelve/internal/config"
)

func newJournalCmd(e *env, v *viper.Viper) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "journal [path]",
		Short: "List the runs recorded in a journal",
		Long: `List the runs recorded in a journal file, or every event of one run with --run.
Without a path the journal setting (--journal, SHELVE_JOURNAL or the
configuration file) is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := journalPath(v, args)
			if err != nil {
				return err
			}

			events, err := audit.ReadJournal(e.fs, path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if runID != "" {
				run := audit.FilterByRun(events, audit.RunID(runID))
				if len(run) == 0 {
					return fmt.Errorf("run %s not found in %s", runID, path)
				}
				printEvents(w, run)
				return nil
			}

			runs := audit.Runs(events)
			if len(runs) == 0 {
				fmt.Fprintf(w, "No runs recorded in %s\n", path)
				return nil
			}
			printRuns(w, runs, e.clock.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Show every event of this run")
	return cmd
}

func journalPath(v *viper.Viper, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	f, err := config.Load(v, v.GetString(keyConfig))
	if err != nil {
		return "", err
	}
	if f.Journal == "" {
		return "", fmt.Errorf("no journal given: pass a path or set --journal")
	}
	return f.Journal, nil
}

func printRuns(w io.Writer, runs []audit.RunInfo, now time.Time) {
	for _, run := range runs {
		started := humanize.RelTime(run.StartTime, now, "ago", "from now")
		mode := ""
		if run.Summary.DryRun {
			mode = " (dry run)"
		}
		fmt.Fprintf(w, "%s  %s  %s%s\n", run.RunID, run.StartTime.Format(time.RFC3339), run.Status, mode)
		fmt.Fprintf(w, "    started %s", started)
		if run.Settings != nil {
			fmt.Fprintf(w, ", %s -> %s", run.Settings[config.KeySource], run.Settings[config.KeyDestination])
		}
		fmt.Fprintln(w)
		if run.EndTime != nil {
			s := run.Summary
			fmt.Fprintf(w, "    scanned %d, moved %d (%d duplicates), excluded %d, ignored %d, failed %d, removed %d dirs\n",
				s.Scanned, s.Moved, s.Duplicates, s.Excluded, s.Ignored, s.Failed, s.RemovedDirs)
		}
	}
}

func printEvents(w io.Writer, events []audit.AuditEvent) {
	for _, event := range events {
		line := fmt.Sprintf("%s %-17s %-7s", event.Timestamp.Format(audit.TimestampFormat), event.EventType, event.Status)
		if event.SourcePath != "" {
			line += " " + event.SourcePath
		}
		if event.DestinationPath != "" {
			line += " -> " + event.DestinationPath
		}
		if event.ReasonCode != "" {
			line += fmt.Sprintf(" [%s]", event.ReasonCode)
		}
		if event.ErrorDetails != nil {
			line += ": " + event.ErrorDetails.ErrorMessage
		}
		fmt.Fprintln(w, line)
	}
}

// Package cli wires the shelve commands to the configuration layers and
// the orchestrator.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"shelve/internal/clock"
	"shelve/internal/config"
	"shelve/internal/filedate"
	"shelve/internal/orchestrator"
	"shelve/internal/output"
)

// keyConfig is the viper key of the --config flag (SHELVE_CONFIG).
const keyConfig = "config"

// env holds the capabilities the commands run with.
type env struct {
	fs     afero.Fs
	source filedate.Source
	clock  clock.Clock
	ids    clock.IDGenerator
	loc    *time.Location
	isTTY  func() bool

	configDir func() (string, error)
}

func defaultEnv() *env {
	return &env{
		fs:     afero.NewOsFs(),
		source: filedate.NewOSSource(),
		clock:  clock.RealClock{},
		ids:    clock.UUIDGenerator{},
		loc:    time.Local,
		isTTY:  func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },

		configDir: os.UserConfigDir,
	}
}

// NewRootCmd creates the root command for the shelve CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultEnv())
}

func newRootCmd(e *env) *cobra.Command {
	v := config.NewViper(e.fs)

	rootCmd := &cobra.Command{
		Use:   "shelve",
		Short: "Move files into a destination tree grouped by calendar period",
		Long: `shelve moves files from a source tree into a destination tree, keeping their
relative paths, optionally grouped into period folders (week, biweekly, month,
trimester, quadrimester, semester, year). Filters skip files that are too recent
or that fall in the current period.

Every flag can also be set with a SHELVE_* environment variable
(e.g. SHELVE_GROUP_BY=month) or in the TOML file given with --config.`,
		Example: `  shelve -s ~/Downloads -d ~/Archive -g month --previous-period-only
  shelve -s ~/Downloads -d ~/Archive --older-than 30d --dry-run
  shelve --config ~/.config/shelve/config.toml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, e, v)
		},
	}

	addSettingsFlags(rootCmd)
	if err := config.BindFlags(v, rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	if err := v.BindPFlag(keyConfig, rootCmd.PersistentFlags().Lookup(keyConfig)); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(newConfigCmd(e, v))
	rootCmd.AddCommand(newJournalCmd(e, v))

	return rootCmd
}

// addSettingsFlags declares one persistent flag per configuration key, so
// "config show" and "config init" see the same layers as a run.
func addSettingsFlags(cmd *cobra.Command) {
	d := config.DefaultFile()
	flags := cmd.PersistentFlags()

	flags.StringP(keyConfig, "c", "", "TOML configuration file")
	flags.StringP(config.FlagName(config.KeySource), "s", "", "Source directory containing files to organize")
	flags.StringP(config.FlagName(config.KeyDestination), "d", "", "Destination directory where files will be moved")
	flags.StringP(config.FlagName(config.KeyGroupBy), "g", "",
		"Grouping strategy: week, biweekly, month, trimester, quadrimester, semester or year")
	flags.Bool(config.FlagName(config.KeyPreviousPeriodOnly), false,
		"Only move files from previous periods (not the current one). Only meaningful with --group-by")
	flags.String(config.FlagName(config.KeyOlderThan), "",
		`Only move files older than a duration or date (e.g. "30d", "1y6M", "2025-01-15", "2025-01-15T06:30:53")`)
	flags.StringSlice(config.FlagName(config.KeyFileDateTypes), d.FileDateTypes,
		"Which timestamps to check: created, modified, accessed (or c, m, a)")
	flags.StringSlice(config.FlagName(config.KeyIgnoredPaths), nil, "Comma-separated files or folders to skip")
	flags.Int(config.FlagName(config.KeyMinDepth), d.MinDepth, "Minimum directory depth to search")
	flags.Int(config.FlagName(config.KeyMaxDepth), d.MaxDepth, "Maximum directory depth to search (-1 for unlimited)")
	flags.Bool(config.FlagName(config.KeyKeepEmptyFolders), false, "Keep empty folders after moving files")
	flags.Bool(config.FlagName(config.KeyFollowSymbolicLinks), false, "Follow symbolic links while traversing")
	flags.Bool(config.FlagName(config.KeyDryRun), false, "Preview what would be moved without moving anything")
	flags.String(config.FlagName(config.KeyJournal), "", "Append a JSON Lines journal of the run to this file")
	flags.BoolP(config.FlagName(config.KeyVerbose), "v", false, "Print every planning decision")
}

func runOrganize(cmd *cobra.Command, e *env, v *viper.Viper) error {
	now := e.clock.Now()

	f, err := config.Load(v, v.GetString(keyConfig))
	if err != nil {
		return err
	}
	settings, err := f.Resolve(now, e.loc)
	if err != nil {
		return err
	}

	out := output.New(output.Config{
		Verbose:   settings.Verbose,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		IsTTY:     e.isTTY(),
	})

	o := orchestrator.New(settings, orchestrator.Deps{
		Fs:     e.fs,
		Source: e.source,
		Clock:  e.clock,
		IDs:    e.ids,
		Out:    out,
	})
	result, err := o.Run(now)
	if err != nil {
		return err
	}
	if result.HasErrors() {
		return fmt.Errorf("%d file(s) could not be processed", result.Summary.Failed)
	}
	return nil
}

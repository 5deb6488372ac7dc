package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. SHELVE_GROUP_BY.
const EnvPrefix = "SHELVE"

// Configuration keys, shared by the TOML file, the environment and flags.
const (
	KeySource              = "source"
	KeyDestination         = "destination"
	KeyGroupBy             = "group_by"
	KeyPreviousPeriodOnly  = "previous_period_only"
	KeyOlderThan           = "older_than"
	KeyFileDateTypes       = "file_date_types"
	KeyIgnoredPaths        = "ignored_paths"
	KeyMinDepth            = "min_depth"
	KeyMaxDepth            = "max_depth"
	KeyKeepEmptyFolders    = "keep_empty_folders"
	KeyFollowSymbolicLinks = "follow_symbolic_links"
	KeyDryRun              = "dry_run"
	KeyJournal             = "journal"
	KeyVerbose             = "verbose"
)

// FlagName returns the command-line flag bound to key ("group_by" -> "group-by").
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Keys lists every configuration key in display order.
var Keys = []string{
	KeySource, KeyDestination, KeyGroupBy, KeyPreviousPeriodOnly, KeyOlderThan,
	KeyFileDateTypes, KeyIgnoredPaths, KeyMinDepth, KeyMaxDepth, KeyKeepEmptyFolders,
	KeyFollowSymbolicLinks, KeyDryRun, KeyJournal, KeyVerbose,
}

// NewViper returns a viper instance reading from fs, with defaults set and
// SHELVE_* environment variables enabled.
func NewViper(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	d := DefaultFile()
	v.SetDefault(KeySource, d.Source)
	v.SetDefault(KeyDestination, d.Destination)
	v.SetDefault(KeyGroupBy, d.GroupBy)
	v.SetDefault(KeyPreviousPeriodOnly, d.PreviousPeriodOnly)
	v.SetDefault(KeyOlderThan, d.OlderThan)
	v.SetDefault(KeyFileDateTypes, d.FileDateTypes)
	v.SetDefault(KeyIgnoredPaths, d.IgnoredPaths)
	v.SetDefault(KeyMinDepth, d.MinDepth)
	v.SetDefault(KeyMaxDepth, d.MaxDepth)
	v.SetDefault(KeyKeepEmptyFolders, d.KeepEmptyFolders)
	v.SetDefault(KeyFollowSymbolicLinks, d.FollowSymbolicLinks)
	v.SetDefault(KeyDryRun, d.DryRun)
	v.SetDefault(KeyJournal, d.Journal)
	v.SetDefault(KeyVerbose, d.Verbose)
	return v
}

// BindFlags binds every flag of flags that matches a configuration key.
// Flags only override lower layers when they were set explicitly.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range Keys {
		flag := flags.Lookup(FlagName(key))
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag --%s: %w", flag.Name, err)
		}
	}
	return nil
}

// Load merges the layers into a File: flags, then SHELVE_* variables, then
// the TOML file at configPath (when not empty), then defaults.
func Load(v *viper.Viper, configPath string) (*File, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, &ConfigError{Type: FileNotFound, Path: configPath, Err: err}
			}
			return nil, &ConfigError{Type: InvalidTOML, Path: configPath, Message: err.Error(), Err: err}
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, &ConfigError{Type: ValidationError, Message: err.Error(), Err: err}
	}
	return &f, nil
}

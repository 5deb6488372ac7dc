// Package config loads, resolves and validates the settings of a shelve run.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"shelve/internal/dateparser"
	"shelve/internal/filedate"
	"shelve/internal/period"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	FileExists      ConfigErrorType = "FILE_EXISTS"
	InvalidTOML     ConfigErrorType = "INVALID_TOML"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case FileExists:
		return fmt.Sprintf("configuration file already exists: %s", e.Path)
	case InvalidTOML:
		return fmt.Sprintf("invalid TOML in configuration file %s: %s", e.Path, e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// File is the on-disk and layered form of the settings. Every field maps to
// one key of the TOML file, one SHELVE_* variable and one flag.
type File struct {
	Source              string   `toml:"source" mapstructure:"source"`
	Destination         string   `toml:"destination" mapstructure:"destination"`
	GroupBy             string   `toml:"group_by" mapstructure:"group_by"`
	PreviousPeriodOnly  bool     `toml:"previous_period_only" mapstructure:"previous_period_only"`
	OlderThan           string   `toml:"older_than" mapstructure:"older_than"`
	FileDateTypes       []string `toml:"file_date_types" mapstructure:"file_date_types"`
	IgnoredPaths        []string `toml:"ignored_paths" mapstructure:"ignored_paths"`
	MinDepth            int      `toml:"min_depth" mapstructure:"min_depth"`
	MaxDepth            int      `toml:"max_depth" mapstructure:"max_depth"` // -1 means unlimited
	KeepEmptyFolders    bool     `toml:"keep_empty_folders" mapstructure:"keep_empty_folders"`
	FollowSymbolicLinks bool     `toml:"follow_symbolic_links" mapstructure:"follow_symbolic_links"`
	DryRun              bool     `toml:"dry_run" mapstructure:"dry_run"`
	Journal             string   `toml:"journal" mapstructure:"journal"`
	Verbose             bool     `toml:"verbose" mapstructure:"verbose"`
}

// DefaultFile returns a File holding the default value of every key.
func DefaultFile() *File {
	return &File{
		FileDateTypes: kindNames(filedate.DefaultKinds),
		IgnoredPaths:  []string{},
		MaxDepth:      -1,
	}
}

// Settings are the resolved, typed inputs of a run.
type Settings struct {
	SourceRoot         string
	DestinationRoot    string
	GroupBy            period.Granularity
	PreviousPeriodOnly bool
	OlderThan          *time.Time     // UTC
	OlderThanInput     string         // as given, for display
	Location           *time.Location // where older_than dates are read
	DateKinds          []filedate.Kind
	IgnoredPaths       []string
	MinDepth           int
	MaxDepth           int
	KeepEmptyFolders   bool
	FollowSymlinks     bool
	DryRun             bool
	Journal            string
	Verbose            bool
}

// Resolve converts f into Settings. Paths are made absolute and cleaned;
// older_than is anchored on now, with dates read in loc. An empty date type
// list is kept empty and left for ValidateSettings to report.
func (f *File) Resolve(now time.Time, loc *time.Location) (*Settings, error) {
	s := &Settings{
		PreviousPeriodOnly: f.PreviousPeriodOnly,
		MinDepth:           f.MinDepth,
		MaxDepth:           f.MaxDepth,
		KeepEmptyFolders:   f.KeepEmptyFolders,
		FollowSymlinks:     f.FollowSymbolicLinks,
		DryRun:             f.DryRun,
		Verbose:            f.Verbose,
		Location:           loc,
	}

	var err error
	if s.SourceRoot, err = absPath(f.Source); err != nil {
		return nil, validationErr("source", err)
	}
	if s.DestinationRoot, err = absPath(f.Destination); err != nil {
		return nil, validationErr("destination", err)
	}
	if f.Journal != "" {
		if s.Journal, err = absPath(f.Journal); err != nil {
			return nil, validationErr("journal", err)
		}
	}
	for _, p := range SplitList(f.IgnoredPaths) {
		abs, err := absPath(p)
		if err != nil {
			return nil, validationErr("ignored_paths", err)
		}
		s.IgnoredPaths = append(s.IgnoredPaths, abs)
	}

	if s.GroupBy, err = period.ParseGranularity(f.GroupBy); err != nil {
		return nil, validationErr("group_by", err)
	}

	kinds, err := filedate.ParseKinds(SplitList(f.FileDateTypes))
	if err != nil && !errors.Is(err, filedate.ErrNoKinds) {
		return nil, validationErr("file_date_types", err)
	}
	s.DateKinds = kinds

	if strings.TrimSpace(f.OlderThan) != "" {
		cutoff, err := dateparser.ParseCutoff(f.OlderThan, now, loc)
		if err != nil {
			return nil, validationErr("older_than", err)
		}
		s.OlderThan = &cutoff
		s.OlderThanInput = strings.TrimSpace(f.OlderThan)
	}

	return s, nil
}

func kindNames(kinds []filedate.Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// SplitList flattens comma-separated elements and drops blanks, so
// ["c,m"], ["c", "m"] and ["c, m"] all mean the same list.
func SplitList(values []string) []string {
	out := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func absPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Abs(p)
}

func validationErr(field string, err error) error {
	return &ConfigError{Type: ValidationError, Message: fmt.Sprintf("%s: %v", field, err), Err: err}
}

// Manager handles reading and writing configuration files.
type Manager struct{}

// Read decodes a File from the provided reader. Keys absent from the input
// keep their default value.
func (m *Manager) Read(r io.Reader) (*File, error) {
	f := DefaultFile()
	if _, err := toml.NewDecoder(r).Decode(f); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return f, nil
}

// Write encodes a File to the provided writer.
func (m *Manager) Write(w io.Writer, f *File) error {
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a File from the specified path.
func ReadFromFile(fs afero.Fs, path string) (*File, error) {
	file, err := fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Type: FileNotFound, Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	m := &Manager{}
	f, err := m.Read(file)
	if err != nil {
		return nil, &ConfigError{Type: InvalidTOML, Path: path, Message: err.Error(), Err: err}
	}
	return f, nil
}

// Init writes f to path, creating parent directories. It refuses to
// overwrite an existing file.
func Init(fs afero.Fs, path string, f *File) error {
	if _, err := fs.Stat(path); err == nil {
		return &ConfigError{Type: FileExists, Path: path}
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	file, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	m := &Manager{}
	if err := m.Write(file, f); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

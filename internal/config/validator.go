package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"shelve/internal/period"
	"shelve/internal/planner"
)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string // configuration key, e.g. "ignored_paths[1]"
	Message  string
	Severity ValidationSeverity
}

func (e ConfigValidationError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError
	Warnings []ConfigValidationError
	Valid    bool // True if no errors (warnings OK)
}

func (r *ValidationResult) add(issue ConfigValidationError) {
	if issue.Severity == SeverityError {
		r.Errors = append(r.Errors, issue)
		r.Valid = false
		return
	}
	r.Warnings = append(r.Warnings, issue)
}

// Err folds the errors of r into a single ConfigError, or returns nil.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = errors.New(e.String())
	}
	joined := errors.Join(errs...)
	return &ConfigError{Type: ValidationError, Message: joined.Error(), Err: joined}
}

// ValidateSettings checks s against the filesystem and returns all findings.
// It never creates or modifies anything.
func ValidateSettings(fs afero.Fs, s *Settings) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ConfigValidationError{},
		Warnings: []ConfigValidationError{},
		Valid:    true,
	}

	for _, issue := range validatePaths(fs, s) {
		result.add(issue)
	}
	for _, issue := range validateFilters(s) {
		result.add(issue)
	}
	for _, issue := range validateDepths(s) {
		result.add(issue)
	}
	return result
}

func validatePaths(fs afero.Fs, s *Settings) []ConfigValidationError {
	var issues []ConfigValidationError
	errorf := func(field, format string, args ...interface{}) {
		issues = append(issues, ConfigValidationError{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityError})
	}
	warnf := func(field, format string, args ...interface{}) {
		issues = append(issues, ConfigValidationError{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning})
	}

	switch {
	case s.SourceRoot == "":
		errorf(KeySource, "source directory is required")
	default:
		info, err := fs.Stat(s.SourceRoot)
		switch {
		case os.IsNotExist(err):
			errorf(KeySource, "source directory does not exist: %s", s.SourceRoot)
		case os.IsPermission(err):
			errorf(KeySource, "source directory is not accessible: %s", s.SourceRoot)
		case err != nil:
			errorf(KeySource, "error accessing source directory: %v", err)
		case !info.IsDir():
			errorf(KeySource, "source path is not a directory: %s", s.SourceRoot)
		}
	}

	if s.DestinationRoot == "" {
		errorf(KeyDestination, "destination directory is required")
	} else {
		info, err := fs.Stat(s.DestinationRoot)
		switch {
		case err == nil && !info.IsDir():
			errorf(KeyDestination, "destination path is not a directory: %s", s.DestinationRoot)
		case err != nil && !os.IsNotExist(err):
			errorf(KeyDestination, "error accessing destination directory: %v", err)
		}
	}

	if s.SourceRoot != "" && s.SourceRoot == s.DestinationRoot {
		errorf(KeyDestination, "source and destination directories cannot be the same")
	} else if s.SourceRoot != "" && s.DestinationRoot != "" && planner.Within(s.DestinationRoot, s.SourceRoot) {
		warnf(KeyDestination, "destination %s is inside the source directory and will be ignored while scanning", s.DestinationRoot)
	}

	for i, p := range s.IgnoredPaths {
		if _, err := fs.Stat(p); os.IsNotExist(err) {
			warnf(fmt.Sprintf("%s[%d]", KeyIgnoredPaths, i), "ignored path does not exist: %s", p)
		}
	}

	if s.Journal != "" {
		if info, err := fs.Stat(s.Journal); err == nil && info.IsDir() {
			errorf(KeyJournal, "journal path is a directory: %s", s.Journal)
		}
	}

	return issues
}

func validateFilters(s *Settings) []ConfigValidationError {
	var issues []ConfigValidationError
	if len(s.DateKinds) == 0 {
		issues = append(issues, ConfigValidationError{
			Field:    KeyFileDateTypes,
			Message:  "at least one file date type is required",
			Severity: SeverityError,
		})
	}
	if s.PreviousPeriodOnly && s.GroupBy == period.None {
		issues = append(issues, ConfigValidationError{
			Field:    KeyPreviousPeriodOnly,
			Message:  "previous_period_only is only meaningful with group_by",
			Severity: SeverityWarning,
		})
	}
	return issues
}

func validateDepths(s *Settings) []ConfigValidationError {
	var issues []ConfigValidationError
	if s.MinDepth < 0 {
		issues = append(issues, ConfigValidationError{
			Field:    KeyMinDepth,
			Message:  "min_depth must be a non-negative integer",
			Severity: SeverityError,
		})
	}
	if s.MaxDepth < -1 {
		issues = append(issues, ConfigValidationError{
			Field:    KeyMaxDepth,
			Message:  "max_depth must be a non-negative integer, or -1 for unlimited",
			Severity: SeverityError,
		})
	}
	if s.MaxDepth >= 0 && s.MinDepth > s.MaxDepth {
		issues = append(issues, ConfigValidationError{
			Field:    KeyMinDepth,
			Message:  fmt.Sprintf("minimum depth (%d) must be less than or equal to maximum depth (%d)", s.MinDepth, s.MaxDepth),
			Severity: SeverityError,
		})
	}
	return issues
}

// EffectiveIgnoredPaths returns the ignored paths of s plus the destination
// and the journal when they lie inside the source tree.
func EffectiveIgnoredPaths(s *Settings) []string {
	ignored := append([]string{}, s.IgnoredPaths...)
	for _, p := range []string{s.DestinationRoot, s.Journal} {
		if p != "" && p != s.SourceRoot && planner.Within(p, s.SourceRoot) && !planner.IsIgnored(p, ignored) {
			ignored = append(ignored, p)
		}
	}
	return ignored
}

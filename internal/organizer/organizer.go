// Package organizer executes move plans for shelve.
package organizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"shelve/internal/planner"
)

// MoveErrorType represents the type of move error.
type MoveErrorType string

const (
	// SourceNotFound indicates the source file does not exist.
	SourceNotFound MoveErrorType = "SOURCE_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied MoveErrorType = "PERMISSION_DENIED"
	// CreateDirFailed indicates the destination directory could not be created.
	CreateDirFailed MoveErrorType = "CREATE_DIR_FAILED"
	// MoveFailed indicates both rename and the copy fallback failed.
	MoveFailed MoveErrorType = "MOVE_FAILED"
)

// MoveError represents an error that occurred during file movement.
type MoveError struct {
	Type MoveErrorType
	Path string
	Err  error
}

func (e *MoveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// MoveResult represents the result of a successful (or, in dry-run, simulated) move.
type MoveResult struct {
	SourcePath      string
	DestinationPath string
	IsDuplicate     bool   // True if the file was renamed due to a collision
	OriginalName    string // Planned filename before duplicate renaming (empty if not a duplicate)
}

// Failure pairs a plan entry with the error that stopped it.
type Failure struct {
	Item planner.FileToMove
	Err  error
}

// ApplyResult collects the outcome of a whole plan.
type ApplyResult struct {
	Moved    []MoveResult
	Failures []Failure
}

// Duplicates counts moves that needed a duplicate suffix.
func (r *ApplyResult) Duplicates() int {
	n := 0
	for _, m := range r.Moved {
		if m.IsDuplicate {
			n++
		}
	}
	return n
}

// ProgressFunc is called after each plan entry, with res or err set. A
// non-nil return value stops Apply before the next entry.
type ProgressFunc func(index, total int, item planner.FileToMove, res *MoveResult, err error) error

// Organizer moves files on a filesystem. In dry-run mode it only computes
// where each file would land.
type Organizer struct {
	fs      afero.Fs
	dryRun  bool
	claimed map[string]bool
}

// New creates an Organizer.
func New(fs afero.Fs, dryRun bool) *Organizer {
	return &Organizer{fs: fs, dryRun: dryRun, claimed: make(map[string]bool)}
}

// Apply moves every entry of plan in order. A failing entry is recorded and
// the remaining entries are still processed. The returned error is the one
// that made progress abort the run; result holds what was done until then.
func (o *Organizer) Apply(plan []planner.FileToMove, progress ProgressFunc) (*ApplyResult, error) {
	result := &ApplyResult{Moved: []MoveResult{}, Failures: []Failure{}}
	for i, item := range plan {
		res, err := o.Move(item)
		if err != nil {
			result.Failures = append(result.Failures, Failure{Item: item, Err: err})
		} else {
			result.Moved = append(result.Moved, *res)
		}
		if progress != nil {
			if stop := progress(i+1, len(plan), item, res, err); stop != nil {
				return result, stop
			}
		}
	}
	return result, nil
}

// Move moves a single file to its planned destination, creating parent
// directories as needed. If the destination is taken the file gets a
// duplicate suffix instead of overwriting it.
func (o *Organizer) Move(item planner.FileToMove) (*MoveResult, error) {
	if _, err := o.fs.Stat(item.Source); err != nil {
		if os.IsNotExist(err) {
			return nil, &MoveError{Type: SourceNotFound, Path: item.Source, Err: err}
		}
		return nil, classify(item.Source, err, MoveFailed)
	}

	destDir := filepath.Dir(item.Destination)
	plannedName := filepath.Base(item.Destination)
	name := uniqueName(destDir, plannedName, o.taken)
	destPath := filepath.Join(destDir, name)

	result := &MoveResult{
		SourcePath:      item.Source,
		DestinationPath: destPath,
		IsDuplicate:     name != plannedName,
	}
	if result.IsDuplicate {
		result.OriginalName = plannedName
	}

	if o.dryRun {
		o.claimed[destPath] = true
		return result, nil
	}

	if err := o.fs.MkdirAll(destDir, 0755); err != nil {
		if os.IsPermission(err) {
			return nil, &MoveError{Type: PermissionDenied, Path: destDir, Err: err}
		}
		return nil, &MoveError{Type: CreateDirFailed, Path: destDir, Err: err}
	}

	if err := o.fs.Rename(item.Source, destPath); err != nil {
		if os.IsPermission(err) {
			return nil, &MoveError{Type: PermissionDenied, Path: item.Source, Err: err}
		}
		// Rename fails across devices; fall back to copy+delete.
		if err := o.copyAndDelete(item.Source, destPath); err != nil {
			return nil, err
		}
	}

	o.claimed[destPath] = true
	return result, nil
}

func (o *Organizer) taken(path string) bool {
	return o.claimed[path] || FileExists(o.fs, path)
}

// copyAndDelete copies src to dst keeping its mode and removes src.
func (o *Organizer) copyAndDelete(src, dst string) error {
	info, err := o.fs.Stat(src)
	if err != nil {
		return classify(src, err, MoveFailed)
	}

	in, err := o.fs.Open(src)
	if err != nil {
		return classify(src, err, MoveFailed)
	}

	out, err := o.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		in.Close()
		return classify(dst, err, MoveFailed)
	}
	_, copyErr := io.Copy(out, in)
	in.Close()
	if copyErr != nil {
		out.Close()
		o.fs.Remove(dst)
		return classify(dst, copyErr, MoveFailed)
	}
	if err := out.Close(); err != nil {
		o.fs.Remove(dst)
		return classify(dst, err, MoveFailed)
	}
	_ = o.fs.Chtimes(dst, info.ModTime(), info.ModTime())

	if err := o.fs.Remove(src); err != nil {
		// If we can't delete source, try to clean up destination
		o.fs.Remove(dst)
		return classify(src, err, MoveFailed)
	}
	return nil
}

func classify(path string, err error, fallback MoveErrorType) error {
	switch {
	case os.IsNotExist(err):
		return &MoveError{Type: SourceNotFound, Path: path, Err: err}
	case os.IsPermission(err):
		return &MoveError{Type: PermissionDenied, Path: path, Err: err}
	default:
		return &MoveError{Type: fallback, Path: path, Err: err}
	}
}

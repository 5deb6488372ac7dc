// Package scanner walks the source tree for shelve.
package scanner

import (
	"errors"
	"iter"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the root does not exist or is not a directory.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read a directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// ReadFailed indicates a directory or entry could not be read.
	ReadFailed ScanErrorType = "READ_FAILED"
	// SymlinkLoop indicates a followed symlink points back to one of its ancestors.
	SymlinkLoop ScanErrorType = "SYMLINK_LOOP"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	if e.Err != nil {
		return string(e.Type) + ": " + e.Path + ": " + e.Err.Error()
	}
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Options configures scanning behavior.
type Options struct {
	MinDepth       int  // Entries shallower than this are not yielded (0 = root itself)
	MaxDepth       int  // Entries deeper than this are not visited (-1 = unlimited)
	FollowSymlinks bool // Descend into symlinked directories and report symlink targets
}

// DefaultOptions returns the default scan options.
func DefaultOptions() Options {
	return Options{
		MinDepth: 0,
		MaxDepth: -1,
	}
}

// FileEntry represents an entry found during scanning.
type FileEntry struct {
	Name     string // Base name only
	FullPath string // Root joined with the relative path
	Depth    int    // 0 for the root, 1 for its children, ...
	IsFile   bool   // Regular file (after following symlinks when enabled)
	IsDir    bool   // Directory (after following symlinks when enabled)
}

// Walk yields the entries under root in depth-first, lexical order. A
// directory is yielded before its contents. Errors are yielded in place of
// the entry that caused them and the walk continues with the next entry.
func Walk(fs afero.Fs, root string, opts Options) iter.Seq2[FileEntry, error] {
	return func(yield func(FileEntry, error) bool) {
		info, err := fs.Stat(root)
		if err != nil {
			yield(FileEntry{FullPath: root}, classify(root, err, DirectoryNotFound))
			return
		}
		if !info.IsDir() {
			yield(FileEntry{FullPath: root}, &ScanError{
				Type: DirectoryNotFound,
				Path: root,
				Err:  errors.New("path is not a directory"),
			})
			return
		}

		w := &walker{fs: fs, opts: opts, yield: yield}
		entry := FileEntry{Name: filepath.Base(root), FullPath: root, IsDir: true}
		if w.inRange(0) && !yield(entry, nil) {
			return
		}
		w.walkDir(root, 0, []os.FileInfo{info})
	}
}

type walker struct {
	fs    afero.Fs
	opts  Options
	yield func(FileEntry, error) bool
}

func (w *walker) inRange(depth int) bool {
	if depth < w.opts.MinDepth {
		return false
	}
	return w.opts.MaxDepth < 0 || depth <= w.opts.MaxDepth
}

func (w *walker) canDescend(depth int) bool {
	return w.opts.MaxDepth < 0 || depth < w.opts.MaxDepth
}

// walkDir visits the children of dir, which sits at depth. It returns false
// once the consumer stops the iteration.
func (w *walker) walkDir(dir string, depth int, ancestors []os.FileInfo) bool {
	if !w.canDescend(depth) {
		return true
	}

	children, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return w.yield(FileEntry{FullPath: dir, Depth: depth, IsDir: true}, classify(dir, err, ReadFailed))
	}

	childDepth := depth + 1
	for _, child := range children {
		fullPath := filepath.Join(dir, child.Name())
		info, isSymlink, err := w.lstat(fullPath, child)
		if err != nil {
			if !w.yield(FileEntry{Name: child.Name(), FullPath: fullPath, Depth: childDepth}, classify(fullPath, err, ReadFailed)) {
				return false
			}
			continue
		}

		if isSymlink && w.opts.FollowSymlinks {
			target, err := w.fs.Stat(fullPath)
			if err != nil {
				if !w.yield(FileEntry{Name: child.Name(), FullPath: fullPath, Depth: childDepth}, classify(fullPath, err, ReadFailed)) {
					return false
				}
				continue
			}
			if target.IsDir() && loops(target, ancestors) {
				if !w.yield(FileEntry{Name: child.Name(), FullPath: fullPath, Depth: childDepth}, &ScanError{
					Type: SymlinkLoop,
					Path: fullPath,
					Err:  errors.New("symlink points to an ancestor directory"),
				}) {
					return false
				}
				continue
			}
			info = target
			isSymlink = false
		}

		entry := FileEntry{
			Name:     child.Name(),
			FullPath: fullPath,
			Depth:    childDepth,
			IsFile:   !isSymlink && info.Mode().IsRegular(),
			IsDir:    !isSymlink && info.IsDir(),
		}
		if w.inRange(childDepth) && !w.yield(entry, nil) {
			return false
		}
		if entry.IsDir {
			if !w.walkDir(fullPath, childDepth, append(ancestors, info)) {
				return false
			}
		}
	}
	return true
}

// lstat reports whether path is a symlink without following it. Filesystems
// that cannot lstat fall back to the info returned by ReadDir.
func (w *walker) lstat(path string, fallback os.FileInfo) (os.FileInfo, bool, error) {
	lstater, ok := w.fs.(afero.Lstater)
	if !ok {
		return fallback, fallback.Mode()&os.ModeSymlink != 0, nil
	}
	info, _, err := lstater.LstatIfPossible(path)
	if err != nil {
		return nil, false, err
	}
	return info, info.Mode()&os.ModeSymlink != 0, nil
}

func loops(target os.FileInfo, ancestors []os.FileInfo) bool {
	for _, ancestor := range ancestors {
		if os.SameFile(target, ancestor) {
			return true
		}
	}
	return false
}

func classify(path string, err error, fallback ScanErrorType) error {
	switch {
	case os.IsNotExist(err):
		return &ScanError{Type: DirectoryNotFound, Path: path, Err: err}
	case os.IsPermission(err):
		return &ScanError{Type: PermissionDenied, Path: path, Err: err}
	default:
		return &ScanError{Type: fallback, Path: path, Err: err}
	}
}

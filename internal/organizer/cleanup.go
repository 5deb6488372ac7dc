package organizer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/afero"

	"shelve/internal/planner"
	"shelve/internal/scanner"
)

// RemoveEmptyDirs deletes empty directories below root, deepest first, so a
// directory emptied by the removal of its children goes too. The root itself,
// ignored paths and symlinked directories are left alone. It returns the
// removed directories in removal order; removal failures are joined into err
// and do not stop the pass.
func RemoveEmptyDirs(fs afero.Fs, root string, ignored []string) ([]string, error) {
	var dirs []string
	for entry, err := range scanner.Walk(fs, root, scanner.Options{MinDepth: 1, MaxDepth: -1}) {
		if err != nil {
			continue
		}
		if entry.IsDir && !planner.IsIgnored(entry.FullPath, ignored) {
			dirs = append(dirs, entry.FullPath)
		}
	}

	// Walk yields parents before children; reversed, children come first.
	slices.Reverse(dirs)

	removed := []string{}
	var errs []error
	for _, dir := range dirs {
		empty, err := afero.IsEmpty(fs, dir)
		if err != nil || !empty {
			continue
		}
		if err := fs.Remove(dir); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete empty directory %s: %w", dir, err))
			continue
		}
		removed = append(removed, dir)
	}
	return removed, errors.Join(errs...)
}

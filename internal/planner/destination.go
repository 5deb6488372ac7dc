package planner

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotUnderSourceRoot is returned when a path does not lie strictly below
// the source root.
var ErrNotUnderSourceRoot = errors.New("path is not under the source root")

// Destination re-roots sourcePath from sourceRoot to destRoot, keeping its
// relative position. A non-empty groupFolder is inserted as a single segment
// directly under destRoot.
func Destination(sourcePath, sourceRoot, destRoot, groupFolder string) (string, error) {
	rel, ok := relativeTo(sourcePath, sourceRoot)
	if !ok {
		return "", fmt.Errorf("failed to compute relative path of %s: %w", sourcePath, ErrNotUnderSourceRoot)
	}
	if groupFolder == "" {
		return filepath.Join(destRoot, rel), nil
	}
	return filepath.Join(destRoot, groupFolder, rel), nil
}

// relativeTo returns path relative to root when path lies strictly below
// root. Comparison is made on whole path components, so /src2 is not below
// /src.
func relativeTo(path, root string) (string, bool) {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return "", false
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	return path[len(prefix):], true
}

// Within reports whether path equals base or lies below it, on whole path
// components.
func Within(path, base string) bool {
	if filepath.Clean(path) == filepath.Clean(base) {
		return true
	}
	_, ok := relativeTo(path, base)
	return ok
}

package organizer

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// duplicatePattern matches filenames with _duplicate or _duplicate_N suffix before extension
var duplicatePattern = regexp.MustCompile(`^(.+)_duplicate(?:_(\d+))?(\.[^.]+)?$`)

// FileExists checks if anything exists at path on fs. A symlink counts
// even when its target is missing.
func FileExists(fs afero.Fs, path string) bool {
	if lstater, ok := fs.(afero.Lstater); ok {
		_, _, err := lstater.LstatIfPossible(path)
		return err == nil
	}
	_, err := fs.Stat(path)
	return err == nil
}

// splitExt splits filename into base and extension. A dotfile without a
// second dot, like ".env", has no extension.
func splitExt(filename string) (string, string) {
	ext := filepath.Ext(filename)
	if ext == filename {
		return filename, ""
	}
	return strings.TrimSuffix(filename, ext), ext
}

// uniqueName returns a filename that is free in destDir according to taken.
//
// Examples:
//   - "file.pdf" -> "file_duplicate.pdf" (if file.pdf exists)
//   - "file_duplicate.pdf" -> "file_duplicate_2.pdf" (if file_duplicate.pdf exists)
//   - "file_duplicate_2.pdf" -> "file_duplicate_3.pdf" (if file_duplicate_2.pdf exists)
func uniqueName(destDir, filename string, taken func(string) bool) string {
	if !taken(filepath.Join(destDir, filename)) {
		return filename
	}

	base, ext := splitExt(filename)
	next := 0

	if matches := duplicatePattern.FindStringSubmatch(filename); matches != nil {
		// [1] base without suffix, [2] counter (may be empty), [3] extension
		base, ext = matches[1], matches[3]
		next = 2
		if matches[2] != "" {
			n, _ := strconv.Atoi(matches[2])
			next = n + 1
		}
	}

	if next == 0 {
		candidate := base + "_duplicate" + ext
		if !taken(filepath.Join(destDir, candidate)) {
			return candidate
		}
		next = 2
	}

	for n := next; ; n++ {
		candidate := base + "_duplicate_" + strconv.Itoa(n) + ext
		if !taken(filepath.Join(destDir, candidate)) {
			return candidate
		}
	}
}

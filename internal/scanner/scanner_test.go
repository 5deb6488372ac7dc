package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/spf13/afero"
)

// newTree creates the given files (and their parents) on an in-memory filesystem.
func newTree(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/src", 0755); err != nil {
		t.Fatalf("failed to create root: %v", err)
	}
	for _, f := range files {
		if err := fs.MkdirAll(filepath.Dir(f), 0755); err != nil {
			t.Fatalf("failed to create parent of %s: %v", f, err)
		}
		if err := afero.WriteFile(fs, f, []byte("content"), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", f, err)
		}
	}
	return fs
}

func collect(t *testing.T, fs afero.Fs, root string, opts Options) ([]FileEntry, []error) {
	t.Helper()
	var entries []FileEntry
	var errs []error
	for entry, err := range Walk(fs, root, opts) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, errs
}

func paths(entries []FileEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.FullPath)
	}
	return out
}

func TestWalkYieldsPreOrderLexical(t *testing.T) {
	fs := newTree(t, "/src/b.txt", "/src/a/z.md", "/src/a/inner/y.md", "/src/c/x.md")

	entries, errs := collect(t, fs, "/src", DefaultOptions())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := []string{
		"/src",
		"/src/a",
		"/src/a/inner",
		"/src/a/inner/y.md",
		"/src/a/z.md",
		"/src/b.txt",
		"/src/c",
		"/src/c/x.md",
	}
	if got := paths(entries); !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() order = %v, want %v", got, want)
	}
}

func TestWalkReportsDepthAndKind(t *testing.T) {
	fs := newTree(t, "/src/a/note.md")

	entries, _ := collect(t, fs, "/src", DefaultOptions())
	want := []FileEntry{
		{Name: "src", FullPath: "/src", Depth: 0, IsDir: true},
		{Name: "a", FullPath: "/src/a", Depth: 1, IsDir: true},
		{Name: "note.md", FullPath: "/src/a/note.md", Depth: 2, IsFile: true},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("Walk() = %+v, want %+v", entries, want)
	}
}

func TestWalkDepthLimits(t *testing.T) {
	fs := newTree(t, "/src/top.txt", "/src/a/mid.txt", "/src/a/b/deep.txt")

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "unlimited",
			opts: Options{MaxDepth: -1},
			want: []string{"/src", "/src/a", "/src/a/b", "/src/a/b/deep.txt", "/src/a/mid.txt", "/src/top.txt"},
		},
		{
			name: "max depth zero yields only the root",
			opts: Options{MaxDepth: 0},
			want: []string{"/src"},
		},
		{
			name: "max depth one",
			opts: Options{MaxDepth: 1},
			want: []string{"/src", "/src/a", "/src/top.txt"},
		},
		{
			name: "min depth skips shallow entries but still descends",
			opts: Options{MinDepth: 2, MaxDepth: -1},
			want: []string{"/src/a/b", "/src/a/b/deep.txt", "/src/a/mid.txt"},
		},
		{
			name: "min and max depth window",
			opts: Options{MinDepth: 2, MaxDepth: 2},
			want: []string{"/src/a/b", "/src/a/mid.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, errs := collect(t, fs, "/src", tt.opts)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if got := paths(entries); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Walk() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalkMissingRoot(t *testing.T) {
	fs := afero.NewMemMapFs()

	entries, errs := collect(t, fs, "/missing", DefaultOptions())
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %v", entries)
	}
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	var scanErr *ScanError
	if !errors.As(errs[0], &scanErr) {
		t.Fatalf("expected ScanError, got %T", errs[0])
	}
	if scanErr.Type != DirectoryNotFound {
		t.Errorf("expected DirectoryNotFound, got %s", scanErr.Type)
	}
}

func TestWalkRootIsFile(t *testing.T) {
	fs := newTree(t, "/src/file.txt")

	_, errs := collect(t, fs, "/src/file.txt", DefaultOptions())
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	var scanErr *ScanError
	if !errors.As(errs[0], &scanErr) || scanErr.Type != DirectoryNotFound {
		t.Errorf("expected DirectoryNotFound ScanError, got %v", errs[0])
	}
}

func TestWalkStopsWhenConsumerBreaks(t *testing.T) {
	fs := newTree(t, "/src/a.txt", "/src/b.txt", "/src/c.txt")

	var seen []string
	for entry, err := range Walk(fs, "/src", Options{MinDepth: 1, MaxDepth: -1}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen = append(seen, entry.Name)
		if entry.Name == "b.txt" {
			break
		}
	}

	if want := []string{"a.txt", "b.txt"}; !reflect.DeepEqual(seen, want) {
		t.Errorf("seen = %v, want %v", seen, want)
	}
}

func TestScanErrorMessage(t *testing.T) {
	err := &ScanError{Type: PermissionDenied, Path: "/src/private", Err: os.ErrPermission}
	if got := err.Error(); got != "PERMISSION_DENIED: /src/private: permission denied" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("expected ScanError to unwrap to os.ErrPermission")
	}
}

func TestWalkSymlinks(t *testing.T) {
	root := t.TempDir()
	target := t.TempDir()
	if err := os.WriteFile(filepath.Join(target, "linked.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "plain.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(root, "dirlink")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "plain.txt"), filepath.Join(root, "filelink")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	fs := afero.NewOsFs()

	t.Run("not followed", func(t *testing.T) {
		entries, errs := collect(t, fs, root, Options{MinDepth: 1, MaxDepth: -1})
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		var files []string
		for _, e := range entries {
			if e.IsFile {
				files = append(files, e.Name)
			}
			if e.Name == "dirlink" && e.IsDir {
				t.Error("symlinked directory must not be reported as a directory")
			}
		}
		if want := []string{"plain.txt"}; !reflect.DeepEqual(files, want) {
			t.Errorf("files = %v, want %v", files, want)
		}
	})

	t.Run("followed", func(t *testing.T) {
		entries, errs := collect(t, fs, root, Options{MinDepth: 1, MaxDepth: -1, FollowSymlinks: true})
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		var files []string
		for _, e := range entries {
			if e.IsFile {
				files = append(files, e.Name)
			}
		}
		sort.Strings(files)
		if want := []string{"filelink", "linked.txt", "plain.txt"}; !reflect.DeepEqual(files, want) {
			t.Errorf("files = %v, want %v", files, want)
		}
	})
}

func TestWalkDetectsSymlinkLoop(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.Symlink(root, filepath.Join(sub, "back")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, errs := collect(t, afero.NewOsFs(), root, Options{MaxDepth: -1, FollowSymlinks: true})
	if len(errs) != 1 {
		t.Fatalf("expected one loop error, got %v", errs)
	}
	var scanErr *ScanError
	if !errors.As(errs[0], &scanErr) || scanErr.Type != SymlinkLoop {
		t.Errorf("expected SymlinkLoop, got %v", errs[0])
	}
}

// genRelativeFiles generates up to 8 relative file paths at most three levels deep.
func genRelativeFiles() gopter.Gen {
	segment := gen.OneConstOf("a", "b", "c", "d")
	path := gopter.CombineGens(gen.IntRange(0, 2), gen.SliceOfN(3, segment), gen.OneConstOf("x.txt", "y.md", "z.log")).
		Map(func(vals []interface{}) string {
			depth := vals[0].(int)
			segs := vals[1].([]string)[:depth]
			return filepath.Join(append(slices.Clone(segs), vals[2].(string))...)
		})
	return gen.SliceOfN(8, path)
}

func TestWalkProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("every created file is yielded exactly once", prop.ForAll(
		func(rel []string) bool {
			fs := afero.NewMemMapFs()
			_ = fs.MkdirAll("/src", 0755)
			want := map[string]bool{}
			for _, r := range rel {
				full := filepath.Join("/src", r)
				_ = fs.MkdirAll(filepath.Dir(full), 0755)
				if err := afero.WriteFile(fs, full, []byte("x"), 0644); err != nil {
					// a segment already exists as a file; skip it
					continue
				}
				want[full] = true
			}

			got := map[string]int{}
			for entry, err := range Walk(fs, "/src", DefaultOptions()) {
				if err != nil {
					return false
				}
				if entry.IsFile {
					got[entry.FullPath]++
				}
			}
			if len(got) != len(want) {
				return false
			}
			for p, n := range got {
				if n != 1 || !want[p] {
					return false
				}
			}
			return true
		},
		genRelativeFiles(),
	))

	properties.Property("depths respect the configured window", prop.ForAll(
		func(rel []string, minDepth, maxDepth int) bool {
			if minDepth > maxDepth {
				minDepth, maxDepth = maxDepth, minDepth
			}
			fs := afero.NewMemMapFs()
			_ = fs.MkdirAll("/src", 0755)
			for _, r := range rel {
				full := filepath.Join("/src", r)
				_ = fs.MkdirAll(filepath.Dir(full), 0755)
				_ = afero.WriteFile(fs, full, []byte("x"), 0644)
			}
			for entry, err := range Walk(fs, "/src", Options{MinDepth: minDepth, MaxDepth: maxDepth}) {
				if err != nil {
					return false
				}
				if entry.Depth < minDepth || entry.Depth > maxDepth {
					return false
				}
			}
			return true
		},
		genRelativeFiles(),
		gen.IntRange(0, 3),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}

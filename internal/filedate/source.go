package filedate

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
)

// Source reads the raw timestamps of a file.
type Source interface {
	Times(path string) (Times, error)
}

// FSSource reads timestamps through an afero filesystem. On the real OS
// filesystem it asks the platform for birth and access times; other
// filesystems only report a modification time.
type FSSource struct {
	fs   afero.Fs
	isOS bool
}

// NewFSSource creates a Source backed by fs.
func NewFSSource(fs afero.Fs) *FSSource {
	_, isOS := fs.(*afero.OsFs)
	return &FSSource{fs: fs, isOS: isOS}
}

// NewOSSource creates a Source for the real filesystem.
func NewOSSource() *FSSource {
	return NewFSSource(afero.NewOsFs())
}

// Times stats path and returns its timestamps.
func (s *FSSource) Times(path string) (Times, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return Times{}, fmt.Errorf("failed to get metadata for %s: %w", path, err)
	}

	if s.isOS {
		return platformTimes(path, info)
	}

	return fallbackTimes(info), nil
}

// fallbackTimes is used when the platform offers nothing beyond os.FileInfo.
func fallbackTimes(info os.FileInfo) Times {
	return Times{Modified: info.ModTime()}
}

// epochTime converts a raw stat timestamp. Platforms report a missing
// timestamp as all zeros, which maps to the zero time.
func epochTime(sec, nsec int64) time.Time {
	if sec == 0 && nsec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, nsec)
}

// Compile-time check that FSSource implements Source.
var _ Source = (*FSSource)(nil)

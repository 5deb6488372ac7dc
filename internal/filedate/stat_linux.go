//go:build linux

package filedate

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// platformTimes uses statx so the birth time is available where the
// filesystem records it.
func platformTimes(path string, info os.FileInfo) (Times, error) {
	var stx unix.Statx_t
	mask := unix.STATX_BTIME | unix.STATX_ATIME | unix.STATX_MTIME
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, mask, &stx); err != nil {
		// Kernels before 4.11 have no statx.
		return statTimes(info), nil
	}

	times := Times{
		Modified: statxTime(stx.Mtime),
		Accessed: statxTime(stx.Atime),
	}
	if stx.Mask&unix.STATX_BTIME != 0 {
		times.Created = statxTime(stx.Btime)
	}
	return times, nil
}

func statxTime(ts unix.StatxTimestamp) time.Time {
	return epochTime(ts.Sec, int64(ts.Nsec))
}

func statTimes(info os.FileInfo) Times {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fallbackTimes(info)
	}
	return Times{
		Modified: info.ModTime(),
		Accessed: time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec)),
	}
}

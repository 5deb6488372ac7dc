//go:build darwin

package filedate

import (
	"os"
	"syscall"
)

func platformTimes(_ string, info os.FileInfo) (Times, error) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fallbackTimes(info), nil
	}
	return Times{
		Created:  epochTime(st.Birthtimespec.Unix()),
		Modified: info.ModTime(),
		Accessed: epochTime(st.Atimespec.Unix()),
	}, nil
}

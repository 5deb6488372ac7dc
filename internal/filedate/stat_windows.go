//go:build windows

package filedate

import (
	"os"
	"syscall"
	"time"
)

func platformTimes(_ string, info os.FileInfo) (Times, error) {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return fallbackTimes(info), nil
	}
	return Times{
		Created:  time.Unix(0, data.CreationTime.Nanoseconds()),
		Modified: time.Unix(0, data.LastWriteTime.Nanoseconds()),
		Accessed: time.Unix(0, data.LastAccessTime.Nanoseconds()),
	}, nil
}

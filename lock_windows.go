//go:build windows

package logwriter

import (
	"os"

	"golang.org/x/sys/windows"
)

// allBytes locks the whole file range regardless of its current size
const allBytes = ^uint32(0)

// lockFile blocks until LockFileEx grants an exclusive lock on f.
func lockFile(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(f.Fd()), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, allBytes, allBytes, ol)
}

func unlockFile(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, allBytes, allBytes, ol)
}

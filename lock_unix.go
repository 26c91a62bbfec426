//go:build unix

package logwriter

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// lockFile blocks until an exclusive flock(2) is held on f.
// flock locks belong to the open file description, so two descriptors in the same
// process exclude each other as well.
func lockFile(f *os.File) error {
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

func unlockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

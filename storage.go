package logwriter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// ensureDirectory creates the log directory and any missing parents.
// A path that exists but is not a directory is an error.
func ensureDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return newLogError(ErrDirectory, "stat", dir, fmt.Errorf("not a directory"))
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return newLogError(ErrDirectory, "stat", dir, err)
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return newLogError(ErrDirectory, "mkdir", dir, err)
	}
	return nil
}

// fileExists reports whether path exists, treating stat errors other than not-exist as existing
// so that a later rename or remove reports the real problem.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// appendLine opens path for append, holds an exclusive lock for the write and closes the file.
func appendLine(path string, line []byte) (err error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return newLogError(ErrWrite, "open", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = newLogError(ErrWrite, "close", path, cerr)
		}
	}()

	if err := lockFile(file); err != nil {
		return newLogError(ErrWrite, "lock", path, err)
	}
	defer func() {
		if uerr := unlockFile(file); uerr != nil && err == nil {
			err = newLogError(ErrWrite, "unlock", path, uerr)
		}
	}()

	if _, err := file.Write(line); err != nil {
		return newLogError(ErrWrite, "write", path, err)
	}
	return nil
}

// withFileLock runs fn while holding an exclusive lock on the sidecar lock file at path.
func withFileLock(path string, fn func() error) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, filePerm)
	if err != nil {
		return newLogError(ErrWrite, "open lock", path, err)
	}
	defer file.Close()

	if err := lockFile(file); err != nil {
		return newLogError(ErrWrite, "lock", path, err)
	}
	defer func() {
		if uerr := unlockFile(file); uerr != nil && err == nil {
			err = newLogError(ErrWrite, "unlock", path, uerr)
		}
	}()

	return fn()
}

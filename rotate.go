package logwriter

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
)

// generationPath returns the name of rotated generation n of the active file at path.
func generationPath(path string, n int64) string {
	return path + "." + strconv.FormatInt(n, 10)
}

// rotateIfNeeded shifts the generations of path when the active file has reached maxSize.
//
// Generations are walked from maxFiles-1 down to 1: the one at maxFiles-1 is removed,
// every other one moves up by one, then the active file becomes generation 1.
// With maxFiles 1 the walk is empty and the rename replaces any existing generation 1.
// Failed steps do not stop the remaining ones; their errors are joined.
func rotateIfNeeded(path string, maxSize, maxFiles int64) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return newLogError(ErrRotation, "stat", path, err)
	}
	if info.Size() < maxSize {
		return nil
	}

	var errs []error
	for i := maxFiles - 1; i > 0; i-- {
		oldFile := generationPath(path, i)
		if !fileExists(oldFile) {
			continue
		}

		if i == maxFiles-1 {
			if err := os.Remove(oldFile); err != nil {
				errs = append(errs, newLogError(ErrRotation, "remove", oldFile, err))
			}
			continue
		}
		if err := os.Rename(oldFile, generationPath(path, i+1)); err != nil {
			errs = append(errs, newLogError(ErrRotation, "rename", oldFile, err))
		}
	}

	if err := os.Rename(path, generationPath(path, 1)); err != nil {
		errs = append(errs, newLogError(ErrRotation, "rename", path, err))
	}
	return errors.Join(errs...)
}

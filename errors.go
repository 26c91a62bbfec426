package logwriter

import (
	"errors"
	"fmt"
)

// Failure kinds of a log call. A *LogError matches its kind with errors.Is.
var (
	ErrDirectory     = errors.New("log directory unavailable")
	ErrRotation      = errors.New("log rotation failed")
	ErrSerialization = errors.New("log context serialization failed")
	ErrWrite         = errors.New("log write failed")
)

// LogError describes one failed step of a log call.
type LogError struct {
	Kind error  // one of ErrDirectory, ErrRotation, ErrSerialization, ErrWrite
	Op   string // the step that failed, e.g. "rename" or "lock"
	Path string
	Err  error
}

func (e *LogError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%v: %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *LogError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func newLogError(kind error, op, path string, err error) *LogError {
	return &LogError{Kind: kind, Op: op, Path: path, Err: err}
}

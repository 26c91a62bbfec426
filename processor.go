package logwriter

import (
	"errors"
	"fmt"
)

// log is the single entry point behind Log and the severity wrappers.
// Every failure is recorded and swallowed; the result reports whether the line was written.
func (w *LogWriter) log(level string, message any, fields []Field) (written bool) {
	defer func() {
		if r := recover(); r != nil {
			w.fail(level, fmt.Errorf("%w: panic: %v", ErrWrite, r), true)
			written = false
		}
	}()

	err := w.write(level, message, fields)
	if err == nil {
		return true
	}

	lost := isLost(err)
	w.fail(level, err, lost)
	return !lost
}

// write formats the record, ensures the directory, rotates if needed and appends the line.
// Serialization and rotation errors are degraded outcomes: the line is still written and
// the errors are returned together with any later failure.
func (w *LogWriter) write(level string, message any, fields []Field) error {
	s := newSerializer()
	line, serr := s.serialize(w.now(), level, stringifyMessage(message), fields)
	if serr != nil {
		serr = newLogError(ErrSerialization, "encode", "", serr)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := ensureDirectory(w.cfg.Directory); err != nil {
		return errors.Join(serr, err)
	}

	var rerr error
	commit := func() error {
		rerr = rotateIfNeeded(w.path, w.cfg.MaxFileSize, w.cfg.MaxFiles)
		return appendLine(w.path, line)
	}

	var werr error
	if w.cfg.SerializeRotation {
		werr = withFileLock(w.lockPath, commit)
	} else {
		werr = commit()
	}
	return errors.Join(serr, rerr, werr)
}

// isLost reports whether err means the line did not reach the file.
func isLost(err error) bool {
	return errors.Is(err, ErrDirectory) || errors.Is(err, ErrWrite)
}

// fail records err for LastError and reports it to the diagnostic logger.
func (w *LogWriter) fail(level string, err error, lost bool) {
	w.lastErr.Store(&errorHolder{err: err})
	if lost {
		w.dropped.Add(1)
	}

	event := w.diag.Warn()
	if lost {
		event = w.diag.Error()
	}
	event.Err(err).
		Str("log_level", level).
		Bool("dropped", lost).
		Uint64("dropped_total", w.dropped.Load()).
		Msg("log call failed")
}

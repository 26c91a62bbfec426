package logwriter

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// LogWriter appends formatted records to a size-bounded, rotated set of files.
// It is safe for concurrent use. All methods are synchronous.
type LogWriter struct {
	cfg      Config
	path     string
	lockPath string

	mu   sync.Mutex
	diag zerolog.Logger
	now  func() time.Time

	lastErr atomic.Pointer[errorHolder]
	dropped atomic.Uint64
}

type errorHolder struct {
	err error
}

// New returns a writer for the given configuration, merged over DefaultConfig.
// It does not touch the filesystem; the directory and the active file are created on the first write.
// The only error is an invalid configuration.
func New(cfg ...*Config) (*LogWriter, error) {
	merged, err := mergeConfig(cfg...)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(merged.Directory, merged.FileName)
	w := &LogWriter{
		cfg:      merged,
		path:     path,
		lockPath: path + ".lock",
		diag:     zerolog.Nop(),
		now:      time.Now,
	}
	if merged.Diagnostics != nil {
		w.diag = merged.Diagnostics.With().Str("log_file", path).Logger()
	}
	return w, nil
}

// Path returns the path of the active log file.
func (w *LogWriter) Path() string {
	return w.path
}

// Config returns a copy of the writer configuration.
func (w *LogWriter) Config() Config {
	return w.cfg
}

// LastError returns the most recent failure of a log call, or nil.
// A later successful call does not clear it.
func (w *LogWriter) LastError() error {
	if h := w.lastErr.Load(); h != nil {
		return h.err
	}
	return nil
}

// Dropped returns the number of log calls whose line never reached the file.
func (w *LogWriter) Dropped() uint64 {
	return w.dropped.Load()
}

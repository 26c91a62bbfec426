// Package quick provides a process-wide default LogWriter behind package-level functions.
// The writer is created on first use from LOGWRITER_* environment variables and can be
// replaced with Init or Config.
package quick

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/LixenWraith/logwriter"
)

var (
	current  atomic.Pointer[logwriter.LogWriter]
	disabled atomic.Bool
	initMu   sync.Mutex
)

// Debug logs a message at DEBUG level on the default writer.
func Debug(message any, fields ...logwriter.Field) bool {
	return Log(logwriter.LevelDebug, message, fields...)
}

// Info logs a message at INFO level on the default writer.
func Info(message any, fields ...logwriter.Field) bool {
	return Log(logwriter.LevelInfo, message, fields...)
}

// Notice logs a message at NOTICE level on the default writer.
func Notice(message any, fields ...logwriter.Field) bool {
	return Log(logwriter.LevelNotice, message, fields...)
}

// Warning logs a message at WARNING level on the default writer.
func Warning(message any, fields ...logwriter.Field) bool {
	return Log(logwriter.LevelWarning, message, fields...)
}

// Error logs a message at ERROR level on the default writer.
func Error(message any, fields ...logwriter.Field) bool {
	return Log(logwriter.LevelError, message, fields...)
}

// Critical logs a message at CRITICAL level on the default writer.
func Critical(message any, fields ...logwriter.Field) bool {
	return Log(logwriter.LevelCritical, message, fields...)
}

// Alert logs a message at ALERT level on the default writer.
func Alert(message any, fields ...logwriter.Field) bool {
	return Log(logwriter.LevelAlert, message, fields...)
}

// Emergency logs a message at EMERGENCY level on the default writer.
func Emergency(message any, fields ...logwriter.Field) bool {
	return Log(logwriter.LevelEmergency, message, fields...)
}

// Log writes a record with an arbitrary level on the default writer.
// Messages are dropped silently if the default writer cannot be initialized.
func Log(level string, message any, fields ...logwriter.Field) bool {
	w := ensureInitialized()
	if w == nil {
		return false
	}
	return w.Log(level, message, fields...)
}

// Init replaces the default writer with one built from cfg.
func Init(cfg *logwriter.Config) error {
	w, err := logwriter.New(cfg)
	if err != nil {
		return err
	}

	initMu.Lock()
	defer initMu.Unlock()
	current.Store(w)
	disabled.Store(false)
	return nil
}

// Config replaces the default writer using "key=value" statements applied over the environment.
// e.g. quick.Config("directory=/var/log/app", "max_file_size=5MB", "max_files=3")
func Config(args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("no config provided")
	}

	cfg, err := config(args...)
	if err != nil {
		return err
	}
	return Init(cfg)
}

// Writer returns the default writer, initializing it if needed. It is nil when
// initialization from the environment failed.
func Writer() *logwriter.LogWriter {
	return ensureInitialized()
}

// LastError returns the last failure of the default writer.
func LastError() error {
	if w := current.Load(); w != nil {
		return w.LastError()
	}
	return nil
}

// ensureInitialized returns the default writer, creating it from the environment on first use.
func ensureInitialized() *logwriter.LogWriter {
	if w := current.Load(); w != nil {
		return w
	}
	// If previous initialization failed, drop logs silently
	if disabled.Load() {
		return nil
	}

	initMu.Lock()
	defer initMu.Unlock()

	// Double check both conditions after lock
	if w := current.Load(); w != nil {
		return w
	}
	if disabled.Load() {
		return nil
	}

	cfg, err := loadEnv()
	if err != nil {
		disabled.Store(true)
		return nil
	}
	w, err := logwriter.New(cfg)
	if err != nil {
		disabled.Store(true)
		return nil
	}
	current.Store(w)
	return w
}

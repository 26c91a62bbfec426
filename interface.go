package logwriter

// Severity labels written by the named wrappers, following the syslog
// eight-level taxonomy. Log accepts any other label verbatim.
const (
	LevelDebug     = "DEBUG"
	LevelInfo      = "INFO"
	LevelNotice    = "NOTICE"
	LevelWarning   = "WARNING"
	LevelError     = "ERROR"
	LevelCritical  = "CRITICAL"
	LevelAlert     = "ALERT"
	LevelEmergency = "EMERGENCY"
)

// Log appends one record with the given level, written exactly as passed.
// The message is converted to text, nil becomes an empty string.
// It never panics and never returns an error; the result reports whether the line reached the file.
func (w *LogWriter) Log(level string, message any, fields ...Field) bool {
	return w.log(level, message, fields)
}

// Debug logs a message at DEBUG level.
func (w *LogWriter) Debug(message any, fields ...Field) bool {
	return w.log(LevelDebug, message, fields)
}

// Info logs a message at INFO level.
func (w *LogWriter) Info(message any, fields ...Field) bool {
	return w.log(LevelInfo, message, fields)
}

// Notice logs a message at NOTICE level.
func (w *LogWriter) Notice(message any, fields ...Field) bool {
	return w.log(LevelNotice, message, fields)
}

// Warning logs a message at WARNING level.
func (w *LogWriter) Warning(message any, fields ...Field) bool {
	return w.log(LevelWarning, message, fields)
}

// Error logs a message at ERROR level.
func (w *LogWriter) Error(message any, fields ...Field) bool {
	return w.log(LevelError, message, fields)
}

// Critical logs a message at CRITICAL level.
func (w *LogWriter) Critical(message any, fields ...Field) bool {
	return w.log(LevelCritical, message, fields)
}

// Alert logs a message at ALERT level.
func (w *LogWriter) Alert(message any, fields ...Field) bool {
	return w.log(LevelAlert, message, fields)
}

// Emergency logs a message at EMERGENCY level.
func (w *LogWriter) Emergency(message any, fields ...Field) bool {
	return w.log(LevelEmergency, message, fields)
}

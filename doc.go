// Package logwriter provides a synchronous, file-based structured logger with
// size-triggered rotation of numbered generations.
//
// Features:
//   - One text line per record: [timestamp] [LEVEL] message {context-json}
//   - Free-form levels plus named wrappers for the eight standard severities
//   - Ordered structured context with a closed value type
//   - Rotation of the active file into name.1, name.2, ... before each write
//   - Exclusive advisory file lock around every append
//   - Logging never panics or returns errors; failures are counted and reported
//     through LastError and an optional zerolog diagnostic logger
//   - Per-instance configuration, no shared global state
//
// Lixen Wraith, 2024
package logwriter

//go:build !unix && !windows

package logwriter

import "os"

// No advisory lock on this platform; the writer mutex is the only exclusion,
// which is only sufficient for a single process.
func lockFile(*os.File) error   { return nil }
func unlockFile(*os.File) error { return nil }

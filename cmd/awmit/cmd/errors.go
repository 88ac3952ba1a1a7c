package cmd

import (
	"strings"

	"github.com/corey/awmit/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// dbLockHint returns actionable guidance for a locked gap log.
func dbLockHint(dbPath string) string {
	if dbPath == "" {
		dbPath = app.NewPaths(workDir()).DB
	}
	return "gap log " + dbPath + " is locked by another process\n" +
		"  → a running 'awmit serve' holds it; stop it first\n" +
		"  → or serve with --no-gaps, or point --db elsewhere"
}

package engine

import "strings"

// isBusyError checks if the error is a SQLITE_BUSY error.
// This occurs when the database is locked by another connection.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "SQLITE_BUSY")
}

// isLockedError checks if the error is a "database is locked" error.
// This is another form of SQLite concurrency error.
func isLockedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "database is locked")
}

// isConflictError reports either form of SQLite concurrency error.
// These typically warrant a retry.
func isConflictError(err error) bool {
	return isBusyError(err) || isLockedError(err)
}

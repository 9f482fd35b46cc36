// Package shared holds helpers used by more than one storage package.
//
//nolint:revive // "shared" is an intentional package name for cross-cutting helpers.
package shared

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// conflictMessages are matched when the driver error has been flattened
// into a string somewhere up the stack.
var conflictMessages = []string{"SQLITE_BUSY", "database is locked", "database table is locked"}

// IsSQLiteConflictError reports whether a write failed only because another
// connection held the lock, so retrying it may succeed.
func IsSQLiteConflictError(err error) bool {
	if err == nil {
		return false
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
	}

	msg := err.Error()
	for _, m := range conflictMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

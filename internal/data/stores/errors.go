package stores

import (
	"database/sql"
	"errors"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IsBusyError returns true if the error is a SQLITE_BUSY error.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_BUSY
	}
	return false
}

// IsNotFoundError returns true if the error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// retryBusy runs fn, retrying with exponential backoff while it fails with
// SQLITE_BUSY. A concurrent writer can still produce SQLITE_BUSY past the
// connection's busy_timeout under sustained WAL contention. Success and
// non-busy errors return immediately.
func retryBusy(attempts int, wait time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !IsBusyError(err) {
			return err
		}
		time.Sleep(wait)
		wait *= 2
	}
	return err
}

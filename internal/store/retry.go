package store

import (
	"context"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// isTransientSQLiteErr reports whether err is a lock or WAL contention
// error that can clear on its own. busy_timeout absorbs most SQLITE_BUSY
// cases at the connection level; the rest surface here.
func isTransientSQLiteErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
		"IOERR_SHORT_READ",
		"database is locked",
		"database table is locked",
		"(5)",   // SQLITE_BUSY
		"(6)",   // SQLITE_LOCKED
		"(522)", // SQLITE_IOERR_SHORT_READ
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// retryOnContention runs fn, retrying transient SQLite errors with jittered
// exponential backoff. Any other error is returned immediately.
func retryOnContention(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(4),
		retry.Delay(50*time.Millisecond),
		retry.MaxDelay(500*time.Millisecond),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.RetryIf(isTransientSQLiteErr),
		retry.LastErrorOnly(true),
	)
}

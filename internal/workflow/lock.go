package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"clipreel/internal/faults"
)

const lockRetryDelay = 100 * time.Millisecond

// LockPath returns the advisory lock file guarding usageFile.
func LockPath(usageFile string) string {
	return usageFile + ".lock"
}

// acquireLock takes the usage file lock, waiting up to timeout. A zero
// timeout tries exactly once.
func acquireLock(ctx context.Context, usageFile string, timeout time.Duration) (*flock.Flock, error) {
	lockPath := LockPath(usageFile)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrPersistence, "acquire lock", "create state directory", err)
	}

	lock := flock.New(lockPath)
	var (
		ok  bool
		err error
	)
	if timeout <= 0 {
		ok, err = lock.TryLock()
	} else {
		lockCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		ok, err = lock.TryLockContext(lockCtx, lockRetryDelay)
		if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = nil
		}
	}
	if err != nil {
		return nil, faults.Wrap(faults.ErrPersistence, "acquire lock", lockPath, err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrPersistence, "acquire lock",
			fmt.Sprintf("another clipreel run holds %s (waited %s)", lockPath, timeout), nil)
	}
	return lock, nil
}

package workflow

import (
	"context"

	"clipreel/internal/config"
	"clipreel/internal/usage"
)

// ResetUsage forgets the given clip ids, or every record when all is set,
// under the usage file lock. It returns how many records were removed.
func ResetUsage(ctx context.Context, cfg *config.Config, ids []string, all bool) (int, error) {
	lock, err := acquireLock(ctx, cfg.State.UsageFile, cfg.LockTimeout())
	if err != nil {
		return 0, err
	}
	defer func() { _ = lock.Unlock() }()

	store, err := usage.Load(cfg.State.UsageFile)
	if err != nil {
		return 0, err
	}
	if all {
		ids = store.IDs()
	}
	next := store.Forget(ids)
	removed := store.Len() - next.Len()
	if removed == 0 {
		return 0, nil
	}
	if err := usage.Save(cfg.State.UsageFile, next); err != nil {
		return 0, err
	}
	return removed, nil
}

package database

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"
)

// AdvisoryLockKeys takes transaction scoped advisory locks on every key.
// Keys are locked in sorted order so two transactions sharing keys cannot
// deadlock. Locks are released on commit or rollback.
func AdvisoryLockKeys(ctx context.Context, tx sqlx.ExecerContext, namespace string, keys []string) error {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	for _, key := range sorted {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, namespace+":"+key); err != nil {
			return err
		}
	}
	return nil
}

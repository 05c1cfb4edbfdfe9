package lock

import (
	"context"
	"fmt"

	"pawnshop-ledger/internal/domain/errs"
)

// ErrNotObtained is returned when a key stays held past the wait budget.
var ErrNotObtained = fmt.Errorf("%w: lock not obtained", errs.ErrStorage)

// Locker serializes work on one key (a loan id) across callers.
type Locker interface {
	// Lock blocks until key is held or ctx/the wait budget runs out. The
	// returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

package lock

import (
	"context"
	"fmt"
	"sync"

	domainlock "pawnshop-ledger/internal/domain/lock"
)

// Local is an in-process keyed mutex for single-instance deployments.
// Waiters give up when their context ends.
type Local struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

var _ domainlock.Locker = (*Local)(nil)

func NewLocal() *Local { return &Local{held: make(map[string]chan struct{})} }

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	for {
		l.mu.Lock()
		released, busy := l.held[key]
		if !busy {
			ch := make(chan struct{})
			l.held[key] = ch
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, key)
					l.mu.Unlock()
					close(ch)
				})
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-released:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", domainlock.ErrNotObtained, key, ctx.Err())
		}
	}
}

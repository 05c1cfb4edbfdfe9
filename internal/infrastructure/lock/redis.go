package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"

	domainlock "pawnshop-ledger/internal/domain/lock"
)

const (
	redisLockTTL   = 30 * time.Second
	redisLockRetry = 50 * time.Millisecond
)

// Redis holds per-key locks in Redis so several API instances serialize
// on the same loan.
type Redis struct {
	client  *redislock.Client
	prefix  string
	retries int
	log     *logrus.Logger
}

var _ domainlock.Locker = (*Redis)(nil)

// NewRedis builds a locker that waits up to wait for a busy key.
func NewRedis(rdb redislock.RedisClient, prefix string, wait time.Duration, log *logrus.Logger) *Redis {
	retries := int(wait / redisLockRetry)
	if retries < 1 {
		retries = 1
	}
	return &Redis{client: redislock.New(rdb), prefix: prefix, retries: retries, log: log}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(redisLockRetry), r.retries),
	}
	l, err := r.client.Obtain(ctx, r.prefix+key, redisLockTTL, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", domainlock.ErrNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}
	return func() {
		if err := l.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			r.log.WithFields(logrus.Fields{"module": "lock", "key": key}).Warn("release: " + err.Error())
		}
	}, nil
}

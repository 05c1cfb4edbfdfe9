package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"pawnshop-ledger/internal/domain/customer"
	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/domain/interest"
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/payment"
	"pawnshop-ledger/internal/domain/record"
	"pawnshop-ledger/internal/infrastructure/logging"
)

const moduleName = "mirror"

// maxRounds bounds how often a push restarts because a local write landed
// while it was in flight.
const maxRounds = 3

// ErrLocalChurn is returned when local writes keep overtaking a push.
var ErrLocalChurn = errors.New("collection changed locally during every push")

// LocalStore is the authoritative side of replication.
type LocalStore interface {
	record.Store
	record.SyncTracker
	Batch(ctx context.Context, fn func(tx record.Store) error) error
	ReadRevision(ctx context.Context, c record.Collection) ([]byte, int64, error)
	MarkSyncedIf(ctx context.Context, c record.Collection, version string, rev int64) (bool, error)
}

// shapes decodes a remote payload into the records of its collection.
var shapes = map[record.Collection]func([]byte) error{
	record.Customers:       decodeAs[customer.Customer],
	record.Loans:           decodeAs[loan.Loan],
	record.Payments:        decodeAs[payment.Payment],
	record.InterestHistory: decodeAs[interest.Entry],
}

func decodeAs[T any](data []byte) error {
	var out []T
	return json.Unmarshal(data, &out)
}

type Options struct {
	// Timeout bounds each remote call.
	Timeout time.Duration
	// MaxAttempts bounds tries per collection, conflicts included.
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 3
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = 200 * time.Millisecond
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 2 * time.Second
	}
	return o
}

// Replicator copies collections between the local store and a Remote.
type Replicator struct {
	remote Remote
	local  LocalStore
	opts   Options
	log    *logrus.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewReplicator(remote Remote, local LocalStore, opts Options, log *logrus.Logger) *Replicator {
	return &Replicator{
		remote: remote,
		local:  local,
		opts:   opts.withDefaults(),
		log:    log,
		sleep:  sleepCtx,
	}
}

// Replicate pushes the given collections after a local commit. Failures
// never reach the caller: the collection is flagged unsynced and a
// warning is logged.
func (r *Replicator) Replicate(ctx context.Context, written []record.Collection) {
	// the local write already succeeded; a client going away must not
	// cut the push short
	ctx = context.WithoutCancel(ctx)
	for _, c := range written {
		if _, err := r.pushOne(ctx, c); err != nil {
			logging.LogWarn(r.log, moduleName, "Replicate", "push after commit", string(c), err)
		}
	}
}

// Push sends every collection to the remote. It returns per-collection
// results and a storage error if any collection failed.
func (r *Replicator) Push(ctx context.Context) ([]record.SyncResult, error) {
	results := make([]record.SyncResult, 0, len(record.All))
	var failed []error
	for _, c := range record.All {
		v, err := r.pushOne(ctx, c)
		res := record.SyncResult{Collection: c, Version: v}
		if err != nil {
			res.Error = err.Error()
			failed = append(failed, err)
		}
		results = append(results, res)
	}
	if len(failed) > 0 {
		return results, fmt.Errorf("%w: push failed for %d collection(s): %v", errs.ErrStorage, len(failed), errors.Join(failed...))
	}
	return results, nil
}

func (r *Replicator) pushOne(ctx context.Context, c record.Collection) (string, error) {
	for round := 1; round <= maxRounds; round++ {
		data, rev, err := r.local.ReadRevision(ctx, c)
		if err != nil {
			return "", err
		}
		version, err := r.pushData(ctx, c, data)
		if err != nil {
			if err := r.local.MarkUnsynced(ctx, c, err); err != nil {
				logging.LogError(r.log, moduleName, "pushOne", "mark unsynced", string(c), err)
			}
			return "", err
		}
		ok, err := r.local.MarkSyncedIf(ctx, c, version, rev)
		if err != nil {
			return version, err
		}
		if ok {
			return version, nil
		}
		// the remote now holds an older copy; push the newer one over it
		r.log.WithFields(logrus.Fields{
			"module":     moduleName,
			"collection": string(c),
			"round":      round,
		}).Debug("local write during push, pushing again")
	}

	err := fmt.Errorf("%w: %s", ErrLocalChurn, c)
	if err := r.local.MarkUnsynced(ctx, c, err); err != nil {
		logging.LogError(r.log, moduleName, "pushOne", "mark unsynced", string(c), err)
	}
	return "", err
}

// pushData writes data to the remote, retrying conflicts right away and
// other failures with backoff.
func (r *Replicator) pushData(ctx context.Context, c record.Collection, data []byte) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= r.opts.MaxAttempts; attempt++ {
		version, err := r.tryPush(ctx, c, data)
		if err == nil {
			return version, nil
		}
		lastErr = err
		if attempt == r.opts.MaxAttempts {
			break
		}
		// a conflict means someone else wrote; re-read the token right away
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err := r.sleep(ctx, r.backoff(attempt)); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

// tryPush is one read-token-then-write round.
func (r *Replicator) tryPush(ctx context.Context, c record.Collection, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	path := Path(c)
	_, token, err := r.remote.ReadFile(ctx, path)
	if err != nil && !errors.Is(err, ErrFileNotFound) {
		return "", err
	}
	return r.remote.WriteFile(ctx, path, data, token)
}

// Pull replaces every local collection with the remote copy in one
// transaction. Files missing on the remote become empty collections.
func (r *Replicator) Pull(ctx context.Context) ([]record.SyncResult, error) {
	type fetched struct {
		data    []byte
		version string
	}
	got := make(map[record.Collection]fetched, len(record.All))

	for _, c := range record.All {
		data, version, err := r.fetch(ctx, c)
		if err != nil {
			return nil, err
		}
		got[c] = fetched{data: data, version: version}
	}

	err := r.local.Batch(ctx, func(tx record.Store) error {
		for _, c := range record.All {
			if err := tx.Write(ctx, c, got[c].data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := make([]record.SyncResult, 0, len(record.All))
	for _, c := range record.All {
		res := record.SyncResult{Collection: c, Version: got[c].version}
		if err := r.local.MarkSynced(ctx, c, got[c].version); err != nil {
			res.Error = err.Error()
			logging.LogError(r.log, moduleName, "Pull", "mark synced", string(c), err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Replicator) fetch(ctx context.Context, c record.Collection) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	data, version, err := r.remote.ReadFile(ctx, Path(c))
	if errors.Is(err, ErrFileNotFound) {
		return []byte("[]"), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, "", fmt.Errorf("%w: %s is not a JSON array: %v", errs.ErrStorage, Path(c), err)
	}
	if items == nil {
		return []byte("[]"), version, nil
	}
	if err := shapes[c](data); err != nil {
		return nil, "", fmt.Errorf("%w: %s holds malformed records: %v", errs.ErrStorage, Path(c), err)
	}
	return data, version, nil
}

func (r *Replicator) backoff(attempt int) time.Duration {
	d := time.Duration(float64(r.opts.BaseBackoff) * math.Pow(2, float64(attempt-1)))
	if d > r.opts.MaxBackoff {
		return r.opts.MaxBackoff
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

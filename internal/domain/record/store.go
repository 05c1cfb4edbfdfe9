// Package record defines the record store the ledger persists into: a
// fixed set of named collections, each held as one JSON array and only
// ever read or replaced whole.
package record

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pawnshop-ledger/internal/domain/errs"
)

type Collection string

const (
	Customers       Collection = "customers"
	Loans           Collection = "loans"
	Payments        Collection = "payments"
	InterestHistory Collection = "interest_history"
)

// All lists every collection in a stable order.
var All = []Collection{Customers, Loans, Payments, InterestHistory}

var (
	// ErrUnknownCollection is returned for a name outside All.
	ErrUnknownCollection = fmt.Errorf("%w: unknown collection", errs.ErrValidation)
	// ErrMirrorNotConfigured is returned by push and pull when the store
	// runs local-only.
	ErrMirrorNotConfigured = fmt.Errorf("%w: remote storage not configured", errs.ErrConfiguration)
)

func (c Collection) Valid() bool {
	for _, k := range All {
		if k == c {
			return true
		}
	}
	return false
}

// Store reads and replaces whole collections. Read of a collection that
// was never written returns an empty JSON array.
type Store interface {
	Read(ctx context.Context, c Collection) ([]byte, error)
	Write(ctx context.Context, c Collection, data []byte) error
}

// SyncState describes how a collection's local copy relates to the mirror.
type SyncState struct {
	Collection    Collection `json:"collection"`
	Synced        bool       `json:"synced"`
	RemoteVersion string     `json:"remoteVersion,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	SyncedAt      *time.Time `json:"syncedAt,omitempty"`
}

// SyncResult is the outcome of pushing or pulling one collection.
type SyncResult struct {
	Collection Collection `json:"collection"`
	Version    string     `json:"version,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// SyncTracker is implemented by stores that remember mirror outcomes.
type SyncTracker interface {
	MarkSynced(ctx context.Context, c Collection, version string) error
	MarkUnsynced(ctx context.Context, c Collection, cause error) error
	SyncStates(ctx context.Context) ([]SyncState, error)
}

// Decode reads collection c from s into a slice of T.
func Decode[T any](ctx context.Context, s Store, c Collection) ([]T, error) {
	raw, err := s.Read(ctx, c)
	if err != nil {
		return nil, err
	}
	var out []T
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c, err)
	}
	return out, nil
}

// Encode replaces collection c in s with list. A nil list is written as
// an empty array.
func Encode[T any](ctx context.Context, s Store, c Collection, list []T) error {
	if list == nil {
		list = []T{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	return s.Write(ctx, c, raw)
}

// Package mirror replicates the record store to a remote file store
// (a GitHub repository or a GCS bucket) and pulls it back.
package mirror

import (
	"context"
	"fmt"

	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/domain/record"
)

var (
	ErrFileNotFound  = fmt.Errorf("%w: remote file not found", errs.ErrNotFound)
	ErrConflict      = fmt.Errorf("%w: remote version conflict", errs.ErrStorage)
	ErrNotConfigured = record.ErrMirrorNotConfigured
)

// Remote is a file store with optimistic versioning. A token returned by
// ReadFile must be passed to WriteFile to overwrite that version; an
// empty token means the file is expected not to exist yet.
type Remote interface {
	ReadFile(ctx context.Context, path string) (content []byte, token string, err error)
	WriteFile(ctx context.Context, path string, content []byte, prevToken string) (newToken string, err error)
}

// Path is where a collection lives on the remote.
func Path(c record.Collection) string {
	return "data/" + string(c) + ".json"
}

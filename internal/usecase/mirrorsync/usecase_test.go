package mirrorsync

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"pawnshop-ledger/internal/adapter/repository/gormstore"
	"pawnshop-ledger/internal/config"
	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/domain/record"
	"pawnshop-ledger/internal/testutil/sqlitetest"
)

type fakeReplicator struct {
	pushed, pulled int
	err            error
}

func (f *fakeReplicator) Push(context.Context) ([]record.SyncResult, error) {
	f.pushed++
	return []record.SyncResult{{Collection: record.Loans, Version: "v1"}}, f.err
}

func (f *fakeReplicator) Pull(context.Context) ([]record.SyncResult, error) {
	f.pulled++
	return []record.SyncResult{{Collection: record.Loans, Version: "v1"}}, f.err
}

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestLocalMode_PushPullNotConfigured(t *testing.T) {
	store := gormstore.NewStore(sqlitetest.Open(t))
	cfgErr := config.ErrIncompleteRemote
	uc := NewUsecase(config.LocalMode{}, cfgErr, nil, store, quietLog())
	ctx := context.Background()

	_, err := uc.Push(ctx)
	if !errors.Is(err, record.ErrMirrorNotConfigured) || !errors.Is(err, errs.ErrConfiguration) || !errors.Is(err, cfgErr) {
		t.Fatalf("Push err = %v", err)
	}
	if _, err := uc.Pull(ctx); !errors.Is(err, record.ErrMirrorNotConfigured) {
		t.Fatalf("Pull err = %v", err)
	}

	st, err := uc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Mode != ModeLocal || st.ConfigError == "" || len(st.Collections) != len(record.All) {
		t.Fatalf("status = %+v", st)
	}
}

func TestRemoteMode_Delegates(t *testing.T) {
	store := gormstore.NewStore(sqlitetest.Open(t))
	repl := &fakeReplicator{}
	mode := config.RemoteMode{Remote: config.RemoteConfig{Provider: config.ProviderGCS, Bucket: "b"}}
	uc := NewUsecase(mode, nil, repl, store, quietLog())
	ctx := context.Background()

	if res, err := uc.Push(ctx); err != nil || len(res) != 1 {
		t.Fatalf("Push = %+v, %v", res, err)
	}
	if _, err := uc.Pull(ctx); err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if repl.pushed != 1 || repl.pulled != 1 {
		t.Fatalf("pushed=%d pulled=%d", repl.pushed, repl.pulled)
	}

	st, err := uc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Mode != ModeRemote || st.Provider != config.ProviderGCS || st.ConfigError != "" {
		t.Fatalf("status = %+v", st)
	}

	repl.err = errors.New("mirror down")
	if _, err := uc.Push(ctx); !errors.Is(err, repl.err) {
		t.Fatalf("Push err = %v", err)
	}
}

package mirrorsync

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"pawnshop-ledger/internal/config"
	"pawnshop-ledger/internal/domain/record"
)

// Replicator moves whole collections to and from the remote mirror.
type Replicator interface {
	Push(ctx context.Context) ([]record.SyncResult, error)
	Pull(ctx context.Context) ([]record.SyncResult, error)
}

type Usecase struct {
	mode    config.StorageMode
	modeErr error
	repl    Replicator
	tracker record.SyncTracker
	log     *logrus.Logger
}

// NewUsecase takes the resolved storage mode together with the error that
// came with it, if any. repl is nil in local mode.
func NewUsecase(mode config.StorageMode, modeErr error, repl Replicator, tracker record.SyncTracker, log *logrus.Logger) *Usecase {
	return &Usecase{mode: mode, modeErr: modeErr, repl: repl, tracker: tracker, log: log}
}

func (u *Usecase) notConfigured() error {
	if u.modeErr != nil {
		return errors.Join(record.ErrMirrorNotConfigured, u.modeErr)
	}
	return record.ErrMirrorNotConfigured
}

func (u *Usecase) Push(ctx context.Context) ([]record.SyncResult, error) {
	if u.repl == nil {
		return nil, u.notConfigured()
	}
	res, err := u.repl.Push(ctx)
	if err == nil {
		u.log.WithFields(logrus.Fields{"module": "sync", "collections": len(res)}).Info("pushed to mirror")
	}
	return res, err
}

func (u *Usecase) Pull(ctx context.Context) ([]record.SyncResult, error) {
	if u.repl == nil {
		return nil, u.notConfigured()
	}
	res, err := u.repl.Pull(ctx)
	if err == nil {
		u.log.WithFields(logrus.Fields{"module": "sync", "collections": len(res)}).Info("pulled from mirror")
	}
	return res, err
}

func (u *Usecase) Status(ctx context.Context) (*Status, error) {
	st := &Status{Mode: ModeLocal}
	if rm, ok := u.mode.(config.RemoteMode); ok {
		st.Mode = ModeRemote
		st.Provider = rm.Remote.Provider
	}
	if u.modeErr != nil {
		st.ConfigError = u.modeErr.Error()
	}
	states, err := u.tracker.SyncStates(ctx)
	if err != nil {
		return nil, err
	}
	st.Collections = states
	return st, nil
}

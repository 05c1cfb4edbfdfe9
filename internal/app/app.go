// Package app assembles the ledger from configuration. The API server and
// the operator CLI both start from New.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pawnshop-ledger/internal/adapter/mirror"
	"pawnshop-ledger/internal/adapter/repository/gormstore"
	"pawnshop-ledger/internal/config"
	domainlock "pawnshop-ledger/internal/domain/lock"
	"pawnshop-ledger/internal/infrastructure/cache"
	"pawnshop-ledger/internal/infrastructure/db"
	"pawnshop-ledger/internal/infrastructure/lock"
	"pawnshop-ledger/internal/usecase/accrual"
	"pawnshop-ledger/internal/usecase/customer"
	"pawnshop-ledger/internal/usecase/loan"
	"pawnshop-ledger/internal/usecase/mirrorsync"
	"pawnshop-ledger/internal/usecase/payment"
	"pawnshop-ledger/internal/usecase/report"
)

const lockWait = 10 * time.Second

type App struct {
	Config *config.Config
	Log    *logrus.Logger
	DB     *gorm.DB
	Store  *gormstore.Store
	// Redis is nil when REDIS_ADDR is empty.
	Redis *redis.Client

	Accrual   *accrual.Usecase
	Customers *customer.Usecase
	Loans     *loan.Usecase
	Payments  *payment.Usecase
	Reports   *report.Usecase
	Sync      *mirrorsync.Usecase

	closers []func() error
}

// New opens the local store, the optional Redis and mirror backends, and
// builds every usecase on top of them.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), GormLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	return NewWithDB(ctx, cfg, log, gdb)
}

// NewWithDB is New over an already opened database.
func NewWithDB(ctx context.Context, cfg *config.Config, log *logrus.Logger, gdb *gorm.DB) (*App, error) {
	a := &App{Config: cfg, Log: log, DB: gdb}
	if sqlDB, err := gdb.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}
	if err := gormstore.Migrate(ctx, gdb); err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Store = gormstore.NewStore(gdb)

	var locker domainlock.Locker = lock.NewLocal()
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Redis = rdb
		a.closers = append(a.closers, rdb.Close)
		locker = lock.NewRedis(rdb, "pawnshop:lock:", lockWait, log)
	}

	mode, modeErr := cfg.StorageMode()
	if modeErr != nil {
		log.WithFields(logrus.Fields{"module": "app"}).Warn("running local only: " + modeErr.Error())
	}

	var (
		hook gormstore.CommitHook
		repl mirrorsync.Replicator
	)
	if rm, ok := mode.(config.RemoteMode); ok {
		remote, err := a.openRemote(ctx, rm.Remote)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		r := mirror.NewReplicator(remote, a.Store, mirror.Options{
			Timeout:     cfg.MirrorTimeout(),
			MaxAttempts: cfg.MirrorMaxAttempts,
		}, log)
		hook, repl = r.Replicate, r
	}

	tx := gormstore.NewGormUoW(gdb, hook)
	a.Accrual = accrual.NewUsecase(tx, locker, log)
	a.Customers = customer.NewUsecase(tx, log)
	a.Loans = loan.NewUsecase(tx, a.Accrual, log)
	a.Payments = payment.NewUsecase(tx, log)
	a.Reports = report.NewUsecase(tx, a.Accrual, log)
	a.Sync = mirrorsync.NewUsecase(mode, modeErr, repl, a.Store, log)
	return a, nil
}

func (a *App) openRemote(ctx context.Context, rc config.RemoteConfig) (mirror.Remote, error) {
	switch rc.Provider {
	case config.ProviderGitHub:
		return mirror.NewGitHub(rc, nil), nil
	case config.ProviderGCS:
		g, err := mirror.NewGCS(ctx, rc)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, g.Close)
		return g, nil
	default:
		return nil, fmt.Errorf("%w: provider %q", config.ErrIncompleteRemote, rc.Provider)
	}
}

// Ping checks the local database.
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases backends in reverse order of opening.
func (a *App) Close() error {
	var errList []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}
	a.closers = nil
	return errors.Join(errList...)
}

// GormLevel maps LOG_LEVEL onto the gorm logger.
func GormLevel(level string) logger.LogLevel {
	switch level {
	case "debug", "trace":
		return logger.Info
	case "error", "fatal", "panic":
		return logger.Error
	default:
		return logger.Warn
	}
}

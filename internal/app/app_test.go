package app

import (
	"context"
	"errors"
	"io"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"

	"pawnshop-ledger/internal/config"
	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/testutil/sqlitetest"
	"pawnshop-ledger/internal/usecase/customer"
	"pawnshop-ledger/internal/usecase/mirrorsync"
)

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func baseConfig() *config.Config {
	return &config.Config{
		LogLevel:          "info",
		DBDriver:          "sqlite",
		StorageModeName:   "local",
		MirrorTimeoutSecs: 1,
		MirrorMaxAttempts: 1,
	}
}

func TestNewWithDB_LocalMode(t *testing.T) {
	ctx := context.Background()
	a, err := NewWithDB(ctx, baseConfig(), quietLog(), sqlitetest.Open(t))
	if err != nil {
		t.Fatalf("NewWithDB: %v", err)
	}
	defer a.Close()

	if a.Redis != nil {
		t.Fatalf("redis opened without REDIS_ADDR")
	}
	if err := a.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if _, err := a.Customers.Create(ctx, customer.Input{Name: "Anand"}); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	st, err := a.Sync.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Mode != mirrorsync.ModeLocal || st.ConfigError != "" {
		t.Fatalf("status = %+v", st)
	}
	if _, err := a.Sync.Push(ctx); !errors.Is(err, errs.ErrConfiguration) {
		t.Fatalf("Push in local mode err = %v", err)
	}
}

func TestNewWithDB_IncompleteRemoteFallsBackToLocal(t *testing.T) {
	ctx := context.Background()
	cfg := baseConfig()
	cfg.StorageModeName = "remote"
	cfg.Remote = config.RemoteConfig{Provider: config.ProviderGitHub, Owner: "shop"}

	a, err := NewWithDB(ctx, cfg, quietLog(), sqlitetest.Open(t))
	if err != nil {
		t.Fatalf("NewWithDB: %v", err)
	}
	defer a.Close()

	st, err := a.Sync.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Mode != mirrorsync.ModeLocal || st.ConfigError == "" {
		t.Fatalf("status = %+v, want local with config error", st)
	}
	if _, err := a.Sync.Pull(ctx); !errors.Is(err, config.ErrIncompleteRemote) {
		t.Fatalf("Pull err = %v, want ErrIncompleteRemote", err)
	}
}

func TestNewWithDB_RemoteGitHub(t *testing.T) {
	ctx := context.Background()
	cfg := baseConfig()
	cfg.StorageModeName = "remote"
	cfg.Remote = config.RemoteConfig{Provider: config.ProviderGitHub, Owner: "shop", Repository: "ledger-data", Token: "t0ken"}

	a, err := NewWithDB(ctx, cfg, quietLog(), sqlitetest.Open(t))
	if err != nil {
		t.Fatalf("NewWithDB: %v", err)
	}
	defer a.Close()

	st, err := a.Sync.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Mode != mirrorsync.ModeRemote || st.Provider != config.ProviderGitHub {
		t.Fatalf("status = %+v", st)
	}
}

func TestNewWithDB_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig()
	cfg.RedisAddr = mr.Addr()

	a, err := NewWithDB(context.Background(), cfg, quietLog(), sqlitetest.Open(t))
	if err != nil {
		t.Fatalf("NewWithDB: %v", err)
	}
	if a.Redis == nil {
		t.Fatalf("redis client not opened")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewWithDB_RedisDown(t *testing.T) {
	cfg := baseConfig()
	cfg.RedisAddr = "127.0.0.1:1"
	if _, err := NewWithDB(context.Background(), cfg, quietLog(), sqlitetest.Open(t)); err == nil {
		t.Fatalf("expected error when redis is unreachable")
	}
}

func TestGormLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.LogLevel
	}{
		{"debug", logger.Info},
		{"info", logger.Warn},
		{"", logger.Warn},
		{"error", logger.Error},
	}
	for _, tt := range tests {
		if got := GormLevel(tt.in); got != tt.want {
			t.Fatalf("GormLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

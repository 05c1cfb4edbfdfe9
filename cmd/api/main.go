package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "pawnshop-ledger/internal/adapter/http"
	idemp "pawnshop-ledger/internal/adapter/middleware"
	"pawnshop-ledger/internal/app"
	"pawnshop-ledger/internal/config"
	"pawnshop-ledger/internal/infrastructure/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.WithFields(logrus.Fields{"module": "main"}).Fatal(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithFields(logrus.Fields{"module": "main"}).Fatal(err.Error())
	}
	defer a.Close()

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	// payment creation is deduplicated only when a Redis is configured
	var idem echo.MiddlewareFunc
	if a.Redis != nil {
		idem = idemp.IdempotencyMiddleware(a.Redis, cfg.IdempotencyTTL(), log)
	}

	// routes
	httpadp.Register(e, httpadp.Handlers{
		Health:    httpadp.NewHandler(a.Ping),
		Customers: httpadp.NewCustomerHandler(a.Customers),
		Loans:     httpadp.NewLoanHandler(a.Loans, a.Accrual, a.Reports),
		Payments:  httpadp.NewPaymentHandler(a.Payments),
		Sync:      httpadp.NewSyncHandler(a.Sync),
	}, idem)

	addr := ":" + cfg.AppPort
	go func() {
		log.WithFields(logrus.Fields{"module": "main", "addr": addr, "driver": cfg.DBDriver}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithFields(logrus.Fields{"module": "main"}).Error(err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithFields(logrus.Fields{"module": "main"}).Error("shutdown: " + err.Error())
	}
}

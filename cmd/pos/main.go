package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/lmendez/inventario/internal/config"
	"github.com/lmendez/inventario/internal/localstore"
	"github.com/lmendez/inventario/internal/repository/mongodb"
	"github.com/lmendez/inventario/internal/scheduler"
	"github.com/lmendez/inventario/internal/server/handlers"
	"github.com/lmendez/inventario/internal/server/router"
	"github.com/lmendez/inventario/internal/service/coordinator"
	reportingsvc "github.com/lmendez/inventario/internal/service/reporting"
	"github.com/lmendez/inventario/pkg/clients/sheetstore"
	"github.com/lmendez/inventario/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	if err := cfg.ValidateClient(); err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mode, err := coordinator.ParseMode(cfg.Sync.Mode)
	if err != nil {
		baseLogger.Fatal("invalid sync mode", zap.Error(err))
	}

	local, err := localstore.New(cfg.Storage.DataDir, baseLogger.Named("localstore"))
	if err != nil {
		baseLogger.Fatal("failed to init local store", zap.Error(err))
	}

	var remote sheetstore.Client
	if mode != coordinator.ModeLocal {
		remote = sheetstore.NewClient(cfg.Remote)
	}

	notifier := coordinator.NewLogNotifier(baseLogger.Named("notices"))
	coord := coordinator.New(mode, local, remote, notifier, baseLogger.Named("svc.coordinator"))
	coord.Load(context.Background())

	// Daily snapshots need MongoDB; without a URI the job is disabled.
	var summaryRepo mongodb.Repository
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		summaryRepo = mongoRepo
		baseLogger.Info("daily summary snapshots enabled")
	} else {
		baseLogger.Warn("mongodb uri missing, daily summary snapshots disabled")
	}

	reportingSvc := reportingsvc.NewService(coord, summaryRepo, baseLogger.Named("svc.reporting"))

	sched := scheduler.NewScheduler(*cfg, coord, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	posHandler := handlers.NewPosHandler(coord, reportingSvc, baseLogger.Named("handlers.pos"))
	engine := router.NewPosRouter(posHandler, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("pos server starting",
			zap.String("port", cfg.Server.Port), zap.String("mode", string(mode)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/collection-desk/internal/config"
	"github.com/mamadbah2/collection-desk/internal/document"
	"github.com/mamadbah2/collection-desk/internal/fonts"
	"github.com/mamadbah2/collection-desk/internal/repository"
	"github.com/mamadbah2/collection-desk/internal/repository/mongodb"
	"github.com/mamadbah2/collection-desk/internal/repository/sheets"
	"github.com/mamadbah2/collection-desk/internal/repository/sqlstore"
	"github.com/mamadbah2/collection-desk/internal/scheduler"
	"github.com/mamadbah2/collection-desk/internal/server/handlers"
	"github.com/mamadbah2/collection-desk/internal/server/router"
	collectionsvc "github.com/mamadbah2/collection-desk/internal/service/collections"
	deliverysvc "github.com/mamadbah2/collection-desk/internal/service/delivery"
	reportingsvc "github.com/mamadbah2/collection-desk/internal/service/reporting"
	"github.com/mamadbah2/collection-desk/pkg/clients/notify"
	"github.com/mamadbah2/collection-desk/pkg/clients/webfont"
	"github.com/mamadbah2/collection-desk/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("failed to load timezone", zap.Error(err))
	}

	store, err := openStore(cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init records store", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close records store", zap.Error(err))
		}
	}()

	var ledger sheets.Ledger
	if cfg.Sheets.Enabled() {
		sheetLedger, err := sheets.NewGoogleSheetLedger(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets ledger", zap.Error(err))
		}
		ledger = sheetLedger
	} else {
		baseLogger.Info("google sheets ledger disabled")
	}

	var notifier notify.Client
	if client := notify.NewClient(cfg.Notify); client != nil {
		notifier = client
	}

	resolver := fonts.NewResolver(logger.Named(baseLogger, "fonts"),
		fonts.NewEmbeddedSource(cfg.Fonts.EmbeddedName),
		fonts.NewFileSource(cfg.Fonts.FilePath),
		fonts.NewRemoteSource(webfont.NewClient(cfg.Fonts)),
	)

	engine := document.NewEngine(document.Letterhead{
		Title:       cfg.DeliveryNote.Title,
		BranchLabel: cfg.DeliveryNote.BranchLabel,
		AccountLine: cfg.DeliveryNote.AccountLine,
		CarrierName: cfg.DeliveryNote.CarrierName,
		PhoneLine:   cfg.DeliveryNote.PhoneLine,
	})
	exporter := deliverysvc.NewExporter(engine, document.NewRenderer("collection-desk"),
		deliverysvc.NewPacer(cfg.Export.Pacing), logger.Named(baseLogger, "svc.export"))

	collectionSvc := collectionsvc.NewService(store, loc, logger.Named(baseLogger, "svc.collections"))
	deliverySvc := deliverysvc.NewService(store,
		deliverysvc.NewFeeCalculator(deliverysvc.DefaultRateTable(), logger.Named(baseLogger, "svc.fees")),
		exporter, resolver, cfg.DeliveryNote.FileLabel, loc, logger.Named(baseLogger, "svc.delivery"))
	reportingSvc := reportingsvc.NewService(deliverySvc, store, ledger, notifier, logger.Named(baseLogger, "svc.reporting"))

	engineHTTP := router.New(
		handlers.NewCollectionHandler(collectionSvc, logger.Named(baseLogger, "handlers.collections")),
		handlers.NewDeliveryHandler(deliverySvc, reportingSvc, logger.Named(baseLogger, "handlers.delivery")),
		cfg.Server.AllowedOrigins,
		logger.Named(baseLogger, "router"),
	)

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engineHTTP,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		baseLogger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		baseLogger.Error("server stopped with error", zap.Error(err))
	}
}

func openStore(cfg *config.Config, base *zap.Logger) (repository.Store, error) {
	if cfg.Storage.Driver == config.DriverMongoDB {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(base, "repo.mongodb"))
		if err != nil {
			return nil, err
		}
		return repo, nil
	}

	store, err := sqlstore.Open(cfg.Storage.Driver, cfg.Storage.DSN, logger.Named(base, "repo.sql"))
	if err != nil {
		return nil, err
	}
	return store, nil
}

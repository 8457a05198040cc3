package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"myks/internal/amqp"
	"myks/internal/backend"
	"myks/internal/cli"
	apphttp "myks/internal/http"
	"myks/internal/log"
	"myks/internal/tracker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting myks", "port", cfg.Port, log.FieldBackend, cfg.LedgerBackend)

	store := cli.InitSettings(logger, cfg)
	defer store.Close()

	factory := backend.NewFactory(cfg, logger)
	result, err := factory.CreateBackend(context.Background(), store)
	if err != nil {
		logger.Error("Failed to initialize ledger backend", log.FieldError, err, log.FieldBackend, cfg.LedgerBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", log.FieldError, err)
			}
		}()
	}

	// AMQP is optional; the managers publish events only when a client
	// is present.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			defer events.Close()
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	bets := tracker.NewBetManager(result.Service, events)
	txs := tracker.NewTransactionManager(result.Service, events)

	// Initial sync; a failure is surfaced through the sync-state API
	// rather than blocking startup.
	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := bets.Sync(startCtx); err != nil {
		logger.Warn("Initial bet sync failed", log.FieldError, err)
	}
	if err := txs.Sync(startCtx); err != nil {
		logger.Warn("Initial transaction sync failed", log.FieldError, err)
	}
	startCancel()

	srv := apphttp.NewServer(":"+cfg.Port, bets, txs, store, logger, cfg.PageSize)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				syncCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if err := bets.Sync(syncCtx); err != nil {
					logger.Warn("Periodic bet sync failed", log.FieldError, err)
				}
				if err := txs.Sync(syncCtx); err != nil {
					logger.Warn("Periodic transaction sync failed", log.FieldError, err)
				}
				cancel()
			case <-ctx.Done():
				return nil
			}
		}
	})

	// Audit consumer: mirrors every published ledger event into the
	// log so mutations are traceable even when the UI is long gone.
	if events != nil {
		g.Go(func() error {
			err := amqp.RedialLoop(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, func(e *amqp.LedgerEvent) error {
				logger.Info("Ledger event", "kind", e.Kind, "id", e.ID, "at", e.Timestamp)
				return nil
			})
			if err != nil && ctx.Err() == nil {
				logger.Warn("Event consumer stopped", log.FieldError, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

package backend

import (
	"context"
	"fmt"
	"time"

	"myks/internal/config"
	"myks/internal/ledger/google"
	"myks/internal/ledger/memory"
	"myks/internal/ledger/webapp"
	"myks/internal/log"
)

const cacheCleanupInterval = 10 * time.Minute

// DefaultFactory builds backends from the application config.
type DefaultFactory struct {
	cfg    *config.Config
	logger *log.Logger
}

func NewFactory(cfg *config.Config, logger *log.Logger) *DefaultFactory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		cfg:    cfg,
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

var _ Factory = (*DefaultFactory)(nil)

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, urls webapp.URLSource) (*Result, error) {
	backendType := Type(f.cfg.LedgerBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", f.cfg.LedgerBackend)
	}

	switch backendType {
	case WebAppBackend:
		return f.createWebAppBackend(urls)
	case SheetsBackend:
		return f.createSheetsBackend(ctx)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", backendType)
	}
}

func (f *DefaultFactory) createWebAppBackend(urls webapp.URLSource) (*Result, error) {
	if urls == nil {
		return nil, fmt.Errorf("webapp backend requires a URL source")
	}

	client := webapp.New(urls)
	f.logger.Info("Initialized web-app backend")

	return &Result{
		Service: client,
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context) (*Result, error) {
	client, err := google.New(ctx, google.Config{
		SpreadsheetID:      f.cfg.GoogleSpreadsheetID,
		BetsSheet:          f.cfg.GoogleBetsSheet,
		TransactionsSheet:  f.cfg.GoogleTransactionsSheet,
		ServiceAccountFile: f.cfg.GoogleServiceAccountFile,
		ServiceAccountJSON: f.cfg.GoogleServiceAccountJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend",
		log.FieldBackend, SheetsBackend.String(),
		"spreadsheet_id", f.cfg.GoogleSpreadsheetID)

	stop := f.startCacheCleanup(client, cacheCleanupInterval)

	return &Result{
		Service: client,
		Cleanup: stop,
	}, nil
}

// cacheCleaner is the slice of the sheets client the cleanup loop needs.
type cacheCleaner interface {
	CleanCaches() int
}

// startCacheCleanup drops expired read-cache entries on a ticker until
// the returned CleanupFunc is called.
func (f *DefaultFactory) startCacheCleanup(c cacheCleaner, interval time.Duration) CleanupFunc {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := c.CleanCaches(); n > 0 {
					f.logger.Debug("Cache cleanup completed", log.FieldCount, n)
				}
			case <-stop:
				return
			}
		}
	}()

	return func() error {
		close(stop)
		<-done
		return nil
	}
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	store := memory.New()
	f.logger.Info("Initialized memory backend")

	return &Result{
		Service: store,
		Cleanup: nil,
	}, nil
}

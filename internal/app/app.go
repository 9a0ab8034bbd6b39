package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
	"github.com/riskibarqy/pitch-booking/external/bookingapi"
	"github.com/riskibarqy/pitch-booking/internal/config"
	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
	"github.com/riskibarqy/pitch-booking/internal/infrastructure/notify"
	cacherepo "github.com/riskibarqy/pitch-booking/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pitch-booking/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pitch-booking/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/pitch-booking/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/pitch-booking/internal/platform/cache"
	idgen "github.com/riskibarqy/pitch-booking/internal/platform/id"
	"github.com/riskibarqy/pitch-booking/internal/platform/logging"
	"github.com/riskibarqy/pitch-booking/internal/usecase"
)

// App owns the HTTP server and every resource it depends on.
type App struct {
	Server *http.Server
	Editor *usecase.LineupEditorService

	logger *logging.Logger
	db     *sqlx.DB
	nats   *nats.Conn
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.closeResources()
		}
	}()

	repo, err := a.lineupSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var cacheStats func() basecache.Stats
	if cfg.CacheEnabled {
		store := basecache.NewStore[[]lineup.Lineup](cfg.CacheTTL)
		repo = cacherepo.NewLineupRepository(repo, store)
		cacheStats = store.Stats
	}

	feed := notify.NewFeed(cfg.NotifyFeedSize)
	notifiers := []usecase.Notifier{notify.NewLogNotifier(logger.Named("notice")), feed}
	if cfg.NATSEnabled {
		conn, err := notify.ConnectNATS(cfg.NATSURL, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
		a.nats = conn
		notifiers = append(notifiers, notify.NewNATSNotifier(conn, cfg.NATSSubject, logger))
		logger.Info("nats notices enabled", "url", cfg.NATSURL, "subject", cfg.NATSSubject)
	}

	editor, err := usecase.NewLineupEditorService(
		repo,
		notify.Multi(notifiers...),
		idgen.NewUUIDGenerator(),
		usecase.EditorConfig{
			HistoryLimit:     cfg.EditorHistoryLimit,
			SyncWorkers:      cfg.EditorSyncWorkers,
			RetryConcurrency: cfg.EditorRetryConcurrency,
			SyncLedgerLimit:  cfg.EditorSyncLedgerLimit,
		},
		logger.Named("editor"),
	)
	if err != nil {
		return nil, fmt.Errorf("build lineup editor: %w", err)
	}
	a.Editor = editor

	handler := httpapi.NewHandler(editor, feed, cacheStats, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.ServiceToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ok = true
	return a, nil
}

func (a *App) lineupSource(ctx context.Context, cfg config.Config) (lineup.Repository, error) {
	switch cfg.LineupSource {
	case config.SourcePostgres:
		db, err := openDB(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return nil, err
		}
		a.db = db
		if cfg.DBBootstrapSeed {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				return nil, err
			}
		}
		a.logger.Info("lineup source ready", "source", cfg.LineupSource, "db", dbNameFromURL(cfg.DBURL))
		return postgres.NewLineupRepository(db), nil
	case config.SourceAPI:
		client, err := bookingapi.NewClient(bookingapi.ClientConfig{
			BaseURL:        cfg.BookingAPIBaseURL,
			Token:          cfg.BookingAPIToken,
			Timeout:        cfg.BookingAPITimeout,
			Logger:         a.logger.Named("bookingapi"),
			CircuitBreaker: cfg.BookingAPICircuit,
		})
		if err != nil {
			return nil, err
		}
		a.logger.Info("lineup source ready", "source", cfg.LineupSource, "base_url", cfg.BookingAPIBaseURL)
		return client, nil
	default:
		a.logger.Info("lineup source ready", "source", config.SourceMemory)
		return memory.NewLineupRepository(memory.SeedLineups()), nil
	}
}

// Shutdown stops accepting requests, drains in-flight persistence calls until
// ctx is done and releases the database and NATS connections.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if a.Editor != nil {
		if err := a.Editor.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close lineup editor: %w", err))
		}
	}
	if err := a.closeResources(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeResources() error {
	var errs []error
	if a.nats != nil {
		if err := a.nats.Drain(); err != nil {
			errs = append(errs, fmt.Errorf("drain nats: %w", err))
		}
		a.nats = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
		a.db = nil
	}
	return errors.Join(errs...)
}

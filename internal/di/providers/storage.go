package providers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/do/v2"

	"github.com/bloglist/bloglist/internal/config"
	"github.com/bloglist/bloglist/internal/migrate"
	"github.com/bloglist/bloglist/internal/repository"
	"github.com/bloglist/bloglist/internal/repository/memory"
	"github.com/bloglist/bloglist/internal/repository/mongodb"
	"github.com/bloglist/bloglist/internal/repository/postgres"
)

const connectTimeout = 10 * time.Second

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	repository.Store
	logger *slog.Logger
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := h.Close(ctx); err != nil {
		h.logger.Error("failed to close store", "error", err)
		return err
	}
	h.logger.Info("store closed")
	return nil
}

// ProvideStore connects the configured storage backend.
// With DB_CONNECT_RETRY the store is returned even when the backend is
// unreachable, and its setup is retried in the background.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	bg, cancel := context.WithCancel(context.Background())
	handle := &StoreHandle{logger: log, cancel: cancel}

	ctx, done := context.WithTimeout(bg, connectTimeout)
	defer done()

	switch cfg.StoreDriver {
	case config.DriverMemory:
		handle.Store = memory.New()
		log.Warn("using in-memory store; data is lost on restart")

	case config.DriverPostgres:
		store, err := connectPostgres(ctx, bg, cfg, log)
		if err != nil {
			cancel()
			return nil, err
		}
		handle.Store = store

	case config.DriverMongo:
		store, err := connectMongo(ctx, bg, cfg, log)
		if err != nil {
			cancel()
			return nil, err
		}
		handle.Store = store

	default:
		cancel()
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	return handle, nil
}

func connectMongo(ctx, bg context.Context, cfg *config.Config, log *slog.Logger) (repository.Store, error) {
	uri := cfg.MongoURI()

	store, err := mongodb.Connect(ctx, uri, cfg.MongoDatabase)
	if err == nil {
		log.Info("connected to mongodb", slog.String("database", cfg.MongoDatabase))
		return store, nil
	}

	log.Error("failed to connect to mongodb",
		slog.String("error", sanitizeError(err, uri)),
		slog.String("mongodb_uri", redactURL(uri)),
	)
	if !cfg.DBConnectRetry {
		return nil, fmt.Errorf("connect mongodb: %s", sanitizeError(err, uri))
	}

	store, err = mongodb.Dial(ctx, uri, cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("dial mongodb: %s", sanitizeError(err, uri))
	}
	go retryInBackground(bg, log, "mongodb indexes", store.EnsureIndexes, uri)
	return store, nil
}

func connectPostgres(ctx, bg context.Context, cfg *config.Config, log *slog.Logger) (repository.Store, error) {
	dsn := cfg.DatabaseURL

	db, err := postgres.New(ctx, dsn)
	if err == nil {
		if err := migrate.Up(ctx, dsn); err != nil {
			db.Pool.Close()
			return nil, fmt.Errorf("migrate: %s", sanitizeError(err, dsn))
		}
		log.Info("connected to database", slog.String("database_url", redactURL(dsn)))
		return db, nil
	}

	log.Error("failed to connect to database",
		slog.String("error", sanitizeError(err, dsn)),
		slog.String("database_url", redactURL(dsn)),
	)
	if !cfg.DBConnectRetry {
		return nil, fmt.Errorf("connect postgres: %s", sanitizeError(err, dsn))
	}

	db, err = postgres.Open(bg, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %s", sanitizeError(err, dsn))
	}
	go retryInBackground(bg, log, "postgres migrations", func(ctx context.Context) error {
		return migrate.Up(ctx, dsn)
	}, dsn)
	return db, nil
}

// retryInBackground runs fn with exponential backoff until it succeeds or
// ctx is cancelled. secrets are redacted from logged errors.
func retryInBackground(ctx context.Context, log *slog.Logger, what string, fn func(context.Context) error, secrets ...string) {
	backoff := time.Second
	const maxBackoff = time.Minute

	for {
		attemptCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err := fn(attemptCtx)
		cancel()
		if err == nil {
			log.Info("background setup succeeded", slog.String("step", what))
			return
		}

		log.Warn("background setup failed, retrying",
			slog.String("step", what),
			slog.String("error", sanitizeError(err, secrets...)),
			slog.Duration("retry_in", backoff),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

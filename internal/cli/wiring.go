package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"trivia-scoring/internal/app"
	"trivia-scoring/internal/config"
	"trivia-scoring/internal/domain"
	"trivia-scoring/internal/infra/memory"
	pgstore "trivia-scoring/internal/infra/postgres"
	redisstore "trivia-scoring/internal/infra/redis"
	"trivia-scoring/internal/infra/sqlite"
)

func newLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("level", cfg.Log.Level).Warn("unknown log level, using info")
	}
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// openStore builds the configured KV store. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config) (app.KVStore, func(), error) {
	switch cfg.Store.Driver {
	case "", config.DriverMemory:
		return memory.NewKVStore(), func() {}, nil
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redisstore.NewKVStore(client, cfg.Store.Prefix), func() { client.Close() }, nil
	case config.DriverPostgres:
		if cfg.Postgres.URL == "" {
			return nil, nil, fmt.Errorf("postgres url not configured")
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		return pgstore.NewKVStore(pool), pool.Close, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownStoreDriver, cfg.Store.Driver)
	}
}

// migrateFunc prepares the schema of a SQL-backed store.
type migrateFunc func(ctx context.Context, cfg config.Config) error

// newEngine loads config, opens the store and rehydrates an engine from it.
func newEngine(ctx context.Context, configPath string) (*app.ScoreEngine, config.Config, *logrus.Logger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, cfg, nil, nil, err
	}
	logger := newLogger(cfg)
	engine, closeStore, err := bootEngine(ctx, cfg, logger, nil)
	return engine, cfg, logger, closeStore, err
}

// bootEngine runs migrate (postgres only) before the store is opened and the
// snapshot loaded, so the first read already sees the schema.
func bootEngine(ctx context.Context, cfg config.Config, logger logrus.FieldLogger, migrate migrateFunc) (*app.ScoreEngine, func(), error) {
	if migrate != nil && cfg.Store.Driver == config.DriverPostgres {
		if err := migrate(ctx, cfg); err != nil {
			return nil, nil, err
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.WithError(err).Warn("falling back to local timezone")
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	engine := app.NewScoreEngine(store,
		app.WithLocation(loc),
		app.WithLogger(logger),
	)
	engine.Load(ctx)
	return engine, closeStore, nil
}

package components

import (
	"context"
	"fmt"
	"log/slog"

	"stock-notifier/internal/infra/db"
	"stock-notifier/internal/infra/lock"
	"stock-notifier/internal/infra/repository"
	"stock-notifier/internal/pkg/config"
	"stock-notifier/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewScheduleStore,
		NewFireLock,
	),
)

// NewScheduleStore opens only the backend selected by SCHEDULE_STORE.
func NewScheduleStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.ScheduleStore, error) {
	switch cfg.Scheduler.Store {
	case config.ScheduleStoreMemory:
		logger.Warn("using in-memory schedule store; schedules are lost on restart")
		return repository.NewMemoryScheduleStore(logger), nil

	case config.ScheduleStorePostgres:
		pool, cleanup, err := db.Connect(cfg.DB)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				cleanup()
				return nil
			},
		})
		store := repository.NewPostgresScheduleStore(pool, logger)
		if err := store.Migrate(context.Background()); err != nil {
			cleanup()
			return nil, err
		}
		return store, nil

	case config.ScheduleStoreSQLite:
		sqlDB, cleanup, err := db.OpenSQLite(cfg.Scheduler.SQLitePath)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				cleanup()
				return nil
			},
		})
		store := repository.NewSQLiteScheduleStore(sqlDB, logger)
		if err := store.Migrate(context.Background()); err != nil {
			cleanup()
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown schedule store %q", cfg.Scheduler.Store)
}

// NewFireLock uses Redis when REDIS_URL is set, otherwise a no-op lock.
func NewFireLock(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.FireLock, error) {
	if cfg.Redis.URL == "" {
		return lock.NewNopLock(), nil
	}

	client, err := lock.NewRedisClient(context.Background(), cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	logger.Info("redis firing lock enabled")
	return lock.NewRedisLock(client, logger), nil
}

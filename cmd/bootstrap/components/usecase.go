package components

import (
	"context"
	"log/slog"

	"stock-notifier/internal/pkg/clock"
	"stock-notifier/internal/pkg/config"
	"stock-notifier/internal/usecase"
	"stock-notifier/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseSchedulerModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) usecase.NotifierConfig {
		return usecase.NotifierConfig{
			Subject: cfg.Mail.Subject,
			Timeout: cfg.Mail.Timeout,
		}
	},
	usecase.NewNotifier,
	usecase.NewNotificationUseCase,
)

var usecaseSchedulerModule = fx.Module("usecase/scheduler",
	fx.Provide(
		NewSchedulerService,
		func(s *usecase.SchedulerService) usecase.ScheduleUseCase { return s },
	),
)

// NewSchedulerService restores persisted jobs on start and drains firings on stop.
func NewSchedulerService(
	lc fx.Lifecycle,
	cfg config.Config,
	notifier usecase.Notifier,
	store shared.ScheduleStore,
	lock shared.FireLock,
	clk clock.Clock,
	logger *slog.Logger,
) (*usecase.SchedulerService, error) {
	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, err
	}

	svc := usecase.NewSchedulerService(notifier, store, lock, clk, logger, usecase.SchedulerOptions{
		Location: loc,
		LockTTL:  cfg.Scheduler.LockTTL,
	})

	lc.Append(fx.Hook{
		OnStart: svc.Start,
		OnStop: func(ctx context.Context) error {
			svc.Stop(ctx)
			return nil
		},
	})
	return svc, nil
}

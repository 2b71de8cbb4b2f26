package telegram

import (
	"context"

	"alert_bot/internal/modules/telegram_bot/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// Сервис Telegram как *service.Telegram
		fx.Provide(
			service.NewTelegram, // func(*config.Config, *settings.Service) (*service.Telegram, error)
		),
		// Запуск основного цикла через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram, appCtx context.Context) {
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						t.Start(appCtx)
						return nil
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}

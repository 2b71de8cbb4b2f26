package main

import (
	"context"
	"log"

	"alert_bot/internal/modules/config"
	"alert_bot/internal/modules/health"
	healthsvc "alert_bot/internal/modules/health/service"
	"alert_bot/internal/modules/postgres"
	"alert_bot/internal/modules/settings"
	telegram "alert_bot/internal/modules/telegram_bot"
	"alert_bot/pkg/logger"
	"alert_bot/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName("alert_bot")
	tracing.SetServiceName("alert_bot")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		health.Module(),
		settings.Module(),
		telegram.Module(),
		fx.Invoke(func(cfg *config.Config, state *healthsvc.State) {
			if cfg.Jaeger.Host != "" {
				if _, _, err := tracing.InitTracer(tracing.Config{
					Host: cfg.Jaeger.Host,
					Port: cfg.Jaeger.Port,
				}); err != nil {
					logger.Error("init tracer: %v", err)
				}
			}
			state.SetReady(true)
		}),
	)
	app.Run()
}

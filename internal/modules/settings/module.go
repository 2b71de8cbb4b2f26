package settings

import (
	"alert_bot/internal/modules/config"
	healthsvc "alert_bot/internal/modules/health/service"
	"alert_bot/internal/modules/settings/service"
	"alert_bot/internal/modules/settings/service/pg"
	"alert_bot/pkg/db"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("settings",
		// 1. Стор документов в Postgres
		fx.Provide(
			func(m *db.PgTxManager) db.TxManager { return m },
			pg.NewOptions, // func(db.TxManager) *pg.Options
		),

		// 2. Адаптер: *pg.Options -> service.Store
		fx.Provide(
			func(o *pg.Options) service.Store {
				return o
			},
		),

		// 3. Сервис настроек
		fx.Provide(
			service.NewService,
		),

		// 4. Успешные записи отмечаем в health-стейте
		fx.Invoke(
			func(s *service.Service, state *healthsvc.State, cfg *config.Config) {
				s.SetOnSaved(state.TouchSave)
				s.SetDefaultTimezone(cfg.DefaultTimezone)
			},
		),
	)
}

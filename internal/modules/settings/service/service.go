package service

import (
	"context"
	"time"

	"alert_bot/internal/models"
	"alert_bot/internal/template"
	"alert_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
)

// ErrNotFound возвращает стор, когда у чата ещё нет сохранённого документа.
var ErrNotFound = errors.New("options not found")

// ErrNoEdit — Commit без начатой правки.
var ErrNoEdit = errors.New("no edit in progress")

// Store — хранилище сериализованного документа настроек, целиком на чат.
type Store interface {
	Load(ctx context.Context, chatID int64) ([]byte, error)
	Save(ctx context.Context, chatID int64, payload []byte) error
}

// Service — загрузка и сохранение документа настроек: разбор с нормализацией,
// миграция шаблонов, гейт валидатора перед записью.
type Service struct {
	store Store

	onSaved   func(time.Time)
	defaultTZ string
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// SetOnSaved подписывает наблюдателя успешных записей (health-стейт).
func (s *Service) SetOnSaved(fn func(time.Time)) {
	s.onSaved = fn
}

// SetDefaultTimezone — таймзона нового документа (из конфига).
func (s *Service) SetDefaultTimezone(tz string) {
	s.defaultTZ = tz
}

func (s *Service) defaults() *models.Options {
	opts := models.DefaultOptions()
	if s.defaultTZ != "" {
		opts.Timezone = s.defaultTZ
	}
	return opts
}

// Load отдаёт каноничный документ. Загрузка не падает никогда: нет документа
// или он не разбирается — возвращаем дефолтный (второе логируем, это потеря
// данных, пусть и пережитая).
func (s *Service) Load(ctx context.Context, chatID int64) (*models.Options, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "settings.Load")
	defer span.Finish()

	raw, err := s.store.Load(ctx, chatID)
	if errors.Is(err, ErrNotFound) {
		return s.defaults(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load options")
	}

	opts := &models.Options{}
	if err := sonic.Unmarshal(raw, opts); err != nil {
		logger.Error("chat %d: options document is not valid JSON, using defaults: %v", chatID, err)
		return s.defaults(), nil
	}

	MigrateTemplates(opts)

	if n := opts.LegacyFallbacks(); n > 0 {
		// условия-сироты: нормализатор уронил их в volume >= 0
		logger.Warn("chat %d: %d unrecognized condition(s) degraded to default volume", chatID, n)
	}
	return opts, nil
}

// MigrateTemplates — одноразовая миграция текстов при загрузке: схлопывание
// легаси-пары биржа+рынок и доводка случайно попавшей дружелюбной формы до
// технической. Той же функцией пользуется офлайн-миграция (cmd/migrate).
func MigrateTemplates(opts *models.Options) {
	opts.MessageTemplate = template.ToTechnical(template.MigrateLegacy(opts.MessageTemplate))
	for i := range opts.ConditionalTemplates {
		st := &opts.ConditionalTemplates[i]
		st.Template = template.ToTechnical(template.MigrateLegacy(st.Template))
	}
}

// Save пишет документ целиком. Жёсткий гейт: при любой флагнутой стратегии
// возвращаем *ValidationError, стор не трогается вовсе.
func (s *Service) Save(ctx context.Context, chatID int64, opts *models.Options) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "settings.Save")
	defer span.Finish()

	if errs := models.ValidateStrategies(opts.ConditionalTemplates); len(errs) > 0 {
		return &ValidationError{Strategies: errs}
	}

	payload, err := sonic.Marshal(opts)
	if err != nil {
		return errors.Wrap(err, "marshal options")
	}
	if err := s.store.Save(ctx, chatID, payload); err != nil {
		return errors.Wrap(err, "save options")
	}
	if s.onSaved != nil {
		s.onSaved(time.Now())
	}
	return nil
}

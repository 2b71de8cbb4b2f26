package service

import (
	"context"
	"fmt"
	"sync"

	"alert_bot/internal/modules/config"
	settings "alert_bot/internal/modules/settings/service"
	"alert_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram — редактор настроек алертов поверх чата: шаблон сообщения,
// пороги бирж, стратегии. Вся запись идёт через settings.Service.
type Telegram struct {
	bot *tgbot.BotAPI
	cfg *config.Config
	svc *settings.Service

	await *awaitStore

	mu       sync.Mutex
	sessions map[int64]*settings.Session

	stop func()
}

func NewTelegram(cfg *config.Config, svc *settings.Service) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}

	return &Telegram{
		bot:      b,
		cfg:      cfg,
		svc:      svc,
		await:    newAwaitStore(),
		sessions: make(map[int64]*settings.Session),
	}, nil
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	return t.bot.Send(tgbot.NewMessage(chatID, msg))
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

// session отдаёт сессию редактирования чата, при первом обращении грузит
// документ из стора.
func (t *Telegram) session(ctx context.Context, chatID int64) (*settings.Session, error) {
	t.mu.Lock()
	if s, ok := t.sessions[chatID]; ok {
		t.mu.Unlock()
		return s, nil
	}
	t.mu.Unlock()

	opts, err := t.svc.Load(ctx, chatID)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.sessions[chatID]; ok {
		// параллельная загрузка успела раньше
		return s, nil
	}
	s := settings.NewSession(opts)
	t.sessions[chatID] = s
	return s, nil
}

// Start запускает long-poll обработку апдейтов.
func (t *Telegram) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	t.stop = cancel

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				t.handleUpdate(ctx, update)
			}
		}
	}()

	logger.Info("telegram editor started: @%s", t.bot.Self.UserName)
}

func (t *Telegram) Stop() {
	if t.stop != nil {
		t.stop()
	}
	t.bot.StopReceivingUpdates()
}

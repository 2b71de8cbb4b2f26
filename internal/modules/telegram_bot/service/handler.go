package service

import (
	"context"
	"strings"

	"alert_bot/internal/template"
	"alert_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbot.Update) {
	// 1) Обычные сообщения
	if msg := update.Message; msg != nil {
		chatID := msg.Chat.ID

		if msg.IsCommand() {
			switch msg.Command() {
			case "start":
				t.handleStart(ctx, chatID)
			case "template":
				t.handleShowTemplate(ctx, chatID)
			case "preview":
				t.handlePreview(ctx, chatID)
			case "strategies":
				t.handleStrategies(ctx, chatID)
			case "settings":
				t.handleExchangesMenu(ctx, chatID)
			default:
				_, _ = t.Send(ctx, chatID, "Не знаю такой команды. Доступно: /template /preview /strategies /settings")
			}
			return
		}

		// ждали ввод значения?
		if key, ok := t.peekAwait(chatID); ok {
			t.handleAwaitValue(ctx, chatID, msg.Text, key)
			return
		}

		t.handleTextMessage(ctx, chatID, msg.Text)
		return
	}

	// 2) Inline-кнопки
	if cb := update.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil {
			return
		}
		chatID := cb.Message.Chat.ID
		t.handleCallback(ctx, chatID, cb)
		return
	}
}

func (t *Telegram) handleStart(ctx context.Context, chatID int64) {
	if _, err := t.session(ctx, chatID); err != nil {
		logger.Error("handleStart: %v", err)
		_, _ = t.Send(ctx, chatID, "Не смог загрузить настройки, попробуй ещё раз /start")
		return
	}

	replyKb := tgbot.NewReplyKeyboard(
		tgbot.NewKeyboardButtonRow(
			tgbot.NewKeyboardButton("📝 Шаблон"),
			tgbot.NewKeyboardButton("👁 Предпросмотр"),
		),
		tgbot.NewKeyboardButtonRow(
			tgbot.NewKeyboardButton("📋 Стратегии"),
			tgbot.NewKeyboardButton("⚙️ Пороги"),
		),
	)

	msg := tgbot.NewMessage(chatID,
		"Привет! Я редактор настроек трейд-алертов.\n\n"+
			"📝 Шаблон — текст сообщения с плейсхолдерами\n"+
			"👁 Предпросмотр — как будет выглядеть алерт\n"+
			"📋 Стратегии — условные шаблоны\n"+
			"⚙️ Пороги — дельта/объём/тень по биржам")
	msg.ReplyMarkup = replyKb
	if _, err := t.bot.Send(msg); err != nil {
		logger.Error("handleStart send: %v", err)
	}
}

func (t *Telegram) handleTextMessage(ctx context.Context, chatID int64, text string) {
	switch strings.TrimSpace(text) {
	case "📝 Шаблон":
		t.handleShowTemplate(ctx, chatID)
	case "👁 Предпросмотр":
		t.handlePreview(ctx, chatID)
	case "📋 Стратегии":
		t.handleStrategies(ctx, chatID)
	case "⚙️ Пороги":
		t.handleExchangesMenu(ctx, chatID)
	default:
		_, _ = t.Send(ctx, chatID, "Не понял. Кнопки снизу или /start")
	}
}

func (t *Telegram) handlePreview(ctx context.Context, chatID int64) {
	sess, err := t.session(ctx, chatID)
	if err != nil {
		logger.Error("handlePreview: %v", err)
		return
	}
	_, _ = t.Send(ctx, chatID, "Так будет выглядеть алерт:\n\n"+template.Preview(sess.Document().MessageTemplate))
}

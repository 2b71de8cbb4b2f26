package service

import (
	"context"
	"strconv"
	"strings"

	"alert_bot/internal/models"
	settings "alert_bot/internal/modules/settings/service"
	"alert_bot/internal/template"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// commitEdit — единый путь записи: Begin -> Edit -> Commit. Неудачное
// сохранение уже откатило документ к снапшоту, пользователю остаётся только
// сказать об этом. Возвращает, зафиксировалась ли правка.
func (t *Telegram) commitEdit(ctx context.Context, chatID int64, sess *settings.Session, mutate func(*models.Options)) bool {
	if !sess.Begin() {
		_, _ = t.Send(ctx, chatID, "⏳ Уже идёт другая правка, дождись её")
		return false
	}
	sess.Edit(mutate)

	err := sess.Commit(ctx, func(ctx context.Context, doc *models.Options) error {
		return t.svc.Save(ctx, chatID, doc)
	})

	var vErr *settings.ValidationError
	if errors.As(err, &vErr) {
		_, _ = t.Send(ctx, chatID, "❌ Не сохранено, правка откатилась:\n"+renderValidation(vErr))
		return false
	}
	if err != nil {
		_, _ = t.SendF(ctx, chatID, "⚠️ Не удалось сохранить, правка откатилась: %v", err)
		return false
	}
	_, _ = t.Send(ctx, chatID, "✅ Сохранено")
	return true
}

// ---- шаблон сообщения ----

func (t *Telegram) handleShowTemplate(ctx context.Context, chatID int64) {
	sess, err := t.session(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	// показываем в дружелюбной форме, храним в технической
	friendly := template.ToFriendly(sess.Document().MessageTemplate)

	msg := tgbot.NewMessage(chatID, "Текущий шаблон:\n\n"+friendly)
	msg.ReplyMarkup = tgbot.NewInlineKeyboardMarkup(
		tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData("✏️ Изменить", "EDIT_TPL"),
		),
	)
	_, _ = t.bot.Send(msg)
}

func (t *Telegram) askTemplate(ctx context.Context, chatID int64) {
	t.setAwait(chatID, "template")

	labels := make([]string, 0, len(template.Tokens))
	for _, tok := range template.Tokens {
		labels = append(labels, template.FriendlyToken(tok.Friendly))
	}
	_, _ = t.Send(ctx, chatID,
		"✍️ Пришли новый текст шаблона. Доступные подстановки:\n"+
			strings.Join(labels, "\n")+
			"\n\nОтмена: напиши `отмена`")
}

// ---- пороги бирж ----

func (t *Telegram) handleExchangesMenu(ctx context.Context, chatID int64) {
	sess, err := t.session(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	doc := sess.Document()
	rows := make([][]tgbot.InlineKeyboardButton, 0, len(doc.ExchangeSettings))
	for _, ex := range sortedKeys(doc.ExchangeSettings) {
		mark := "🔕"
		if doc.Exchanges[ex] {
			mark = "🔔"
		}
		rows = append(rows, tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData(mark+" "+ex, "EX::"+ex),
		))
	}

	msg := tgbot.NewMessage(chatID, "Биржи:")
	msg.ReplyMarkup = tgbot.NewInlineKeyboardMarkup(rows...)
	_, _ = t.bot.Send(msg)
}

func (t *Telegram) handleMarketsMenu(ctx context.Context, chatID int64, exchange string) {
	msg := tgbot.NewMessage(chatID, "Рынок "+exchange+":")
	msg.ReplyMarkup = tgbot.NewInlineKeyboardMarkup(
		tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData("Спот", "MKT::"+exchange+"::spot"),
			tgbot.NewInlineKeyboardButtonData("Фьючерсы", "MKT::"+exchange+"::futures"),
		),
	)
	_, _ = t.bot.Send(msg)
}

func (t *Telegram) handleMarketMenu(ctx context.Context, chatID int64, exchange, market string) {
	sess, err := t.session(ctx, chatID)
	if err != nil {
		return
	}
	ms := marketSettings(sess.Document(), exchange, market)

	text := "Пороги " + exchange + " " + market + ":\n" +
		"Дельта: " + ms.Delta + "%\n" +
		"Объём: " + ms.Volume + "$\n" +
		"Тень: " + ms.Shadow + "%"

	prefix := "FLD::" + exchange + "::" + market + "::"
	msg := tgbot.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbot.NewInlineKeyboardMarkup(
		tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData("Дельта", prefix+"delta"),
			tgbot.NewInlineKeyboardButtonData("Объём", prefix+"volume"),
			tgbot.NewInlineKeyboardButtonData("Тень", prefix+"shadow"),
		),
		tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData(onOff(ms.Enabled), "TGL::"+exchange+"::"+market),
		),
	)
	_, _ = t.bot.Send(msg)
}

func (t *Telegram) askThreshold(ctx context.Context, chatID int64, exchange, market, field string) {
	t.setAwait(chatID, "thr::"+exchange+"::"+market+"::"+field)

	var hint string
	switch field {
	case "delta":
		hint = "Введи *дельту* в %, например: `2.5`"
	case "volume":
		hint = "Введи *объём* в USDT, например: `20000`"
	case "shadow":
		hint = "Введи *тень* в %, например: `50`"
	default:
		hint = "Введи значение"
	}
	_, _ = t.Send(ctx, chatID, "✍️ "+hint+"\n\nОтмена: напиши `отмена`")
}

// ---- ввод значений ----

func (t *Telegram) handleAwaitValue(ctx context.Context, chatID int64, text, key string) {
	sess, err := t.session(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "отмена") {
		t.clearAwait(chatID)
		_, _ = t.Send(ctx, chatID, "Окей, отменил")
		return
	}

	switch {
	case key == "template":
		t.popAwait(chatID)
		tech := template.ToTechnical(text)
		// предпросмотр только после фиксации: после отката показывать
		// отклонённый шаблон нечестно
		if t.commitEdit(ctx, chatID, sess, func(o *models.Options) {
			o.MessageTemplate = tech
		}) {
			_, _ = t.Send(ctx, chatID, "Предпросмотр:\n\n"+template.Preview(sess.Document().MessageTemplate))
		}

	case strings.HasPrefix(key, "thr::"):
		parts := strings.Split(key, "::")
		if len(parts) != 4 {
			t.clearAwait(chatID)
			return
		}
		exchange, market, field := parts[1], parts[2], parts[3]

		value := strings.ReplaceAll(text, ",", ".")
		probe := models.MarketSettings{Delta: value}
		if _, err := probe.DeltaValue(); err != nil {
			_, _ = t.Send(ctx, chatID, "❗️Нужно число, например `2.5`")
			return
		}

		t.popAwait(chatID)
		t.commitEdit(ctx, chatID, sess, func(o *models.Options) {
			ms := marketSettings(o, exchange, market)
			switch field {
			case "delta":
				ms.Delta = value
			case "volume":
				ms.Volume = value
			case "shadow":
				ms.Shadow = value
			}
			setMarketSettings(o, exchange, market, ms)
		})

	default:
		t.clearAwait(chatID)
		_, _ = t.Send(ctx, chatID, "❗️Неизвестная настройка")
	}
}

// ---- callbacks ----

func (t *Telegram) handleCallback(ctx context.Context, chatID int64, cb *tgbot.CallbackQuery) {
	// убираем «часики» на кнопке
	_, _ = t.bot.Request(tgbot.NewCallback(cb.ID, ""))

	data := cb.Data
	switch {
	case data == "EDIT_TPL":
		t.askTemplate(ctx, chatID)

	case strings.HasPrefix(data, "EX::"):
		t.handleMarketsMenu(ctx, chatID, strings.TrimPrefix(data, "EX::"))

	case strings.HasPrefix(data, "MKT::"):
		parts := strings.Split(data, "::")
		if len(parts) == 3 {
			t.handleMarketMenu(ctx, chatID, parts[1], parts[2])
		}

	case strings.HasPrefix(data, "FLD::"):
		parts := strings.Split(data, "::")
		if len(parts) == 4 {
			t.askThreshold(ctx, chatID, parts[1], parts[2], parts[3])
		}

	case strings.HasPrefix(data, "TGL::"):
		parts := strings.Split(data, "::")
		if len(parts) != 3 {
			return
		}
		sess, err := t.session(ctx, chatID)
		if err != nil {
			return
		}
		t.commitEdit(ctx, chatID, sess, func(o *models.Options) {
			ms := marketSettings(o, parts[1], parts[2])
			ms.Enabled = !ms.Enabled
			setMarketSettings(o, parts[1], parts[2], ms)
		})

	case strings.HasPrefix(data, "STRAT::"):
		n, err := strconv.Atoi(strings.TrimPrefix(data, "STRAT::"))
		if err != nil {
			return
		}
		sess, err := t.session(ctx, chatID)
		if err != nil {
			return
		}
		t.commitEdit(ctx, chatID, sess, func(o *models.Options) {
			if n >= 0 && n < len(o.ConditionalTemplates) {
				o.ConditionalTemplates[n].Enabled = !o.ConditionalTemplates[n].Enabled
			}
		})
		t.handleStrategies(ctx, chatID)
	}
}

// ---- helpers ----

func marketSettings(o *models.Options, exchange, market string) models.MarketSettings {
	em := o.ExchangeSettings[exchange]
	if market == "futures" {
		return em.Futures
	}
	return em.Spot
}

func setMarketSettings(o *models.Options, exchange, market string, ms models.MarketSettings) {
	em := o.ExchangeSettings[exchange]
	if market == "futures" {
		em.Futures = ms
	} else {
		em.Spot = ms
	}
	if o.ExchangeSettings == nil {
		o.ExchangeSettings = make(map[string]models.ExchangeMarkets)
	}
	o.ExchangeSettings[exchange] = em
}

func onOff(enabled bool) string {
	if enabled {
		return "🔔 Включено"
	}
	return "🔕 Выключено"
}

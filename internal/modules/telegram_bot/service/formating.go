package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"alert_bot/internal/models"
	settings "alert_bot/internal/modules/settings/service"
	"alert_bot/internal/template"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (t *Telegram) handleStrategies(ctx context.Context, chatID int64) {
	sess, err := t.session(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	doc := sess.Document()
	if len(doc.ConditionalTemplates) == 0 {
		_, _ = t.Send(ctx, chatID, "Стратегий пока нет")
		return
	}

	errs := models.ValidateStrategies(doc.ConditionalTemplates)

	var b strings.Builder
	rows := make([][]tgbot.InlineKeyboardButton, 0, len(doc.ConditionalTemplates))
	for i, s := range doc.ConditionalTemplates {
		b.WriteString(renderStrategy(i, s, errs[i]))
		b.WriteString("\n")

		mark := "🔕"
		if s.Enabled {
			mark = "🔔"
		}
		rows = append(rows, tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %s", mark, strategyName(i, s)),
				fmt.Sprintf("STRAT::%d", i),
			),
		))
	}

	msg := tgbot.NewMessage(chatID, b.String())
	msg.ReplyMarkup = tgbot.NewInlineKeyboardMarkup(rows...)
	_, _ = t.bot.Send(msg)
}

func strategyName(i int, s models.Strategy) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("Стратегия %d", i+1)
}

func renderStrategy(i int, s models.Strategy, vErr *models.StrategyError) string {
	var b strings.Builder

	status := "🔕 выкл"
	if s.Enabled {
		status = "🔔 вкл"
	}
	b.WriteString(fmt.Sprintf("%s — %s\n", strategyName(i, s), status))

	if s.UseGlobalFilters {
		b.WriteString("  фильтры: глобальные\n")
	} else {
		b.WriteString("  фильтры: свои\n")
	}

	for _, c := range s.Conditions {
		b.WriteString("  • " + renderCondition(c) + "\n")
	}
	b.WriteString("  шаблон: " + template.ToFriendly(s.Template) + "\n")

	if vErr != nil {
		b.WriteString("  ❌ " + vErr.Error() + "\n")
	}
	return b.String()
}

func renderCondition(c models.Condition) string {
	switch v := c.(type) {
	case models.VolumeCondition:
		return fmt.Sprintf("объём ≥ %.0f$", v.Value)
	case models.DeltaCondition:
		if v.Max == nil {
			return fmt.Sprintf("дельта ≥ %.2f%%", v.Min)
		}
		return fmt.Sprintf("дельта %.2f–%.2f%%", v.Min, *v.Max)
	case models.WickCondition:
		if v.Max == nil {
			return fmt.Sprintf("тень ≥ %.2f%%", v.Min)
		}
		return fmt.Sprintf("тень %.2f–%.2f%%", v.Min, *v.Max)
	case models.SeriesCondition:
		return fmt.Sprintf("серия %d+ за %dс", v.Count, v.TimeWindowSeconds)
	case models.SymbolCondition:
		return "пара с " + v.Symbol
	case models.ExchangeMarketCondition:
		return "рынок " + v.ExchangeMarket
	case models.DirectionCondition:
		if v.Direction == "down" {
			return "направление ⬇️"
		}
		return "направление ⬆️"
	default:
		return string(c.Kind())
	}
}

func renderValidation(vErr *settings.ValidationError) string {
	idx := make([]int, 0, len(vErr.Strategies))
	for i := range vErr.Strategies {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	var b strings.Builder
	for _, i := range idx {
		b.WriteString("• " + vErr.Strategies[i].Error() + "\n")
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MarketSettings — пороги одного рынка (spot или futures) одной биржи.
// Пороговые значения хранятся строками как их ввёл пользователь; числовую
// форму отдают аксессоры ниже.
type MarketSettings struct {
	Enabled   bool   `json:"enabled"`
	Delta     string `json:"delta"`
	Volume    string `json:"volume"`
	Shadow    string `json:"shadow"`
	SendChart bool   `json:"sendChart,omitempty"`
}

func (m MarketSettings) DeltaValue() (decimal.Decimal, error)  { return parseThreshold(m.Delta) }
func (m MarketSettings) VolumeValue() (decimal.Decimal, error) { return parseThreshold(m.Volume) }
func (m MarketSettings) ShadowValue() (decimal.Decimal, error) { return parseThreshold(m.Shadow) }

// parseThreshold разбирает порог так же, как его прочитает матчинг-движок:
// запятая допустима как десятичный разделитель, пустая строка — ноль.
func parseThreshold(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse threshold %q: %w", s, err)
	}
	return d, nil
}

// ExchangeMarkets — пара рынков одной биржи.
type ExchangeMarkets struct {
	Spot    MarketSettings `json:"spot"`
	Futures MarketSettings `json:"futures"`
}

// Options — сохраняемый документ настроек целиком, в технической форме
// токенов. Сохраняется всегда атомарно и целиком, без дельта-апдейтов.
type Options struct {
	Exchanges            map[string]bool            `json:"exchanges"`
	ExchangeSettings     map[string]ExchangeMarkets `json:"exchangeSettings"`
	PairSettings         map[string]MarketSettings  `json:"pairSettings"`
	Blacklist            []string                   `json:"blacklist"`
	MessageTemplate      string                     `json:"messageTemplate"`
	ConditionalTemplates []Strategy                 `json:"conditionalTemplates"`
	Timezone             string                     `json:"timezone"`
}

// DefaultMessageTemplate — шаблон по умолчанию (технические токены).
const DefaultMessageTemplate = "{direction} {symbol} | {exchange_market}\n" +
	"Дельта: {delta_formatted}\n" +
	"Объём: {volume_formatted}\n" +
	"Тень: {wick_formatted}\n" +
	"Время: {time}"

// DefaultOptions — чистый документ: на него падаем, если сохранённый не
// разобрался или его ещё нет.
func DefaultOptions() *Options {
	return &Options{
		Exchanges: map[string]bool{
			"binance": true,
			"bybit":   false,
		},
		ExchangeSettings: map[string]ExchangeMarkets{
			"binance": {
				Spot:    MarketSettings{Enabled: true, Delta: "2", Volume: "20000", Shadow: "50"},
				Futures: MarketSettings{Enabled: true, Delta: "2", Volume: "50000", Shadow: "50"},
			},
			"bybit": {
				Spot:    MarketSettings{Delta: "2", Volume: "20000", Shadow: "50"},
				Futures: MarketSettings{Delta: "2", Volume: "50000", Shadow: "50"},
			},
		},
		PairSettings:         map[string]MarketSettings{},
		Blacklist:            []string{},
		MessageTemplate:      DefaultMessageTemplate,
		ConditionalTemplates: []Strategy{},
		Timezone:             "Europe/Moscow",
	}
}

// Clone — глубокая копия документа для снапшота сессии редактирования.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}
	out := &Options{
		Exchanges:            make(map[string]bool, len(o.Exchanges)),
		ExchangeSettings:     make(map[string]ExchangeMarkets, len(o.ExchangeSettings)),
		PairSettings:         make(map[string]MarketSettings, len(o.PairSettings)),
		Blacklist:            append([]string(nil), o.Blacklist...),
		MessageTemplate:      o.MessageTemplate,
		ConditionalTemplates: make([]Strategy, len(o.ConditionalTemplates)),
		Timezone:             o.Timezone,
	}
	for k, v := range o.Exchanges {
		out.Exchanges[k] = v
	}
	for k, v := range o.ExchangeSettings {
		out.ExchangeSettings[k] = v
	}
	for k, v := range o.PairSettings {
		out.PairSettings[k] = v
	}
	for i, s := range o.ConditionalTemplates {
		out.ConditionalTemplates[i] = s.Clone()
	}
	return out
}

// LegacyFallbacks — суммарное число «глухих» фолбэков нормализации по всем
// стратегиям документа.
func (o *Options) LegacyFallbacks() int {
	n := 0
	for _, s := range o.ConditionalTemplates {
		n += s.LegacyFallbacks
	}
	return n
}

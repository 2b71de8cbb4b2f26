package models

import (
	"github.com/bytedance/sonic"
)

// ConditionType — тег варианта условия в сохранённом документе.
type ConditionType string

const (
	ConditionVolume         ConditionType = "volume"
	ConditionDelta          ConditionType = "delta"
	ConditionWickPct        ConditionType = "wick_pct"
	ConditionSeries         ConditionType = "series"
	ConditionSymbol         ConditionType = "symbol"
	ConditionExchangeMarket ConditionType = "exchange_market"
	ConditionDirection      ConditionType = "direction"
)

// operatorGTE — единственный оператор в текущей схеме, пишем его в каждый
// сериализованный вариант для совместимости с матчинг-движком.
const operatorGTE = ">="

// Condition — закрытое объединение: ровно один вариант на условие, никаких
// «хвостов» от предыдущего типа. Конструируется только через
// NormalizeCondition, поэтому даунстрим-код не видит сырых optional-полей.
type Condition interface {
	Kind() ConditionType
	// sealed запрещает реализации вне пакета.
	sealed()
}

// VolumeCondition — объём сделки (нотионал в USDT) >= Value.
type VolumeCondition struct {
	Value float64
}

// DeltaCondition — процентная дельта цены в диапазоне [Min, Max].
// Max == nil означает «без верхней границы».
type DeltaCondition struct {
	Min float64
	Max *float64
}

// WickCondition — процент тени свечи, та же конвенция nil == бесконечность.
type WickCondition struct {
	Min float64
	Max *float64
}

// SeriesCondition — Count+ подходящих событий в скользящем окне.
type SeriesCondition struct {
	Count             int
	TimeWindowSeconds int
}

// SymbolCondition — базовый актив (аппер-кейс, без привязки к бирже).
type SymbolCondition struct {
	Symbol string
}

// ExchangeMarketCondition — ключ "{exchange}_{spot|futures}" в нижнем регистре.
type ExchangeMarketCondition struct {
	ExchangeMarket string
}

// DirectionCondition — направление сделки, "up" или "down".
type DirectionCondition struct {
	Direction string
}

func (VolumeCondition) Kind() ConditionType         { return ConditionVolume }
func (DeltaCondition) Kind() ConditionType          { return ConditionDelta }
func (WickCondition) Kind() ConditionType           { return ConditionWickPct }
func (SeriesCondition) Kind() ConditionType         { return ConditionSeries }
func (SymbolCondition) Kind() ConditionType         { return ConditionSymbol }
func (ExchangeMarketCondition) Kind() ConditionType { return ConditionExchangeMarket }
func (DirectionCondition) Kind() ConditionType      { return ConditionDirection }

func (VolumeCondition) sealed()         {}
func (DeltaCondition) sealed()          {}
func (WickCondition) sealed()           {}
func (SeriesCondition) sealed()         {}
func (ExchangeMarketCondition) sealed() {}
func (SymbolCondition) sealed()         {}
func (DirectionCondition) sealed()      {}

func (c VolumeCondition) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(struct {
		Type     ConditionType `json:"type"`
		Operator string        `json:"operator"`
		Value    float64       `json:"value"`
	}{ConditionVolume, operatorGTE, c.Value})
}

// rangeJSON — общая проводная форма delta/wick_pct. ValueMax пишется всегда,
// явный null и есть «не ограничено сверху».
type rangeJSON struct {
	Type     ConditionType `json:"type"`
	Operator string        `json:"operator"`
	ValueMin float64       `json:"valueMin"`
	ValueMax *float64      `json:"valueMax"`
}

func (c DeltaCondition) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(rangeJSON{ConditionDelta, operatorGTE, c.Min, c.Max})
}

func (c WickCondition) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(rangeJSON{ConditionWickPct, operatorGTE, c.Min, c.Max})
}

func (c SeriesCondition) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(struct {
		Type              ConditionType `json:"type"`
		Operator          string        `json:"operator"`
		Count             int           `json:"count"`
		TimeWindowSeconds int           `json:"timeWindowSeconds"`
	}{ConditionSeries, operatorGTE, c.Count, c.TimeWindowSeconds})
}

func (c SymbolCondition) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(struct {
		Type     ConditionType `json:"type"`
		Operator string        `json:"operator"`
		Symbol   string        `json:"symbol"`
	}{ConditionSymbol, operatorGTE, c.Symbol})
}

func (c ExchangeMarketCondition) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(struct {
		Type           ConditionType `json:"type"`
		Operator       string        `json:"operator"`
		ExchangeMarket string        `json:"exchange_market"`
	}{ConditionExchangeMarket, operatorGTE, c.ExchangeMarket})
}

func (c DirectionCondition) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(struct {
		Type      ConditionType `json:"type"`
		Operator  string        `json:"operator"`
		Direction string        `json:"direction"`
	}{ConditionDirection, operatorGTE, c.Direction})
}

// CloneCondition возвращает независимую копию (у range-вариантов есть указатель).
func CloneCondition(c Condition) Condition {
	switch v := c.(type) {
	case DeltaCondition:
		return DeltaCondition{Min: v.Min, Max: clonePtr(v.Max)}
	case WickCondition:
		return WickCondition{Min: v.Min, Max: clonePtr(v.Max)}
	default:
		// остальные варианты — чистые значения
		return c
	}
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

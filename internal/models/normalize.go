package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Минимально допустимые параметры серийного условия.
const (
	seriesMinCount         = 2
	seriesMinWindowSeconds = 60
)

// NormalizeCondition приводит произвольное (в том числе легаси или битое)
// условие к ровно одному каноничному варианту. Тотальная функция: на любом
// входе возвращает условие, порча документа деградирует до безобидного
// volume >= 0, а не роняет загрузку.
//
// Порядок правил миграции фиксирован, выигрывает первое совпавшее:
//  1. тег "wick" — алиас "delta";
//  2. delta/wick_pct: valueMin/valueMax, иначе легаси-скаляр value -> valueMin;
//  3. symbol: поле symbol или легаси value, аппер-кейс и трим;
//  4. exchange_market: готовый ключ, иначе склейка exchange+market
//     (market "linear" -> "futures", дефолты spot/binance);
//  5. direction: ловер-кейс, дефолт "up";
//  6. неизвестный тег со скалярным value — пропускаем как volume;
//  7. всё остальное — volume со значением 0.
func NormalizeCondition(raw any) Condition {
	c, _ := normalizeCondition(raw)
	return c
}

// normalizeCondition дополнительно сообщает, сработал ли «глухой» фолбэк
// (правило 7) — загрузчик логирует такие попадания как аномалию данных.
func normalizeCondition(raw any) (Condition, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return VolumeCondition{}, true
	}

	typ, _ := stringField(m, "type")
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "wick" {
		// алиас из самой первой версии схемы
		typ = string(ConditionDelta)
	}

	switch ConditionType(typ) {
	case ConditionVolume:
		v, _ := floatField(m, "value")
		return VolumeCondition{Value: v}, false

	case ConditionDelta:
		min, max := rangeBounds(m)
		return DeltaCondition{Min: min, Max: max}, false

	case ConditionWickPct:
		min, max := rangeBounds(m)
		return WickCondition{Min: min, Max: max}, false

	case ConditionSeries:
		count, ok := intField(m, "count")
		if !ok || count < seriesMinCount {
			count = seriesMinCount
		}
		window, ok := intField(m, "timeWindowSeconds")
		if !ok || window < seriesMinWindowSeconds {
			window = seriesMinWindowSeconds
		}
		return SeriesCondition{Count: count, TimeWindowSeconds: window}, false

	case ConditionSymbol:
		s, ok := stringField(m, "symbol")
		if !ok {
			s, _ = stringField(m, "value")
		}
		return SymbolCondition{Symbol: strings.ToUpper(strings.TrimSpace(s))}, false

	case ConditionExchangeMarket:
		return normalizeExchangeMarket(m), false

	case ConditionDirection:
		d, _ := stringField(m, "direction")
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "down" {
			d = "up"
		}
		return DirectionCondition{Direction: d}, false

	default:
		if v, ok := floatField(m, "value"); ok {
			// форвард-совместимость: неизвестный тег со скаляром не теряем
			return VolumeCondition{Value: v}, false
		}
		return VolumeCondition{}, true
	}
}

// rangeBounds реализует правило 2: valueMin/valueMax приоритетнее легаси
// скаляра value; отсутствующий valueMin — явный ноль, отсутствующий
// valueMax — nil (не ограничено сверху).
func rangeBounds(m map[string]any) (float64, *float64) {
	min, hasMin := floatField(m, "valueMin")
	max, hasMax := floatField(m, "valueMax")
	if hasMin || hasMax {
		if !hasMin {
			min = 0
		}
		var maxPtr *float64
		if hasMax {
			maxPtr = &max
		}
		return min, maxPtr
	}
	if v, ok := floatField(m, "value"); ok {
		return v, nil
	}
	return 0, nil
}

func normalizeExchangeMarket(m map[string]any) ExchangeMarketCondition {
	if v, ok := stringField(m, "exchange_market"); ok && strings.TrimSpace(v) != "" {
		return ExchangeMarketCondition{ExchangeMarket: strings.ToLower(strings.TrimSpace(v))}
	}

	ex, hasEx := stringField(m, "exchange")
	mk, hasMk := stringField(m, "market")
	ex = strings.ToLower(strings.TrimSpace(ex))
	mk = strings.ToLower(strings.TrimSpace(mk))
	if mk == "linear" {
		// так фьючерсы назывались в выгрузках bybit
		mk = "futures"
	}
	hasEx = hasEx && ex != ""
	hasMk = hasMk && mk != ""

	switch {
	case hasEx && hasMk:
		return ExchangeMarketCondition{ExchangeMarket: ex + "_" + mk}
	case hasEx:
		return ExchangeMarketCondition{ExchangeMarket: ex + "_spot"}
	case hasMk:
		return ExchangeMarketCondition{ExchangeMarket: "binance_" + mk}
	default:
		// тегу верим, полей нет — самый безопасный дефолт
		return ExchangeMarketCondition{ExchangeMarket: "binance_spot"}
	}
}

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func floatField(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		// в руками правленных документах числа встречаются строками
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func intField(m map[string]any, key string) (int, bool) {
	f, ok := floatField(m, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

package models

import (
	"reflect"
	"testing"

	"github.com/bytedance/sonic"
)

func f(v float64) *float64 { return &v }

// Миграция легаси-форм: каждая историческая запись даёт ровно один
// каноничный вариант.
func TestNormalizeCondition_Migrations(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want Condition
	}{
		{
			name: "volume как есть",
			raw:  map[string]any{"type": "volume", "value": 25000.0},
			want: VolumeCondition{Value: 25000},
		},
		{
			name: "volume без значения — ноль",
			raw:  map[string]any{"type": "volume"},
			want: VolumeCondition{},
		},
		{
			name: "wick — алиас delta, скаляр уезжает в valueMin",
			raw:  map[string]any{"type": "wick", "value": 3.5},
			want: DeltaCondition{Min: 3.5, Max: nil},
		},
		{
			name: "delta с границами",
			raw:  map[string]any{"type": "delta", "valueMin": 1.0, "valueMax": 5.0},
			want: DeltaCondition{Min: 1, Max: f(5)},
		},
		{
			name: "delta только с valueMax — valueMin явный ноль",
			raw:  map[string]any{"type": "delta", "valueMax": 5.0},
			want: DeltaCondition{Min: 0, Max: f(5)},
		},
		{
			name: "delta с valueMax null — не ограничено сверху",
			raw:  map[string]any{"type": "delta", "valueMin": 2.0, "valueMax": nil},
			want: DeltaCondition{Min: 2, Max: nil},
		},
		{
			name: "delta пустая — дефолты",
			raw:  map[string]any{"type": "delta"},
			want: DeltaCondition{},
		},
		{
			name: "границы приоритетнее легаси-скаляра",
			raw:  map[string]any{"type": "delta", "valueMin": 1.0, "value": 9.0},
			want: DeltaCondition{Min: 1, Max: nil},
		},
		{
			name: "wick_pct со скаляром",
			raw:  map[string]any{"type": "wick_pct", "value": 40.0},
			want: WickCondition{Min: 40, Max: nil},
		},
		{
			name: "symbol нормализуется в аппер-кейс",
			raw:  map[string]any{"type": "symbol", "symbol": " btc "},
			want: SymbolCondition{Symbol: "BTC"},
		},
		{
			name: "symbol из легаси value",
			raw:  map[string]any{"type": "symbol", "value": "eth"},
			want: SymbolCondition{Symbol: "ETH"},
		},
		{
			name: "exchange_market готовым ключом",
			raw:  map[string]any{"type": "exchange_market", "exchange_market": "Bybit_Futures"},
			want: ExchangeMarketCondition{ExchangeMarket: "bybit_futures"},
		},
		{
			name: "склейка exchange+market, linear это futures",
			raw:  map[string]any{"type": "exchange_market", "exchange": "Bybit", "market": "linear"},
			want: ExchangeMarketCondition{ExchangeMarket: "bybit_futures"},
		},
		{
			name: "только exchange — рынок spot",
			raw:  map[string]any{"type": "exchange_market", "exchange": "okx"},
			want: ExchangeMarketCondition{ExchangeMarket: "okx_spot"},
		},
		{
			name: "только market — биржа binance",
			raw:  map[string]any{"type": "exchange_market", "market": "futures"},
			want: ExchangeMarketCondition{ExchangeMarket: "binance_futures"},
		},
		{
			name: "direction приводится к ловер-кейсу",
			raw:  map[string]any{"type": "direction", "direction": "DOWN"},
			want: DirectionCondition{Direction: "down"},
		},
		{
			name: "direction по умолчанию up",
			raw:  map[string]any{"type": "direction"},
			want: DirectionCondition{Direction: "up"},
		},
		{
			name: "series с полями",
			raw:  map[string]any{"type": "series", "count": 5.0, "timeWindowSeconds": 300.0},
			want: SeriesCondition{Count: 5, TimeWindowSeconds: 300},
		},
		{
			name: "series поджимается к минимумам",
			raw:  map[string]any{"type": "series", "count": 1.0, "timeWindowSeconds": 10.0},
			want: SeriesCondition{Count: 2, TimeWindowSeconds: 60},
		},
		{
			name: "неизвестный тег со скаляром — пропускаем как volume",
			raw:  map[string]any{"type": "whale_score", "value": 0.7},
			want: VolumeCondition{Value: 0.7},
		},
		{
			name: "число строкой из руками правленного документа",
			raw:  map[string]any{"type": "volume", "value": "15000"},
			want: VolumeCondition{Value: 15000},
		},
	}

	for _, tt := range tests {
		got := NormalizeCondition(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: NormalizeCondition() = %#v, ожидалось %#v", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeCondition_Fallback(t *testing.T) {
	// совсем нераспознанный вход деградирует до volume >= 0, загрузка не падает
	inputs := []any{
		nil,
		"мусор",
		42,
		map[string]any{},
		map[string]any{"type": "unknown"},
		map[string]any{"foo": "bar"},
	}
	for _, raw := range inputs {
		got, fellBack := normalizeCondition(raw)
		if !reflect.DeepEqual(got, VolumeCondition{}) {
			t.Errorf("normalizeCondition(%v) = %#v, ожидался дефолтный volume", raw, got)
		}
		if !fellBack {
			t.Errorf("normalizeCondition(%v): фолбэк не отмечен", raw)
		}
	}

	// штатные пути фолбэком не считаются
	if _, fellBack := normalizeCondition(map[string]any{"type": "volume"}); fellBack {
		t.Error("volume без значения — это дефолт, а не фолбэк")
	}
	if _, fellBack := normalizeCondition(map[string]any{"type": "whale_score", "value": 1.0}); fellBack {
		t.Error("форвард-совместимый пропуск — не фолбэк")
	}
}

// Повторная нормализация не меняет результат.
func TestNormalizeCondition_Idempotent(t *testing.T) {
	raws := []map[string]any{
		{"type": "wick", "value": 3.0},
		{"type": "exchange_market", "exchange": "bybit", "market": "linear"},
		{"type": "symbol", "value": "btc"},
		{"type": "direction", "direction": "Up"},
		{"type": "series"},
	}
	for _, raw := range raws {
		once := NormalizeCondition(raw)

		b, err := sonic.Marshal(once)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var m map[string]any
		if err := sonic.Unmarshal(b, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		twice := NormalizeCondition(m)

		if !reflect.DeepEqual(once, twice) {
			t.Errorf("нормализация не идемпотентна: %#v != %#v (вход %v)", once, twice, raw)
		}
	}
}

// Каноничный вариант переживает цикл сериализация -> нормализация без потерь.
func TestNormalizeCondition_CanonicalRoundTrip(t *testing.T) {
	conditions := []Condition{
		VolumeCondition{Value: 20000},
		DeltaCondition{Min: 1.5, Max: f(7)},
		DeltaCondition{Min: 0, Max: nil},
		WickCondition{Min: 30, Max: f(90)},
		SeriesCondition{Count: 3, TimeWindowSeconds: 120},
		SymbolCondition{Symbol: "BTC"},
		ExchangeMarketCondition{ExchangeMarket: "bybit_futures"},
		DirectionCondition{Direction: "down"},
	}
	for _, c := range conditions {
		b, err := sonic.Marshal(c)
		if err != nil {
			t.Fatalf("marshal %#v: %v", c, err)
		}
		var m map[string]any
		if err := sonic.Unmarshal(b, &m); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		got := NormalizeCondition(m)
		if !reflect.DeepEqual(got, c) {
			t.Errorf("round-trip: %#v -> %s -> %#v", c, b, got)
		}
	}
}

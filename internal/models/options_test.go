package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMarketSettingsThresholds(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2.5", "2.5", false},
		{"2,5", "2.5", false}, // запятая как десятичный разделитель
		{" 20000 ", "20000", false},
		{"", "0", false}, // пустой порог — ноль
		{"abc", "", true},
	}

	for _, tt := range tests {
		ms := MarketSettings{Delta: tt.in}
		got, err := ms.DeltaValue()
		if tt.wantErr {
			if err == nil {
				t.Errorf("DeltaValue(%q): ожидалась ошибка", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("DeltaValue(%q): %v", tt.in, err)
			continue
		}
		want, _ := decimal.NewFromString(tt.want)
		if !got.Equal(want) {
			t.Errorf("DeltaValue(%q) = %s, ожидалось %s", tt.in, got, want)
		}
	}
}

func TestOptionsClone_Independent(t *testing.T) {
	o := DefaultOptions()
	o.ConditionalTemplates = []Strategy{
		{Name: "x", Conditions: []Condition{WickCondition{Min: 1, Max: f(2)}}},
	}

	c := o.Clone()
	c.Exchanges["binance"] = false
	c.MessageTemplate = "другой"
	w := c.ConditionalTemplates[0].Conditions[0].(WickCondition)
	*w.Max = 77

	if !o.Exchanges["binance"] {
		t.Error("клон делит map бирж с оригиналом")
	}
	if o.MessageTemplate == "другой" {
		t.Error("клон делит шаблон с оригиналом")
	}
	orig := o.ConditionalTemplates[0].Conditions[0].(WickCondition)
	if *orig.Max != 2 {
		t.Error("клон делит указатель границы с оригиналом")
	}
}

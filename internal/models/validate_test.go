package models

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidateStrategies_MissingFields(t *testing.T) {
	strategies := []Strategy{
		{
			// есть объём, нет дельты и тени
			Name:             "Киты",
			Enabled:          true,
			UseGlobalFilters: false,
			Conditions:       []Condition{VolumeCondition{Value: 10}},
		},
	}

	errs := ValidateStrategies(strategies)
	e, ok := errs[0]
	if !ok {
		t.Fatal("стратегия без дельты и тени должна быть флагнута")
	}
	if !reflect.DeepEqual(e.MissingFields, []string{FieldDelta, FieldWick}) {
		t.Errorf("MissingFields = %v, ожидалось [Дельта Тень]", e.MissingFields)
	}
	if !strings.Contains(e.Error(), "Киты") {
		t.Errorf("сообщение должно называть стратегию по имени: %q", e.Error())
	}
}

func TestValidateStrategies_AllMissingKeepsOrder(t *testing.T) {
	strategies := []Strategy{
		{
			Enabled:          true,
			UseGlobalFilters: false,
			Conditions:       []Condition{SymbolCondition{Symbol: "BTC"}},
		},
	}

	errs := ValidateStrategies(strategies)
	e, ok := errs[0]
	if !ok {
		t.Fatal("ожидался флаг")
	}
	// фиксированный порядок категорий
	want := []string{FieldDelta, FieldVolume, FieldWick}
	if !reflect.DeepEqual(e.MissingFields, want) {
		t.Errorf("MissingFields = %v, ожидалось %v", e.MissingFields, want)
	}
	// безымянная стратегия называется по позиции
	if !strings.Contains(e.Error(), "Стратегия 1") {
		t.Errorf("ожидалась позиционная метка: %q", e.Error())
	}
}

func TestValidateStrategies_NeverFlagged(t *testing.T) {
	strategies := []Strategy{
		{
			// глобальные фильтры: собственные пороги не обязательны
			Enabled:          true,
			UseGlobalFilters: true,
			Conditions:       []Condition{SymbolCondition{Symbol: "BTC"}},
		},
		{
			// выключена — не проверяется вовсе
			Enabled:          false,
			UseGlobalFilters: false,
			Conditions:       []Condition{SymbolCondition{Symbol: "ETH"}},
		},
		{
			// полный набор собственных порогов
			Enabled:          true,
			UseGlobalFilters: false,
			Conditions: []Condition{
				DeltaCondition{Min: 2},
				VolumeCondition{Value: 20000},
				WickCondition{Min: 50},
			},
		},
	}

	if errs := ValidateStrategies(strategies); len(errs) != 0 {
		t.Errorf("ни одна стратегия не должна быть флагнута, получено %v", errs)
	}
}

func TestValidateStrategies_Pure(t *testing.T) {
	s := Strategy{
		Enabled:          true,
		UseGlobalFilters: false,
		Conditions:       []Condition{VolumeCondition{Value: 1}},
	}
	in := []Strategy{s.Clone()}
	_ = ValidateStrategies(in)
	if !reflect.DeepEqual(in[0], s) {
		t.Error("валидатор не должен мутировать вход")
	}
}

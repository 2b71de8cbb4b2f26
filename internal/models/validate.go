package models

import (
	"fmt"
	"strings"
)

// Категории обязательных условий в фиксированном порядке вывода.
const (
	FieldDelta  = "Дельта"
	FieldVolume = "Объём"
	FieldWick   = "Тень"
)

// StrategyError — отчёт о структурно неполной стратегии: отключила глобальные
// фильтры, но не задала собственные.
type StrategyError struct {
	Index         int
	Name          string
	MissingFields []string
}

func (e *StrategyError) Error() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("Стратегия %d", e.Index+1)
	}
	return fmt.Sprintf("«%s»: не заданы %s", name, strings.Join(e.MissingFields, ", "))
}

// ValidateStrategies — чистая проверка списка стратегий, вход не мутирует.
// Флагуются только включённые стратегии с useGlobalFilters == false, у которых
// нет хотя бы одной из категорий delta / volume / wick_pct. Выключенные и
// живущие на глобальных фильтрах не проверяются вовсе.
func ValidateStrategies(strategies []Strategy) map[int]*StrategyError {
	errs := make(map[int]*StrategyError)
	for i, s := range strategies {
		if !s.Enabled || s.UseGlobalFilters {
			continue
		}

		var missing []string
		if !s.HasCondition(ConditionDelta) {
			missing = append(missing, FieldDelta)
		}
		if !s.HasCondition(ConditionVolume) {
			missing = append(missing, FieldVolume)
		}
		if !s.HasCondition(ConditionWickPct) {
			missing = append(missing, FieldWick)
		}
		if len(missing) > 0 {
			errs[i] = &StrategyError{Index: i, Name: s.Name, MissingFields: missing}
		}
	}
	return errs
}

package service

import (
	"sort"
	"strings"

	"alert_bot/internal/models"
)

// ValidationError — отказ сохранения: список структурно неполных стратегий.
// Пользовательская, исправимая ошибка, а не сбой.
type ValidationError struct {
	Strategies map[int]*models.StrategyError
}

func (e *ValidationError) Error() string {
	idx := make([]int, 0, len(e.Strategies))
	for i := range e.Strategies {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	parts := make([]string, 0, len(idx))
	for _, i := range idx {
		parts = append(parts, e.Strategies[i].Error())
	}
	return "сохранение отклонено: " + strings.Join(parts, "; ")
}

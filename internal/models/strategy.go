package models

import (
	"github.com/bytedance/sonic"
)

// Strategy — условный шаблон: самостоятельный набор условий со своим текстом
// сообщения. Условия комбинируются по И: сделка должна пройти каждое.
type Strategy struct {
	Name             string
	Enabled          bool
	UseGlobalFilters bool
	Conditions       []Condition
	Template         string // текст в технических токенах
	ChatID           string

	// LegacyFallbacks — сколько условий при разборе ушло в глухой фолбэк
	// (нераспознанный мусор). Не сериализуется, нужен загрузчику для WARN.
	LegacyFallbacks int
}

type strategyJSON struct {
	Name             string      `json:"name,omitempty"`
	Enabled          bool        `json:"enabled"`
	UseGlobalFilters bool        `json:"useGlobalFilters"`
	Conditions       []Condition `json:"conditions"`
	Template         string      `json:"template"`
	ChatID           string      `json:"chatId,omitempty"`
}

func (s Strategy) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(strategyJSON{
		Name:             s.Name,
		Enabled:          s.Enabled,
		UseGlobalFilters: s.UseGlobalFilters,
		Conditions:       s.Conditions,
		Template:         s.Template,
		ChatID:           s.ChatID,
	})
}

// UnmarshalJSON — единственная точка входа для сырых данных: каждое условие
// проходит через NormalizeCondition, отсутствующие enabled/useGlobalFilters
// трактуются как true.
func (s *Strategy) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name             string `json:"name"`
		Enabled          *bool  `json:"enabled"`
		UseGlobalFilters *bool  `json:"useGlobalFilters"`
		Conditions       []any  `json:"conditions"`
		Template         string `json:"template"`
		ChatID           string `json:"chatId"`
	}
	if err := sonic.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.Name = aux.Name
	s.Template = aux.Template
	s.ChatID = aux.ChatID
	s.Enabled = aux.Enabled == nil || *aux.Enabled
	s.UseGlobalFilters = aux.UseGlobalFilters == nil || *aux.UseGlobalFilters

	s.Conditions = make([]Condition, 0, len(aux.Conditions))
	s.LegacyFallbacks = 0
	for _, raw := range aux.Conditions {
		c, fellBack := normalizeCondition(raw)
		if fellBack {
			s.LegacyFallbacks++
		}
		s.Conditions = append(s.Conditions, c)
	}
	if len(s.Conditions) == 0 {
		// список условий по инварианту непустой
		s.Conditions = []Condition{VolumeCondition{}}
	}
	return nil
}

// HasCondition — есть ли в списке условие данного варианта.
func (s Strategy) HasCondition(kind ConditionType) bool {
	for _, c := range s.Conditions {
		if c.Kind() == kind {
			return true
		}
	}
	return false
}

// Clone — глубокая копия для снапшотов сессии редактирования.
func (s Strategy) Clone() Strategy {
	out := s
	out.Conditions = make([]Condition, len(s.Conditions))
	for i, c := range s.Conditions {
		out.Conditions[i] = CloneCondition(c)
	}
	return out
}

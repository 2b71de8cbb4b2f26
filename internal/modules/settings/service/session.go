package service

import (
	"context"
	"sync"

	"alert_bot/internal/models"
)

// EditState — состояние сессии редактирования.
type EditState int32

const (
	StateIdle EditState = iota
	StateEditing
	StateCommitting
)

// Session — явная машина состояний Idle -> Editing -> Committing -> Idle
// вокруг одного документа настроек. Правила:
//   - Begin снимает снапшот, Commit с упавшим сохранением откатывает документ
//     к снапшоту (неудачное сохранение == полный откат правки);
//   - успешный Commit — точка фиксации, снапшот выбрасывается;
//   - внешний Refresh принимается только в Idle, пока пользователь печатает
//     или идёт запись — подавляется.
type Session struct {
	mu       sync.Mutex
	state    EditState
	doc      *models.Options
	snapshot *models.Options
}

func NewSession(doc *models.Options) *Session {
	return &Session{state: StateIdle, doc: doc}
}

func (s *Session) State() EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Document — текущий документ. Мутировать его можно только через Edit.
func (s *Session) Document() *models.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Begin переводит Idle -> Editing и снимает снапшот. false, если сессия уже
// не в Idle (вторая параллельная правка не начинается).
func (s *Session) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return false
	}
	s.snapshot = s.doc.Clone()
	s.state = StateEditing
	return true
}

// Edit применяет мутацию к документу. Допустимо только в Editing.
func (s *Session) Edit(mutate func(*models.Options)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return false
	}
	mutate(s.doc)
	return true
}

// Cancel откатывает незакоммиченную правку и возвращает сессию в Idle.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return false
	}
	s.doc = s.snapshot
	s.snapshot = nil
	s.state = StateIdle
	return true
}

// Commit: Editing -> Committing, затем save. Ошибка сохранения — полный
// откат к снапшоту; успех — фиксация. В обоих случаях сессия в Idle.
func (s *Session) Commit(ctx context.Context, save func(context.Context, *models.Options) error) error {
	s.mu.Lock()
	if s.state != StateEditing {
		s.mu.Unlock()
		return ErrNoEdit
	}
	s.state = StateCommitting
	doc := s.doc
	s.mu.Unlock()

	// сохранение ходит в сеть, мьютекс на это время отпущен;
	// Refresh в Committing всё равно подавлен по state
	err := save(ctx, doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.doc = s.snapshot
		s.snapshot = nil
		s.state = StateIdle
		return err
	}
	s.snapshot = nil
	s.state = StateIdle
	return nil
}

// Refresh подменяет документ извне (перечитали из стора). Принимается только
// в Idle: во время правки или записи внешняя версия молча игнорируется.
func (s *Session) Refresh(doc *models.Options) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return false
	}
	s.doc = doc
	return true
}

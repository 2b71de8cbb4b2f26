package service

import (
	"context"
	"strings"
	"testing"

	"alert_bot/internal/models"
	"alert_bot/internal/template"

	"github.com/pkg/errors"
)

func TestSession_CommitSuccess(t *testing.T) {
	sess := NewSession(models.DefaultOptions())

	if !sess.Begin() {
		t.Fatal("Begin из Idle должен проходить")
	}
	sess.Edit(func(o *models.Options) {
		o.MessageTemplate = "{symbol}"
	})

	err := sess.Commit(context.Background(), func(context.Context, *models.Options) error {
		return nil
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if sess.State() != StateIdle {
		t.Error("после коммита сессия должна быть в Idle")
	}
	if sess.Document().MessageTemplate != "{symbol}" {
		t.Error("успешный коммит — точка фиксации правки")
	}
}

func TestSession_CommitFailureRollsBack(t *testing.T) {
	sess := NewSession(models.DefaultOptions())
	before := sess.Document().MessageTemplate

	sess.Begin()
	sess.Edit(func(o *models.Options) {
		o.MessageTemplate = "испорчено"
	})

	saveErr := errors.New("сеть упала")
	err := sess.Commit(context.Background(), func(context.Context, *models.Options) error {
		return saveErr
	})
	if !errors.Is(err, saveErr) {
		t.Fatalf("Commit должен вернуть ошибку сохранения, получено %v", err)
	}

	// упавшее сохранение == полный откат к значению до правки
	if got := sess.Document().MessageTemplate; got != before {
		t.Errorf("документ не откатился: %q", got)
	}
	if sess.State() != StateIdle {
		t.Error("после отката сессия в Idle")
	}
}

// Всё, что рисуется после коммита, берётся из документа сессии: после
// неудачной записи предпросмотр строится по старому шаблону, отклонённый
// текст наружу не попадает.
func TestSession_FailedCommitPreviewUsesOldTemplate(t *testing.T) {
	sess := NewSession(models.DefaultOptions())
	before := sess.Document().MessageTemplate

	sess.Begin()
	sess.Edit(func(o *models.Options) {
		o.MessageTemplate = "ОТКЛОНЁННЫЙ {symbol}"
	})
	err := sess.Commit(context.Background(), func(context.Context, *models.Options) error {
		return errors.New("стор недоступен")
	})
	if err == nil {
		t.Fatal("ожидалась ошибка сохранения")
	}

	preview := template.Preview(sess.Document().MessageTemplate)
	if strings.Contains(preview, "ОТКЛОНЁННЫЙ") {
		t.Errorf("предпросмотр показывает откаченную правку: %q", preview)
	}
	if want := template.Preview(before); preview != want {
		t.Errorf("предпросмотр = %q, ожидалось %q", preview, want)
	}
}

func TestSession_SecondBeginRejected(t *testing.T) {
	sess := NewSession(models.DefaultOptions())
	sess.Begin()
	if sess.Begin() {
		t.Error("вторая параллельная правка не должна начинаться")
	}
}

func TestSession_CancelRestoresSnapshot(t *testing.T) {
	sess := NewSession(models.DefaultOptions())
	before := sess.Document().MessageTemplate

	sess.Begin()
	sess.Edit(func(o *models.Options) {
		o.MessageTemplate = "черновик"
	})
	if !sess.Cancel() {
		t.Fatal("Cancel из Editing должен проходить")
	}
	if got := sess.Document().MessageTemplate; got != before {
		t.Errorf("Cancel не вернул документ: %q", got)
	}
}

func TestSession_RefreshSuppressedWhileEditing(t *testing.T) {
	sess := NewSession(models.DefaultOptions())

	fresh := models.DefaultOptions()
	fresh.MessageTemplate = "свежая версия"

	// в Idle внешний рефреш принимается
	if !sess.Refresh(fresh) {
		t.Fatal("Refresh в Idle должен приниматься")
	}
	if sess.Document().MessageTemplate != "свежая версия" {
		t.Fatal("документ не подменился")
	}

	// пока пользователь печатает — подавляется
	sess.Begin()
	newer := models.DefaultOptions()
	newer.MessageTemplate = "ещё свежее"
	if sess.Refresh(newer) {
		t.Error("Refresh в Editing должен подавляться")
	}
	if sess.Document().MessageTemplate == "ещё свежее" {
		t.Error("документ подменился во время правки")
	}
}

func TestSession_CommitWithoutBegin(t *testing.T) {
	sess := NewSession(models.DefaultOptions())
	err := sess.Commit(context.Background(), func(context.Context, *models.Options) error {
		t.Fatal("save не должен вызываться без начатой правки")
		return nil
	})
	if !errors.Is(err, ErrNoEdit) {
		t.Errorf("ожидался ErrNoEdit, получено %v", err)
	}
}

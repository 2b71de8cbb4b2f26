package db

import (
	"context"
	"os"
	"testing"

	"alert_bot/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeTx подменяет pgx.Tx: интерфейс встроен, переопределяются только
// Commit и Rollback.
type fakeTx struct {
	pgx.Tx

	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (b *fakeBeginner) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func noopFn(context.Context, pgx.Tx) error { return nil }

// Упавший COMMIT — это неуспех всей операции, он обязан дойти до вызывающего.
func TestInTx_CommitErrorPropagates(t *testing.T) {
	commitErr := errors.New("commit отклонён")
	tx := &fakeTx{commitErr: commitErr}
	m := NewPgTxManager(nil)

	err := m.inTx(context.Background(), &fakeBeginner{tx: tx}, pgx.TxOptions{}, noopFn)
	if !errors.Is(err, commitErr) {
		t.Fatalf("ошибка коммита потеряна: получено %v", err)
	}
	if !tx.committed {
		t.Error("Commit должен был вызываться")
	}
	if tx.rolledBack {
		t.Error("после попытки коммита отката быть не должно")
	}
}

func TestInTx_Success(t *testing.T) {
	tx := &fakeTx{}
	m := NewPgTxManager(nil)

	if err := m.inTx(context.Background(), &fakeBeginner{tx: tx}, pgx.TxOptions{}, noopFn); err != nil {
		t.Fatalf("inTx: %v", err)
	}
	if !tx.committed || tx.rolledBack {
		t.Error("успешный сценарий — ровно один Commit, без Rollback")
	}
}

func TestInTx_FnErrorRollsBack(t *testing.T) {
	tx := &fakeTx{}
	m := NewPgTxManager(nil)
	fnErr := errors.New("запрос упал")

	err := m.inTx(context.Background(), &fakeBeginner{tx: tx}, pgx.TxOptions{},
		func(context.Context, pgx.Tx) error { return fnErr })
	if !errors.Is(err, fnErr) {
		t.Fatalf("ожидалась ошибка fn, получено %v", err)
	}
	if tx.committed {
		t.Error("после ошибки fn коммита быть не должно")
	}
	if !tx.rolledBack {
		t.Error("после ошибки fn транзакция должна откатиться")
	}
}

func TestInTx_BeginErrorNoTx(t *testing.T) {
	beginErr := errors.New("нет соединения")
	m := NewPgTxManager(nil)

	err := m.inTx(context.Background(), &fakeBeginner{beginErr: beginErr}, pgx.TxOptions{}, noopFn)
	if !errors.Is(err, beginErr) {
		t.Fatalf("ожидалась ошибка begin, получено %v", err)
	}
}

func TestInTx_PanicRollsBackAndRethrows(t *testing.T) {
	tx := &fakeTx{}
	m := NewPgTxManager(nil)

	defer func() {
		if recover() == nil {
			t.Fatal("паника должна пробрасываться дальше")
		}
		if !tx.rolledBack {
			t.Error("при панике транзакция должна откатиться")
		}
	}()

	_ = m.inTx(context.Background(), &fakeBeginner{tx: tx}, pgx.TxOptions{},
		func(context.Context, pgx.Tx) error { panic("обвал") })
}

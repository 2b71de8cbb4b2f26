package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxManager — запуск функции в транзакции на мастере. Настройки чатов пишутся
// целиком одним upsert'ом, поэтому других режимов не нужно.
type TxManager interface {
	RunMaster(ctx context.Context, fn func(ctxTx context.Context, tx pgx.Tx) error) error
}

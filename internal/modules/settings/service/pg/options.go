package pg

import (
	"context"
	"fmt"

	"alert_bot/internal/modules/settings/service"
	"alert_bot/pkg/db"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// Схема:
//
//	CREATE TABLE IF NOT EXISTS chat_options (
//	    chat_id    BIGINT PRIMARY KEY,
//	    payload    JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);

// Options — документ настроек в Postgres, одна строка на чат, запись всегда
// целиком (upsert).
type Options struct {
	db db.TxManager
}

func NewOptions(m db.TxManager) *Options {
	return &Options{db: m}
}

func (o *Options) Load(ctx context.Context, chatID int64) (payload []byte, err error) {
	defer func() {
		if err != nil && !errors.Is(err, service.ErrNotFound) {
			err = fmt.Errorf("pg.Options.Load: %w", err)
		}
	}()

	err = o.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctxTx,
			`SELECT payload FROM chat_options WHERE chat_id = $1`, chatID)
		if scanErr := row.Scan(&payload); scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return service.ErrNotFound
			}
			return scanErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (o *Options) Save(ctx context.Context, chatID int64, payload []byte) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Options.Save: %w", err)
		}
	}()

	return o.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, execErr := tx.Exec(ctxTx,
			`INSERT INTO chat_options (chat_id, payload, updated_at)
			 VALUES ($1, $2, now())
			 ON CONFLICT (chat_id)
			 DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
			chatID, payload)
		return execErr
	})
}

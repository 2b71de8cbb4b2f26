package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"alert_bot/internal/modules/settings/service"
)

// Options — файловый стор для локальных запусков и офлайн-миграции:
// по файлу на чат, запись атомарная через tmp + rename.
type Options struct {
	dir string

	mu sync.Mutex
}

const defaultDir = "data/options"

func NewOptions(dir string) *Options {
	if dir == "" {
		dir = defaultDir
	}
	return &Options{dir: dir}
}

func (o *Options) path(chatID int64) string {
	return filepath.Join(o.dir, strconv.FormatInt(chatID, 10)+".json")
}

func (o *Options) Load(_ context.Context, chatID int64) ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	b, err := os.ReadFile(o.path(chatID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, service.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", o.path(chatID), err)
	}
	return b, nil
}

func (o *Options) Save(_ context.Context, chatID int64, payload []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return err
	}

	p := o.path(chatID)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p) // атомарно
}

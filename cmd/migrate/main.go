// Офлайн-миграция сохранённого документа настроек: читает легаси JSON,
// прогоняет нормализацию условий и миграцию шаблонов, пишет каноничный
// документ. Полезно перед переездом стора и для ручной починки выгрузок.
package main

import (
	"context"
	"fmt"
	"os"

	"alert_bot/internal/models"
	settings "alert_bot/internal/modules/settings/service"
	"alert_bot/internal/modules/settings/service/file"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

func main() {
	viper.SetConfigName(".migrate")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("MIGRATE")
	viper.AutomaticEnv()
	// конфиг опционален: достаточно аргументов или env
	_ = viper.ReadInConfig()

	src := viper.GetString("source")
	if len(os.Args) > 1 {
		src = os.Args[1]
	}
	if src == "" {
		panic("usage: migrate <options.json> [out.json]")
	}
	dst := viper.GetString("target")
	if len(os.Args) > 2 {
		dst = os.Args[2]
	}
	if dst == "" {
		dst = src
	}

	if err := run(src, dst); err != nil {
		panic(err)
	}
	fmt.Println("done")
}

func run(src, dst string) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrap(err, "read source")
	}

	opts := &models.Options{}
	// в отличие от загрузки в боте, здесь битый JSON — ошибка:
	// молча заменить файл дефолтами при ручной миграции недопустимо
	if err := sonic.Unmarshal(raw, opts); err != nil {
		return errors.Wrap(err, "decode options document")
	}

	settings.MigrateTemplates(opts)

	if n := opts.LegacyFallbacks(); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d unrecognized condition(s) degraded to default volume\n", n)
	}

	out, err := sonic.MarshalIndent(opts, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode options document")
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return errors.Wrap(err, "write target")
	}

	// опционально кладём результат сразу в файловый стор бота
	if chatID := viper.GetInt64("store_chat"); chatID != 0 {
		store := file.NewOptions(viper.GetString("store_dir"))
		if err := store.Save(context.Background(), chatID, out); err != nil {
			return errors.Wrap(err, "store migrated document")
		}
	}
	return nil
}

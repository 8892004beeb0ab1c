package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"salesbot/internal/config"
	"salesbot/internal/database"
	"salesbot/internal/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "configs/config.yaml"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "salesbot",
	Short:         "Telegram-бот для менеджеров по продажам",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBot(cmd.Context())
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Запустить бота, напоминания и HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBot(cmd.Context())
	},
}

var initDBCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Создать файл базы данных и таблицы",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withDatabase(func(_ *config.Config, db *database.DB, logger *zerolog.Logger) error {
			logger.Info().Str("path", db.Path()).Msg("Схема базы данных готова")
			return nil
		})
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Сделать одну резервную копию базы",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(func(cfg *config.Config, db *database.DB, logger *zerolog.Logger) error {
			path, err := database.NewBackupService(db, cfg.Backup, logger).PerformBackup(cmd.Context())
			if err != nil {
				return fmt.Errorf("backup: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		})
	},
}

func init() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = defaultConfigPath
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "path to config.yaml")
	rootCmd.AddCommand(runCmd, initDBCmd, backupCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

// loadConfigAndLogger закрывать closer обязан вызывающий
func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()
	return cfg, &logger, closer, nil
}

func withDatabase(fn func(cfg *config.Config, db *database.DB, logger *zerolog.Logger) error) error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return err
	}
	defer db.Close()

	return fn(cfg, db, logger)
}

package mealplan

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/app"
	"github.com/saadjs/mealplan-cli/internal/config"
	"github.com/saadjs/mealplan-cli/internal/db"
	"github.com/saadjs/mealplan-cli/internal/logger"
	"github.com/saadjs/mealplan-cli/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	if err := seedStoredConfig(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

// resolveDBPath prefers --db, then db_path from the config file/env, then the default location.
func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if appConfig.DBPath != "" {
		return appConfig.DBPath, nil
	}
	return app.DefaultDBPath()
}

// seedStoredConfig copies ingredients_file from the config file into the
// database the first time it is seen; values set with `config set` win.
func seedStoredConfig(sqldb *sql.DB) error {
	path := strings.TrimSpace(appConfig.IngredientsFile)
	if path == "" {
		return nil
	}
	_, ok, err := service.GetConfig(sqldb, service.ConfigIngredientsFile)
	if err != nil || ok {
		return err
	}
	logger.Debug("ingredients file taken from config", zap.String("path", path))
	return service.SetConfig(sqldb, service.ConfigIngredientsFile, path)
}

func parseDayArg(value string) (int, error) {
	day, err := config.ParseWeekday(value)
	if err != nil {
		return 0, err
	}
	return int(day), nil
}

func trackerOptions() service.TrackerOptions {
	return service.TrackerOptions{DefaultBottleMl: appConfig.BottleSizeMl}
}

// importProgress renders a progress bar on stderr for catalog imports.
func importProgress(cmd *cobra.Command, total int, description string) func(done, total int) {
	if total <= 0 {
		return nil
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return func(done, _ int) {
		_ = bar.Set(done)
		if done >= total {
			_ = bar.Finish()
		}
	}
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

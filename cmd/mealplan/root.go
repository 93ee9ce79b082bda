package mealplan

import (
	"fmt"
	"os"

	"github.com/saadjs/mealplan-cli/internal/config"
	"github.com/saadjs/mealplan-cli/internal/logger"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
	logLevel   string
)

// appConfig is replaced by the loaded file/env config before every command.
var appConfig = defaultConfig()

var rootCmd = &cobra.Command{
	Use:   "mealplan",
	Short: "mealplan plans a week of meals against your calorie and macro targets",
	Long:  "mealplan is a local-first meal planning CLI: ingredient and meal catalog, weekly schedule generation, shopping list and a daily supplement/water tracker.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func defaultConfig() *config.Config {
	cfg := config.Defaults()
	return &cfg
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

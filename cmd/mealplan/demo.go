package mealplan

import (
	"database/sql"
	"time"

	"github.com/saadjs/mealplan-cli/internal/factories"
	"github.com/saadjs/mealplan-cli/internal/service"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Demo data helpers",
}

var (
	demoMealsPerType int
	demoSeed         int64
	demoMode         string
)

var demoSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the catalog with generated ingredients and meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := service.ParseImportMode(demoMode)
		if err != nil {
			return err
		}
		seed := demoSeed
		if !cmd.Flags().Changed("seed") {
			seed = appConfig.Seed
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		data := factories.NewCatalogFactory(seed).CreateCatalog(demoMealsPerType)
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.ImportCatalog(sqldb, data, service.ImportOptions{
				Mode:     mode,
				Progress: importProgress(cmd, len(data.Ingredients)+len(data.Meals), "seeding"),
			})
			if err != nil {
				return err
			}
			printImportReport(cmd.OutOrStdout(), report, false)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.AddCommand(demoSeedCmd)
	demoSeedCmd.Flags().IntVar(&demoMealsPerType, "meals-per-type", 4, "Meals to generate for each meal type")
	demoSeedCmd.Flags().Int64Var(&demoSeed, "seed", 0, "Random seed (default from config, else time based)")
	demoSeedCmd.Flags().StringVar(&demoMode, "mode", string(service.ImportModeSkip), "Conflict mode: fail, skip, merge or replace")
}

package mealplan

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/mealplan-cli/internal/service"
	"github.com/spf13/cobra"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Schema version: %d\n", report.SchemaVersion)
			fmt.Fprintf(out, "Slots pointing at deleted meals: %d\n", len(report.DanglingSlots))
			for _, d := range report.DanglingSlots {
				fmt.Fprintf(out, "  day %d %s -> %s\n", d.Day, d.Slot, d.MealID)
			}
			fmt.Fprintf(out, "Meal ingredients missing from catalog: %d\n", len(report.DanglingIngredients))
			for _, d := range report.DanglingIngredients {
				fmt.Fprintf(out, "  %s: %s (%s)\n", d.MealName, d.Name, d.IngredientID)
			}
			fmt.Fprintf(out, "Invalid instruction rows: %d\n", report.InvalidInstructions)
			if doctorFix {
				fmt.Fprintf(out, "Fixed slots: %d\nFixed instruction rows: %d\n", report.FixedSlots, report.FixedInstructions)
				// Re-check after fixes so exit status reflects final state.
				report, err = service.RunDoctor(sqldb, false)
				if err != nil {
					return err
				}
			}
			// Missing ingredients are shown as placeholders and are not an error.
			if len(report.DanglingSlots) > 0 || report.InvalidInstructions > 0 {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Clear dangling slots and reset corrupt instruction rows")
}

package mealplan

import (
	"database/sql"
	"fmt"
	"io"
	"strconv"

	"github.com/saadjs/mealplan-cli/internal/service"
	"github.com/spf13/cobra"
)

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Daily supplement and water tracker",
}

var waterRemove bool

func printTracker(out io.Writer, v service.TrackerView) {
	fmt.Fprintf(out, "%s: %d%% done\n", v.State.Day, v.ProgressPct)
	for _, s := range v.Supplements {
		mark := " "
		if v.State.Completed[s.ID] {
			mark = "x"
		}
		fmt.Fprintf(out, "  [%s] %-10s\t%s\t%s\t%s\n", mark, s.ID, s.Name, s.Timing, s.Dosage)
	}
	fmt.Fprintf(out, "Water: %d / %d ml (bottle %d ml)\n", v.State.WaterMl, v.WaterGoalMl, v.State.BottleSizeMl)
}

var trackerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show today's checklist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			v, err := service.GetTracker(sqldb, trackerOptions())
			if err != nil {
				return err
			}
			printTracker(cmd.OutOrStdout(), v)
			return nil
		})
	},
}

var trackerToggleCmd = &cobra.Command{
	Use:   "toggle <supplement>",
	Short: "Check or uncheck a supplement for today",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			v, err := service.ToggleSupplement(sqldb, trackerOptions(), args[0])
			if err != nil {
				return err
			}
			printTracker(cmd.OutOrStdout(), v)
			return nil
		})
	},
}

var trackerWaterCmd = &cobra.Command{
	Use:   "water [bottles]",
	Short: "Log bottles of water (default 1; --remove to undo)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bottles := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("bottles must be a positive integer")
			}
			bottles = n
		}
		if waterRemove {
			bottles = -bottles
		}
		return withDB(func(sqldb *sql.DB) error {
			v, err := service.AdjustWater(sqldb, trackerOptions(), bottles)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Water: %d / %d ml\n", v.State.WaterMl, v.WaterGoalMl)
			return nil
		})
	},
}

var trackerBottleCmd = &cobra.Command{
	Use:   "bottle <ml>",
	Short: "Set the bottle size used by `tracker water`",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ml, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid bottle size %q", args[0])
		}
		return withDB(func(sqldb *sql.DB) error {
			v, err := service.SetBottleSize(sqldb, trackerOptions(), ml)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bottle size: %d ml\n", v.State.BottleSizeMl)
			return nil
		})
	},
}

var trackerResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset today's checklist, water and bottle size",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			v, err := service.ResetTracker(sqldb, trackerOptions())
			if err != nil {
				return err
			}
			printTracker(cmd.OutOrStdout(), v)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(trackerCmd)
	trackerCmd.AddCommand(trackerShowCmd, trackerToggleCmd, trackerWaterCmd, trackerBottleCmd, trackerResetCmd)
	trackerWaterCmd.Flags().BoolVar(&waterRemove, "remove", false, "Remove bottles instead of adding them")
}

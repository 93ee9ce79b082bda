package mealplan

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/planner"
	"github.com/saadjs/mealplan-cli/internal/service"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Plan the week",
}

var (
	slotTime     string
	generateSeed int64
)

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the weekly schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			summary, err := service.GetScheduleSummary(sqldb)
			if err != nil {
				return err
			}
			start, err := service.StartDay(sqldb, int(appConfig.StartDay))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(summary.Days) == 0 {
				fmt.Fprintln(out, "No meals scheduled. Use `mealplan schedule set` or `mealplan schedule generate`.")
				return nil
			}
			for pos := 0; pos < model.DaysPerWeek; pos++ {
				day := summary.Days[(start+pos)%model.DaysPerWeek]
				printScheduleDay(out, day, planner.DayName(start, pos), summary.Meals)
			}
			return nil
		})
	},
}

func printScheduleDay(out io.Writer, day model.ScheduleDay, name string, meals map[string]model.Meal) {
	if day.CheatDay {
		fmt.Fprintf(out, "%s (%d): cheat day\n", name, day.Day)
		return
	}
	fmt.Fprintf(out, "%s (%d): %.0f kcal\n", name, day.Day, planner.DayCalories(day, meals))
	for _, slot := range day.Slots {
		label := "-"
		if slot.MealID != "" {
			if m, ok := meals[slot.MealID]; ok {
				label = fmt.Sprintf("%s (%.0f kcal)", m.Name, m.Macros().Kcal)
			} else {
				label = fmt.Sprintf("missing meal %s", slot.MealID)
			}
		}
		fmt.Fprintf(out, "  %-9s\t%s\t%s\n", slot.Kind, slot.Time, label)
	}
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set <day> <slot> <meal|->",
	Short: "Assign a meal to a slot; '-' clears it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDayArg(args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetSlot(sqldb, service.SetSlotInput{Day: day, Slot: args[1], MealRef: args[2], Time: slotTime}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", model.DayNames[day], args[1])
			return nil
		})
	},
}

var scheduleCheatCmd = &cobra.Command{
	Use:   "cheat <day>",
	Short: "Toggle the cheat day (at most one per week)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDayArg(args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			set, err := service.ToggleCheatDay(sqldb, day)
			if err != nil {
				return err
			}
			if set {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now the cheat day\n", model.DayNames[day])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer the cheat day\n", model.DayNames[day])
			}
			return nil
		})
	},
}

var scheduleClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear every slot (the cheat day is kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.ClearSchedule(sqldb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared schedule")
			return nil
		})
	},
}

var scheduleGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fill the week with meals that fit your calorie budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := appConfig.Seed
		if cmd.Flags().Changed("seed") {
			seed = generateSeed
		}
		return withDB(func(sqldb *sql.DB) error {
			res, err := service.GenerateSchedule(sqldb, service.GenerateOptions{Seed: seed})
			if errors.Is(err, service.ErrNoMeals) {
				return fmt.Errorf("cannot generate a schedule: %w", err)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d day(s)\n", res.DaysScheduled)
			if res.WeeklyTarget > 0 {
				fmt.Fprintf(out, "Total: %.0f / %.0f kcal (daily budget %.0f)\n", res.TotalCalories, res.WeeklyTarget, res.DailyBudget)
				fmt.Fprintf(out, "Days under budget: %d/%d\n", res.UnderBudgetDays, res.DaysScheduled)
			} else {
				fmt.Fprintf(out, "Total: %.0f kcal (no weekly target; set a profile for a budget)\n", res.TotalCalories)
			}
			fmt.Fprintf(out, "Days meeting protein/fat minimums: %d/%d\n", res.MacroMinDays, res.DaysScheduled)
			if res.FallbackDays > 0 {
				fmt.Fprintf(out, "warning: %d day(s) could not fit the budget; lowest-calorie meals were used\n", res.FallbackDays)
			}
			return nil
		})
	},
}

var scheduleSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show weekly totals against your targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			summary, err := service.GetScheduleSummary(sqldb)
			if err != nil {
				return err
			}
			w := summary.Week
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scheduled calories: %.0f kcal over %d day(s)\n", w.TotalCalories, w.DayCount)
			fmt.Fprintf(out, "Daily average: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n", w.DailyAverage.Kcal, w.DailyAverage.Protein, w.DailyAverage.Carbs, w.DailyAverage.Lipids)
			if !w.HasTarget {
				fmt.Fprintln(out, "Weekly target: not set (run `mealplan profile set`)")
				return nil
			}
			fmt.Fprintf(out, "Weekly target: %.0f kcal\n", w.WeeklyTarget)
			if w.OverBudget {
				fmt.Fprintf(out, "Over budget by %.0f kcal\n", -w.Remaining)
			} else {
				fmt.Fprintf(out, "Remaining: %.0f kcal\n", w.Remaining)
			}
			if w.CheatDay >= 0 {
				fmt.Fprintf(out, "Cheat day budget (%s): %.0f kcal\n", model.DayNames[w.CheatDay], w.CheatDayBudget)
			}
			if w.DailyTargets != nil {
				fmt.Fprintf(out, "Targets: protein %.0fg/%.0fg, carbs %.0fg/%.0fg, fat %.0fg/%.0fg (scheduled/target)\n",
					w.Totals.Protein, w.TotalTargetProtG, w.Totals.Carbs, w.TotalTargetCarbsG, w.Totals.Lipids, w.TotalTargetFatsG)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleShowCmd, scheduleSetCmd, scheduleCheatCmd, scheduleClearCmd, scheduleGenerateCmd, scheduleSummaryCmd)

	scheduleSetCmd.Flags().StringVar(&slotTime, "time", "", "Time label for the slot (e.g. 7:30 AM)")
	scheduleGenerateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "Random seed (0 = time based; default from config)")
}

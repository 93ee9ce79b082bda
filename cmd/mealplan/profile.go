package mealplan

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/planner"
	"github.com/saadjs/mealplan-cli/internal/service"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Body profile used for calorie and macro targets",
}

var profileIn service.ProfileInput

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set your profile and compute recommended calories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.SetProfile(sqldb, profileIn)
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), p)
			return nil
		})
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.GetProfile(sqldb)
			if err != nil {
				return err
			}
			if p.WeightKg == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Profile not set. Run `mealplan profile set`.")
				return nil
			}
			printProfile(cmd.OutOrStdout(), p)
			return nil
		})
	},
}

func printProfile(out io.Writer, p model.Profile) {
	fmt.Fprintf(out, "Age: %d\nSex: %s\nWeight: %.1f kg\nHeight: %.0f cm\nActivity: %.3g (%s)\n",
		deref(p.Age), p.Sex, deref(p.WeightKg), deref(p.HeightCm), p.ActivityLevel, planner.ActivityLabel(p.ActivityLevel))
	if p.GoalWeightKg != nil && p.GoalMonths != nil {
		fmt.Fprintf(out, "Goal: %.1f kg in %d month(s)\n", *p.GoalWeightKg, *p.GoalMonths)
		if p.WeightKg != nil {
			g := planner.AssessGoal(*p.WeightKg, *p.GoalWeightKg, *p.GoalMonths)
			if !g.Realistic {
				fmt.Fprintf(out, "warning: %.2f kg/week is aggressive; consider %d month(s)\n", g.WeeklyChangeKg, g.RecommendedMonths)
			}
		}
	}
	if p.MaintenanceCalories != nil {
		fmt.Fprintf(out, "Maintenance: %.0f kcal/day\n", *p.MaintenanceCalories)
	}
	if p.RecommendedCalories != nil {
		fmt.Fprintf(out, "Recommended: %.0f kcal/day (%.0f kcal/week)\n", *p.RecommendedCalories, planner.WeeklyCalorieTarget(p))
	}
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

var profileTargetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Show daily macro targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.GetProfile(sqldb)
			if err != nil {
				return err
			}
			t, ok := service.ProfileTargets(p)
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintf(out, "No profile calories; using %.0f kcal defaults\n", t.Calories)
			}
			fmt.Fprintf(out, "Calories: %.0f kcal\n", t.Calories)
			fmt.Fprintf(out, "Protein: target %.0fg (min %.0fg)\n", t.ProteinTargetG, t.ProteinMinG)
			fmt.Fprintf(out, "Carbs: target %.0fg\n", t.CarbsTargetG)
			fmt.Fprintf(out, "Fat: target %.0fg (min %.0fg)\n", t.FatsTargetG, t.FatsMinG)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd, profileShowCmd, profileTargetsCmd)

	f := profileSetCmd.Flags()
	f.IntVar(&profileIn.Age, "age", 0, "Age in years")
	f.StringVar(&profileIn.Sex, "sex", "male", "male or female")
	f.Float64Var(&profileIn.WeightKg, "weight", 0, "Current weight in kg")
	f.Float64Var(&profileIn.HeightCm, "height", 0, "Height in cm")
	f.Float64Var(&profileIn.ActivityLevel, "activity", model.DefaultActivityLevel, "Activity multiplier (1.2-1.9)")
	f.Float64Var(&profileIn.GoalWeightKg, "goal-weight", 0, "Goal weight in kg")
	f.IntVar(&profileIn.GoalMonths, "goal-months", 0, "Months to reach the goal weight")
}

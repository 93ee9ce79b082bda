package mealplan

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/service"
	"github.com/spf13/cobra"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Manage meals",
}

var (
	mealName  string
	mealType  string
	mealQty   float64
	mealUnit  string
	mealBlock string
)

var mealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a meal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateMeal(sqldb, service.MealInput{Name: mealName, Type: mealType})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created meal %s\n", id)
			return nil
		})
	},
}

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meals with their totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			meals, err := service.ListMeals(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tTYPE\tKCAL\tP\tC\tF")
			for _, m := range meals {
				t := m.Macros()
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.0f\t%.1f\t%.1f\t%.1f\n", m.ID, m.Name, m.Type, t.Kcal, t.Protein, t.Carbs, t.Lipids)
			}
			return nil
		})
	},
}

var mealShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show meal ingredients and instructions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			m, err := service.ResolveMeal(sqldb, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			t := m.Macros()
			fmt.Fprintf(out, "ID: %s\nName: %s\nType: %s\nTotal: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n", m.ID, m.Name, m.Type, t.Kcal, t.Protein, t.Carbs, t.Lipids)
			fmt.Fprintln(out, "Ingredients:")
			for _, entry := range m.Ingredients {
				note := ""
				if entry.Missing {
					note = " (missing from catalog)"
				}
				fmt.Fprintf(out, "  %s %s %s\t%.0f kcal%s\n", formatQuantity(entry.Quantity), entry.Ingredient.Unit, entry.Ingredient.Name, entry.Macros().Kcal, note)
			}
			for _, block := range m.Instructions {
				fmt.Fprintf(out, "%s:\n", block.Name)
				for i, step := range block.Steps {
					fmt.Fprintf(out, "  %d. %s\n", i+1, step)
				}
			}
			return nil
		})
	},
}

var mealUpdateCmd = &cobra.Command{
	Use:   "update <id|name>",
	Short: "Rename a meal or change its type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			current, err := service.ResolveMeal(sqldb, args[0])
			if err != nil {
				return err
			}
			in := service.MealInput{Name: current.Name, Type: string(current.Type)}
			if cmd.Flags().Changed("name") {
				in.Name = mealName
			}
			if cmd.Flags().Changed("type") {
				in.Type = mealType
			}
			if err := service.UpdateMeal(sqldb, current.ID, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated meal %q\n", args[0])
			return nil
		})
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a meal (schedule slots that use it are skipped)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteMeal(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal %q\n", args[0])
			return nil
		})
	},
}

var mealIngredientCmd = &cobra.Command{
	Use:   "ingredient",
	Short: "Edit the ingredients of a meal",
}

var mealIngredientAddCmd = &cobra.Command{
	Use:   "add <meal> <ingredient>",
	Short: "Add an ingredient to a meal or change its quantity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			ing, err := service.ResolveIngredient(sqldb, args[1])
			if err != nil {
				return err
			}
			qty, err := service.QuantityInIngredientUnit(*ing, mealQty, mealUnit)
			if err != nil {
				return err
			}
			if err := service.SetMealIngredient(sqldb, args[0], ing.ID, qty); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s %s %s in %q\n", formatQuantity(qty), ing.Unit, ing.Name, args[0])
			return nil
		})
	},
}

var mealIngredientRemoveCmd = &cobra.Command{
	Use:   "remove <meal> <ingredient>",
	Short: "Remove an ingredient from a meal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.RemoveMealIngredient(sqldb, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %q\n", args[1], args[0])
			return nil
		})
	},
}

var mealStepCmd = &cobra.Command{
	Use:   "step",
	Short: "Edit meal instructions",
}

var mealStepAddCmd = &cobra.Command{
	Use:   "add <meal> <step...>",
	Short: "Append an instruction step",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.AddInstructionStep(sqldb, args[0], mealBlock, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added step to %q\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mealCmd)
	mealCmd.AddCommand(mealAddCmd, mealListCmd, mealShowCmd, mealUpdateCmd, mealDeleteCmd, mealIngredientCmd, mealStepCmd)
	mealIngredientCmd.AddCommand(mealIngredientAddCmd, mealIngredientRemoveCmd)
	mealStepCmd.AddCommand(mealStepAddCmd)

	for _, c := range []*cobra.Command{mealAddCmd, mealUpdateCmd} {
		c.Flags().StringVar(&mealName, "name", "", "Meal name")
		c.Flags().StringVar(&mealType, "type", "", "Meal type: breakfast, lunch, snack or dinner")
	}
	mealIngredientAddCmd.Flags().Float64Var(&mealQty, "qty", 1, "Quantity")
	mealIngredientAddCmd.Flags().StringVar(&mealUnit, "unit", "", "Unit of --qty, converted to the ingredient's unit (default: the ingredient's unit)")
	mealStepAddCmd.Flags().StringVar(&mealBlock, "block", "Preparation", "Instruction block name")
}

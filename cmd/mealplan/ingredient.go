package mealplan

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/mealplan-cli/internal/service"
	"github.com/spf13/cobra"
)

var ingredientCmd = &cobra.Command{
	Use:     "ingredient",
	Aliases: []string{"ing"},
	Short:   "Manage the ingredient catalog",
}

var (
	ingName     string
	ingCategory string
	ingUnit     string
	ingKcal     float64
	ingProtein  float64
	ingCarbs    float64
	ingLipids   float64
)

func ingredientInput() service.IngredientInput {
	return service.IngredientInput{
		Name:     ingName,
		Category: ingCategory,
		Unit:     ingUnit,
		Kcal:     ingKcal,
		Protein:  ingProtein,
		Carbs:    ingCarbs,
		Lipids:   ingLipids,
	}
}

var ingredientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an ingredient (macros are per unit)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateIngredient(sqldb, ingredientInput())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created ingredient %s\n", id)
			return nil
		})
	},
}

var ingredientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingredients",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListIngredients(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tCATEGORY\tUNIT\tKCAL\tP\tC\tF")
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%g\t%g\t%g\t%g\n", it.ID, it.Name, it.Category, it.Unit, it.Kcal, it.ProteinPerUnit, it.CarbsPerUnit, it.LipidsPerUnit)
			}
			return nil
		})
	},
}

var ingredientShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show ingredient details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			it, err := service.ResolveIngredient(sqldb, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\nName: %s\nCategory: %s\nUnit: %s\nPer unit: %g kcal, %gg protein, %gg carbs, %gg fat\n",
				it.ID, it.Name, it.Category, it.Unit, it.Kcal, it.ProteinPerUnit, it.CarbsPerUnit, it.LipidsPerUnit)
			return nil
		})
	},
}

var ingredientUpdateCmd = &cobra.Command{
	Use:   "update <id|name>",
	Short: "Update an ingredient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			current, err := service.ResolveIngredient(sqldb, args[0])
			if err != nil {
				return err
			}
			in := ingredientInput()
			flags := cmd.Flags()
			if !flags.Changed("name") {
				in.Name = current.Name
			}
			if !flags.Changed("category") {
				in.Category = current.Category
			}
			if !flags.Changed("unit") {
				in.Unit = current.Unit
			}
			if !flags.Changed("kcal") {
				in.Kcal = current.Kcal
			}
			if !flags.Changed("protein") {
				in.Protein = current.ProteinPerUnit
			}
			if !flags.Changed("carbs") {
				in.Carbs = current.CarbsPerUnit
			}
			if !flags.Changed("fat") {
				in.Lipids = current.LipidsPerUnit
			}
			if err := service.UpdateIngredient(sqldb, current.ID, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated ingredient %q\n", args[0])
			return nil
		})
	},
}

var ingredientDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete an ingredient (meals keep a zero-macro placeholder)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteIngredient(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted ingredient %q\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(ingredientCmd)
	ingredientCmd.AddCommand(ingredientAddCmd, ingredientListCmd, ingredientShowCmd, ingredientUpdateCmd, ingredientDeleteCmd)

	for _, c := range []*cobra.Command{ingredientAddCmd, ingredientUpdateCmd} {
		c.Flags().StringVar(&ingName, "name", "", "Ingredient name")
		c.Flags().StringVar(&ingCategory, "category", "", "Shopping category (default Uncategorized)")
		c.Flags().StringVar(&ingUnit, "unit", "", "Unit the macros refer to (g, ml, piece, ...)")
		c.Flags().Float64Var(&ingKcal, "kcal", 0, "Calories per unit")
		c.Flags().Float64Var(&ingProtein, "protein", 0, "Protein grams per unit")
		c.Flags().Float64Var(&ingCarbs, "carbs", 0, "Carb grams per unit")
		c.Flags().Float64Var(&ingLipids, "fat", 0, "Fat grams per unit")
	}
}

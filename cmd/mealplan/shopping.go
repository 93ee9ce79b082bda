package mealplan

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/mealplan-cli/internal/service"
	"github.com/spf13/cobra"
)

var shoppingCmd = &cobra.Command{
	Use:   "shopping",
	Short: "Shopping list for the scheduled week",
}

var shoppingUncheck bool

var shoppingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingredients needed for the week, grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			groups, err := service.ShoppingList(sqldb)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(out, "Shopping list is empty; schedule some meals first.")
				return nil
			}
			for _, g := range groups {
				fmt.Fprintf(out, "%s\n", g.Category)
				for _, line := range g.Lines {
					mark := " "
					if line.Checked {
						mark = "x"
					}
					qty, unit := service.DisplayQuantity(line.Item.Quantity, line.Item.Unit)
					fmt.Fprintf(out, "  [%s] %s\t%s %s\t%s\n", mark, line.Item.Name, formatQuantity(qty), unit, line.Key)
				}
			}
			return nil
		})
	},
}

var shoppingCheckCmd = &cobra.Command{
	Use:   "check <key|id|name>",
	Short: "Mark a shopping item as bought (--undo to unmark)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			line, err := service.SetShoppingChecked(sqldb, args[0], !shoppingUncheck)
			if err != nil {
				return err
			}
			state := "checked"
			if !line.Checked {
				state = "unchecked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, line.Item.Name)
			return nil
		})
	},
}

var shoppingResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Uncheck every shopping item",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.ResetShoppingChecks(sqldb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reset shopping list")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(shoppingCmd)
	shoppingCmd.AddCommand(shoppingListCmd, shoppingCheckCmd, shoppingResetCmd)
	shoppingCheckCmd.Flags().BoolVar(&shoppingUncheck, "undo", false, "Unmark the item instead")
}

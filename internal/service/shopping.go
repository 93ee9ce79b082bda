package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/planner"
)

type ShoppingLine struct {
	Key     string
	Item    model.ShoppingItem
	Checked bool
}

type ShoppingGroup struct {
	Category string
	Lines    []ShoppingLine
}

// ShoppingItemKey identifies a line of the list across regenerations.
func ShoppingItemKey(category, itemID string) string {
	return category + "-" + itemID
}

// ShoppingList aggregates the stored schedule and overlays the checked state.
func ShoppingList(db sqlExecutor) ([]ShoppingGroup, error) {
	days, err := LoadSchedule(db)
	if err != nil {
		return nil, err
	}
	meals, err := ListMeals(db)
	if err != nil {
		return nil, err
	}
	checked, err := checkedShoppingKeys(db)
	if err != nil {
		return nil, err
	}

	categories := planner.AggregateShopping(days, meals)
	out := make([]ShoppingGroup, 0, len(categories))
	for _, c := range categories {
		g := ShoppingGroup{Category: c.Category, Lines: make([]ShoppingLine, 0, len(c.Items))}
		for _, item := range c.Items {
			key := ShoppingItemKey(c.Category, item.ID)
			g.Lines = append(g.Lines, ShoppingLine{Key: key, Item: item, Checked: checked[key]})
		}
		out = append(out, g)
	}
	return out, nil
}

func checkedShoppingKeys(db sqlExecutor) (map[string]bool, error) {
	rows, err := db.Query(`SELECT item_key FROM shopping_checks`)
	if err != nil {
		return nil, fmt.Errorf("list shopping checks: %w", err)
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan shopping check: %w", err)
		}
		out[key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shopping checks: %w", err)
	}
	return out, nil
}

// SetShoppingChecked marks a line by key, item id or item name.
func SetShoppingChecked(db *sql.DB, ref string, checked bool) (ShoppingLine, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ShoppingLine{}, fmt.Errorf("shopping item is required")
	}
	groups, err := ShoppingList(db)
	if err != nil {
		return ShoppingLine{}, err
	}
	var match *ShoppingLine
	for gi := range groups {
		for li := range groups[gi].Lines {
			line := &groups[gi].Lines[li]
			if line.Key == ref || line.Item.ID == ref || strings.EqualFold(line.Item.Name, ref) {
				if match != nil {
					return ShoppingLine{}, fmt.Errorf("shopping item %q is ambiguous; use the key", ref)
				}
				match = line
			}
		}
	}
	if match == nil {
		return ShoppingLine{}, fmt.Errorf("shopping item %q not found", ref)
	}
	if checked {
		_, err = db.Exec(`INSERT OR IGNORE INTO shopping_checks(item_key) VALUES(?)`, match.Key)
	} else {
		_, err = db.Exec(`DELETE FROM shopping_checks WHERE item_key = ?`, match.Key)
	}
	if err != nil {
		return ShoppingLine{}, fmt.Errorf("update shopping check %q: %w", match.Key, err)
	}
	match.Checked = checked
	return *match, nil
}

func ResetShoppingChecks(db *sql.DB) error {
	if _, err := db.Exec(`DELETE FROM shopping_checks`); err != nil {
		return fmt.Errorf("reset shopping checks: %w", err)
	}
	return nil
}

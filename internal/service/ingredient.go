package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/model"
)

const DefaultIngredientCategory = "Uncategorized"

type IngredientInput struct {
	Name     string
	Category string
	Unit     string
	Kcal     float64
	Protein  float64
	Carbs    float64
	Lipids   float64
}

func validateIngredientInput(in IngredientInput) (IngredientInput, error) {
	var err error
	if in.Name, err = requireText("ingredient name", in.Name); err != nil {
		return in, err
	}
	if in.Unit, err = requireText("ingredient unit", in.Unit); err != nil {
		return in, err
	}
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = DefaultIngredientCategory
	}
	for name, v := range map[string]float64{"kcal": in.Kcal, "protein": in.Protein, "carbs": in.Carbs, "lipids": in.Lipids} {
		if err := validateNonNegativeFloat(name, v); err != nil {
			return in, err
		}
	}
	return in, nil
}

func CreateIngredient(db *sql.DB, in IngredientInput) (string, error) {
	in, err := validateIngredientInput(in)
	if err != nil {
		return "", err
	}
	id := newID()
	if err := insertIngredient(db, model.Ingredient{
		ID:             id,
		Name:           in.Name,
		Category:       in.Category,
		Unit:           in.Unit,
		Kcal:           in.Kcal,
		ProteinPerUnit: in.Protein,
		CarbsPerUnit:   in.Carbs,
		LipidsPerUnit:  in.Lipids,
	}); err != nil {
		return "", err
	}
	syncIngredientsFile(db)
	return id, nil
}

func insertIngredient(db sqlExecutor, ing model.Ingredient) error {
	_, err := db.Exec(`
INSERT INTO ingredients(id, name, category, unit, kcal, protein_per_unit, carbs_per_unit, lipids_per_unit)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, ing.ID, ing.Name, ing.Category, ing.Unit, ing.Kcal, ing.ProteinPerUnit, ing.CarbsPerUnit, ing.LipidsPerUnit)
	if err != nil {
		return fmt.Errorf("create ingredient %q: %w", ing.Name, err)
	}
	return nil
}

const ingredientColumns = `id, name, category, unit, kcal, protein_per_unit, carbs_per_unit, lipids_per_unit, created_at, updated_at`

func scanIngredient(scan func(dest ...any) error) (model.Ingredient, error) {
	var ing model.Ingredient
	err := scan(&ing.ID, &ing.Name, &ing.Category, &ing.Unit, &ing.Kcal, &ing.ProteinPerUnit, &ing.CarbsPerUnit, &ing.LipidsPerUnit, &ing.CreatedAt, &ing.UpdatedAt)
	return ing, err
}

func ListIngredients(db sqlExecutor) ([]model.Ingredient, error) {
	rows, err := db.Query(`SELECT ` + ingredientColumns + ` FROM ingredients ORDER BY category COLLATE NOCASE, name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	items := make([]model.Ingredient, 0)
	for rows.Next() {
		ing, err := scanIngredient(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		items = append(items, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}
	return items, nil
}

func ResolveIngredient(db sqlExecutor, idOrName string) (*model.Ingredient, error) {
	id, err := resolveID(db, "ingredients", "ingredient", idOrName)
	if err != nil {
		return nil, err
	}
	ing, err := scanIngredient(db.QueryRow(`SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id).Scan)
	if err != nil {
		return nil, fmt.Errorf("load ingredient %q: %w", id, err)
	}
	return &ing, nil
}

func UpdateIngredient(db *sql.DB, idOrName string, in IngredientInput) error {
	in, err := validateIngredientInput(in)
	if err != nil {
		return err
	}
	ing, err := ResolveIngredient(db, idOrName)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
UPDATE ingredients SET
  name = ?, category = ?, unit = ?, kcal = ?, protein_per_unit = ?, carbs_per_unit = ?, lipids_per_unit = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, in.Name, in.Category, in.Unit, in.Kcal, in.Protein, in.Carbs, in.Lipids, ing.ID)
	if err != nil {
		return fmt.Errorf("update ingredient %q: %w", idOrName, err)
	}
	syncIngredientsFile(db)
	return nil
}

// DeleteIngredient removes the catalog row only; meals that reference it keep
// their rows and hydrate a zero-macro placeholder from the stored name and unit.
func DeleteIngredient(db *sql.DB, idOrName string) error {
	ing, err := ResolveIngredient(db, idOrName)
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM ingredients WHERE id = ?`, ing.ID); err != nil {
		return fmt.Errorf("delete ingredient %q: %w", idOrName, err)
	}
	syncIngredientsFile(db)
	return nil
}

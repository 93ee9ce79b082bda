package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/logger"
	"github.com/saadjs/mealplan-cli/internal/model"
	"go.uber.org/zap"
)

type MealInput struct {
	Name string
	Type string
}

func validateMealInput(in MealInput) (string, model.MealType, error) {
	name, err := requireText("meal name", in.Name)
	if err != nil {
		return "", "", err
	}
	mealType, ok := model.ParseMealType(in.Type)
	if !ok {
		return "", "", fmt.Errorf("invalid meal type %q (expected breakfast, lunch, snack or dinner)", in.Type)
	}
	return name, mealType, nil
}

func CreateMeal(db *sql.DB, in MealInput) (string, error) {
	name, mealType, err := validateMealInput(in)
	if err != nil {
		return "", err
	}
	id := newID()
	if _, err := db.Exec(`INSERT INTO meals(id, name, meal_type) VALUES(?, ?, ?)`, id, name, string(mealType)); err != nil {
		return "", fmt.Errorf("create meal: %w", err)
	}
	return id, nil
}

func UpdateMeal(db *sql.DB, idOrName string, in MealInput) error {
	name, mealType, err := validateMealInput(in)
	if err != nil {
		return err
	}
	id, err := resolveID(db, "meals", "meal", idOrName)
	if err != nil {
		return err
	}
	_, err = db.Exec(`UPDATE meals SET name = ?, meal_type = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, string(mealType), id)
	if err != nil {
		return fmt.Errorf("update meal %q: %w", idOrName, err)
	}
	return nil
}

// DeleteMeal removes the meal; schedule slots that referenced it become dangling
// and are skipped by calculations.
func DeleteMeal(db *sql.DB, idOrName string) error {
	id, err := resolveID(db, "meals", "meal", idOrName)
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM meals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete meal %q: %w", idOrName, err)
	}
	return nil
}

// ListMeals loads every meal with hydrated ingredients and instructions.
func ListMeals(db sqlExecutor) ([]model.Meal, error) {
	return loadMeals(db, "")
}

func ResolveMeal(db sqlExecutor, idOrName string) (*model.Meal, error) {
	id, err := resolveID(db, "meals", "meal", idOrName)
	if err != nil {
		return nil, err
	}
	meals, err := loadMeals(db, id)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, fmt.Errorf("meal %q not found", idOrName)
	}
	return &meals[0], nil
}

func loadMeals(db sqlExecutor, onlyID string) ([]model.Meal, error) {
	catalog, err := ListIngredients(db)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Ingredient, len(catalog))
	for _, ing := range catalog {
		byID[ing.ID] = ing
	}

	where, args := "", []any{}
	if onlyID != "" {
		where, args = " WHERE id = ?", []any{onlyID}
	}
	rows, err := db.Query(`SELECT id, name, meal_type, created_at, updated_at FROM meals`+where+` ORDER BY name COLLATE NOCASE, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	meals := make([]model.Meal, 0)
	index := map[string]int{}
	for rows.Next() {
		var m model.Meal
		var mealType string
		if err := rows.Scan(&m.ID, &m.Name, &mealType, &m.CreatedAt, &m.UpdatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		m.Type = model.MealType(mealType)
		m.Ingredients = []model.QuantifiedIngredient{}
		m.Instructions = []model.InstructionBlock{}
		index[m.ID] = len(meals)
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	_ = rows.Close()

	ingRows, err := db.Query(`SELECT meal_id, ingredient_id, name, unit, quantity FROM meal_ingredients ORDER BY meal_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list meal ingredients: %w", err)
	}
	for ingRows.Next() {
		var mealID, ingredientID, name, unit string
		var qty float64
		if err := ingRows.Scan(&mealID, &ingredientID, &name, &unit, &qty); err != nil {
			_ = ingRows.Close()
			return nil, fmt.Errorf("scan meal ingredient: %w", err)
		}
		i, ok := index[mealID]
		if !ok {
			continue
		}
		meals[i].Ingredients = append(meals[i].Ingredients, hydrateEntry(byID, ingredientID, name, unit, qty))
	}
	if err := ingRows.Err(); err != nil {
		_ = ingRows.Close()
		return nil, fmt.Errorf("iterate meal ingredients: %w", err)
	}
	_ = ingRows.Close()

	stepRows, err := db.Query(`SELECT meal_id, name, steps_json FROM meal_instructions ORDER BY meal_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list meal instructions: %w", err)
	}
	defer stepRows.Close()
	for stepRows.Next() {
		var mealID, name, stepsRaw string
		if err := stepRows.Scan(&mealID, &name, &stepsRaw); err != nil {
			return nil, fmt.Errorf("scan meal instruction: %w", err)
		}
		i, ok := index[mealID]
		if !ok {
			continue
		}
		// doctor reports unreadable blocks; readers see them as empty
		steps := []string{}
		if err := json.Unmarshal([]byte(stepsRaw), &steps); err != nil {
			logger.Warn("unreadable instruction steps", zap.String("meal_id", mealID), zap.String("block", name), zap.Error(err))
			steps = []string{}
		}
		meals[i].Instructions = append(meals[i].Instructions, model.InstructionBlock{Name: name, Steps: steps})
	}
	if err := stepRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal instructions: %w", err)
	}
	return meals, nil
}

// hydrateEntry resolves an ingredient reference, substituting a zero-macro
// placeholder built from the stored snapshot when the id is unknown.
func hydrateEntry(byID map[string]model.Ingredient, ingredientID, name, unit string, qty float64) model.QuantifiedIngredient {
	if ing, ok := byID[ingredientID]; ok {
		return model.QuantifiedIngredient{Ingredient: ing, Quantity: model.SafeQuantity(qty)}
	}
	if strings.TrimSpace(name) == "" {
		name = "Unknown"
	}
	return model.QuantifiedIngredient{
		Ingredient: model.Ingredient{ID: ingredientID, Name: name, Unit: unit},
		Quantity:   model.SafeQuantity(qty),
		Missing:    true,
	}
}

// SetMealIngredient adds an ingredient to a meal, or replaces its quantity when
// the meal already uses it.
func SetMealIngredient(db *sql.DB, mealRef, ingredientRef string, quantity float64) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be > 0")
	}
	meal, err := ResolveMeal(db, mealRef)
	if err != nil {
		return err
	}
	ing, err := ResolveIngredient(db, ingredientRef)
	if err != nil {
		return err
	}

	entries := meal.Ingredients
	replaced := false
	for i := range entries {
		if entries[i].Ingredient.ID == ing.ID {
			entries[i] = model.QuantifiedIngredient{Ingredient: *ing, Quantity: quantity}
			replaced = true
		}
	}
	if !replaced {
		entries = append(entries, model.QuantifiedIngredient{Ingredient: *ing, Quantity: quantity})
	}
	return withTx(db, "set meal ingredient", func(tx *sql.Tx) error {
		return writeMealIngredients(tx, meal.ID, entries)
	})
}

// RemoveMealIngredient accepts a catalog reference or the raw id of a dangling entry.
func RemoveMealIngredient(db *sql.DB, mealRef, ingredientRef string) error {
	meal, err := ResolveMeal(db, mealRef)
	if err != nil {
		return err
	}
	target := strings.TrimSpace(ingredientRef)
	if ing, err := ResolveIngredient(db, ingredientRef); err == nil {
		target = ing.ID
	}

	kept := make([]model.QuantifiedIngredient, 0, len(meal.Ingredients))
	for _, entry := range meal.Ingredients {
		if entry.Ingredient.ID == target || (entry.Missing && strings.EqualFold(entry.Ingredient.Name, target)) {
			continue
		}
		kept = append(kept, entry)
	}
	if len(kept) == len(meal.Ingredients) {
		return fmt.Errorf("meal %q does not use ingredient %q", meal.Name, ingredientRef)
	}
	return withTx(db, "remove meal ingredient", func(tx *sql.Tx) error {
		return writeMealIngredients(tx, meal.ID, kept)
	})
}

// AddInstructionStep appends a step to the named block, creating the block if needed.
func AddInstructionStep(db *sql.DB, mealRef, block, step string) error {
	step, err := requireText("step", step)
	if err != nil {
		return err
	}
	block = strings.TrimSpace(block)
	if block == "" {
		block = "Preparation"
	}
	meal, err := ResolveMeal(db, mealRef)
	if err != nil {
		return err
	}
	blocks := meal.Instructions
	found := false
	for i := range blocks {
		if strings.EqualFold(blocks[i].Name, block) {
			blocks[i].Steps = append(blocks[i].Steps, step)
			found = true
			break
		}
	}
	if !found {
		blocks = append(blocks, model.InstructionBlock{Name: block, Steps: []string{step}})
	}
	return withTx(db, "add instruction step", func(tx *sql.Tx) error {
		return writeMealInstructions(tx, meal.ID, blocks)
	})
}

func writeMealIngredients(db sqlExecutor, mealID string, entries []model.QuantifiedIngredient) error {
	if _, err := db.Exec(`DELETE FROM meal_ingredients WHERE meal_id = ?`, mealID); err != nil {
		return fmt.Errorf("clear meal ingredients: %w", err)
	}
	for i, entry := range entries {
		if _, err := db.Exec(`
INSERT INTO meal_ingredients(meal_id, position, ingredient_id, name, unit, quantity)
VALUES(?, ?, ?, ?, ?, ?)
`, mealID, i, entry.Ingredient.ID, entry.Ingredient.Name, entry.Ingredient.Unit, model.SafeQuantity(entry.Quantity)); err != nil {
			return fmt.Errorf("insert meal ingredient %q: %w", entry.Ingredient.ID, err)
		}
	}
	if _, err := db.Exec(`UPDATE meals SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, mealID); err != nil {
		return fmt.Errorf("touch meal: %w", err)
	}
	return nil
}

func writeMealInstructions(db sqlExecutor, mealID string, blocks []model.InstructionBlock) error {
	if _, err := db.Exec(`DELETE FROM meal_instructions WHERE meal_id = ?`, mealID); err != nil {
		return fmt.Errorf("clear meal instructions: %w", err)
	}
	for i, block := range blocks {
		steps := block.Steps
		if steps == nil {
			steps = []string{}
		}
		raw, err := json.Marshal(steps)
		if err != nil {
			return fmt.Errorf("encode steps: %w", err)
		}
		if _, err := db.Exec(`INSERT INTO meal_instructions(meal_id, position, name, steps_json) VALUES(?, ?, ?, ?)`, mealID, i, block.Name, string(raw)); err != nil {
			return fmt.Errorf("insert meal instruction: %w", err)
		}
	}
	return nil
}

func withTx(db *sql.DB, action string, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%s begin tx: %w", action, err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s commit: %w", action, err)
	}
	return nil
}

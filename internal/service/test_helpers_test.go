package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/saadjs/mealplan-cli/internal/db"
	"github.com/saadjs/mealplan-cli/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mealplan.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func mustIngredient(t *testing.T, sqldb *sql.DB, in service.IngredientInput) string {
	t.Helper()
	id, err := service.CreateIngredient(sqldb, in)
	if err != nil {
		t.Fatalf("create ingredient %q: %v", in.Name, err)
	}
	return id
}

// mustMeal creates a meal with one unit of a single ingredient carrying the given macros.
func mustMeal(t *testing.T, sqldb *sql.DB, name, mealType string, kcal, protein, carbs, fat float64) string {
	t.Helper()
	ingID := mustIngredient(t, sqldb, service.IngredientInput{Name: name + " base", Category: "Test", Unit: "portion", Kcal: kcal, Protein: protein, Carbs: carbs, Lipids: fat})
	id, err := service.CreateMeal(sqldb, service.MealInput{Name: name, Type: mealType})
	if err != nil {
		t.Fatalf("create meal %q: %v", name, err)
	}
	if err := service.SetMealIngredient(sqldb, id, ingID, 1); err != nil {
		t.Fatalf("add ingredient to %q: %v", name, err)
	}
	return id
}

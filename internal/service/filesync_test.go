package service_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/saadjs/mealplan-cli/internal/service"
)

func TestIngredientsFileMirrorsCatalog(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	path := filepath.Join(t.TempDir(), "data", "ingredients.json")
	if err := service.SetConfig(sqldb, service.ConfigIngredientsFile, path); err != nil {
		t.Fatalf("set ingredients_file: %v", err)
	}

	id := mustIngredient(t, sqldb, service.IngredientInput{Name: "Rice", Category: "Grains", Unit: "g", Kcal: 1.3, Carbs: 0.28})
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ingredients file was not written: %v", err)
	}
	if !strings.Contains(string(raw), `"carb_per_unit": 0.28`) {
		t.Fatalf("unexpected file contents:\n%s", raw)
	}

	var records []service.IngredientRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("decode file: %v", err)
	}
	records[0].Name = "Edited elsewhere"
	records = append(records, service.IngredientRecord{ID: "lentils", Name: "Lentils", Category: "Legumes", Unit: "g", Kcal: 1.16})
	edited, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("encode records: %v", err)
	}
	if err := os.WriteFile(path, edited, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	report, err := service.PullIngredientsFile(sqldb)
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if report.Inserted != 1 || report.Skipped != 1 {
		t.Fatalf("pull must only add new ids, got %+v", report)
	}
	ing, err := service.ResolveIngredient(sqldb, id)
	if err != nil || ing.Name != "Rice" {
		t.Fatalf("existing ingredient must be kept, got %+v %v", ing, err)
	}
	if _, err := service.ResolveIngredient(sqldb, "lentils"); err != nil {
		t.Fatalf("pulled ingredient missing: %v", err)
	}

	if err := service.DeleteIngredient(sqldb, "lentils"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	raw, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file after delete: %v", err)
	}
	if strings.Contains(string(raw), "Lentils") {
		t.Fatalf("deleted ingredient still in file")
	}
}

func TestPullIngredientsFileRequiresConfig(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	if _, err := service.PullIngredientsFile(sqldb); err == nil {
		t.Fatalf("expected error without ingredients_file")
	}
}

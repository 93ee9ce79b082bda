package service_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/service"
)

func TestCatalogExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	for _, format := range []service.Format{service.FormatJSON, service.FormatYAML} {
		format := format
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()
			src := newTestDB(t)
			mealID := mustMeal(t, src, "Curry", "dinner", 600, 35, 70, 20)
			if err := service.AddInstructionStep(src, mealID, "Cook", "Simmer for 20 minutes."); err != nil {
				t.Fatalf("add step: %v", err)
			}
			if err := service.SetSlot(src, service.SetSlotInput{Day: 2, Slot: "dinner", MealRef: mealID}); err != nil {
				t.Fatalf("set slot: %v", err)
			}

			exported, err := service.ExportCatalog(src, true)
			if err != nil {
				t.Fatalf("export: %v", err)
			}
			var buf bytes.Buffer
			if err := service.EncodeCatalog(&buf, exported, format); err != nil {
				t.Fatalf("encode: %v", err)
			}
			decoded, err := service.DecodeCatalog(&buf, format)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}

			dst := newTestDB(t)
			var calls int
			report, err := service.ImportCatalog(dst, decoded, service.ImportOptions{Progress: func(done, total int) {
				calls++
				if total != 2 {
					t.Fatalf("progress total = %d, want 2", total)
				}
			}})
			if err != nil {
				t.Fatalf("import: %v", err)
			}
			if report.Inserted != 2 || len(report.Warnings) != 0 || calls != 2 {
				t.Fatalf("unexpected report %+v (progress calls %d)", report, calls)
			}

			meal, err := service.ResolveMeal(dst, mealID)
			if err != nil {
				t.Fatalf("resolve imported meal: %v", err)
			}
			if meal.Macros().Kcal != 600 || len(meal.Instructions) != 1 || meal.Instructions[0].Steps[0] != "Simmer for 20 minutes." {
				t.Fatalf("unexpected imported meal %+v", meal)
			}
			days, err := service.LoadSchedule(dst)
			if err != nil {
				t.Fatalf("load schedule: %v", err)
			}
			if len(days) != model.DaysPerWeek || days[2].Slots[3].MealID != mealID {
				t.Fatalf("schedule was not imported: %+v", days)
			}
		})
	}
}

func TestImportPlaceholderForUnknownIngredient(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	report, err := service.ImportCatalog(sqldb, &service.Catalog{
		Version: 1,
		Meals: []service.MealRecord{{
			ID:   "m1",
			Name: "Paella",
			Type: "Dinner",
			Ingredients: []service.MealIngredientRecord{
				{ItemID: "ghost", ItemName: "Saffron", ItemUnit: "pinch", Quantity: 1},
			},
		}},
	}, service.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "ghost") {
		t.Fatalf("expected placeholder warning, got %v", report.Warnings)
	}
	meal, err := service.ResolveMeal(sqldb, "paella")
	if err != nil {
		t.Fatalf("resolve meal: %v", err)
	}
	entry := meal.Ingredients[0]
	if !entry.Missing || entry.Ingredient.Name != "Saffron" || entry.Macros().Kcal != 0 {
		t.Fatalf("unexpected placeholder %+v", entry)
	}
}

func TestImportModes(t *testing.T) {
	t.Parallel()
	original := &service.Catalog{Version: 1, Ingredients: []service.IngredientRecord{{ID: "oats", Name: "Oats", Category: "Grains", Unit: "g", Kcal: 3.9}}}
	renamed := &service.Catalog{Version: 1, Ingredients: []service.IngredientRecord{
		{ID: "oats", Name: "Rolled oats", Category: "Grains", Unit: "g", Kcal: 3.8},
		{ID: "rice", Name: "Rice", Category: "Grains", Unit: "g", Kcal: 1.3},
	}}

	t.Run("skip", func(t *testing.T) {
		t.Parallel()
		sqldb := newTestDB(t)
		if _, err := service.ImportCatalog(sqldb, original, service.ImportOptions{}); err != nil {
			t.Fatalf("import catalog: %v", err)
		}
		report, err := service.ImportCatalog(sqldb, renamed, service.ImportOptions{Mode: service.ImportModeSkip})
		if err != nil || report.Skipped != 1 || report.Inserted != 1 {
			t.Fatalf("skip: %+v %v", report, err)
		}
		ing, err := service.ResolveIngredient(sqldb, "oats")
		if err != nil {
			t.Fatalf("resolve ingredient: %v", err)
		}
		if ing.Name != "Oats" {
			t.Fatalf("skip must keep the existing ingredient, got %q", ing.Name)
		}
	})

	t.Run("merge", func(t *testing.T) {
		t.Parallel()
		sqldb := newTestDB(t)
		if _, err := service.ImportCatalog(sqldb, original, service.ImportOptions{}); err != nil {
			t.Fatalf("import catalog: %v", err)
		}
		report, err := service.ImportCatalog(sqldb, renamed, service.ImportOptions{Mode: service.ImportModeMerge})
		if err != nil || report.Updated != 1 || report.Inserted != 1 {
			t.Fatalf("merge: %+v %v", report, err)
		}
		ing, err := service.ResolveIngredient(sqldb, "oats")
		if err != nil {
			t.Fatalf("resolve ingredient: %v", err)
		}
		if ing.Name != "Rolled oats" || ing.Kcal != 3.8 {
			t.Fatalf("merge must update the existing ingredient, got %+v", ing)
		}
	})

	t.Run("fail", func(t *testing.T) {
		t.Parallel()
		sqldb := newTestDB(t)
		if _, err := service.ImportCatalog(sqldb, original, service.ImportOptions{}); err != nil {
			t.Fatalf("import catalog: %v", err)
		}
		if _, err := service.ImportCatalog(sqldb, renamed, service.ImportOptions{Mode: service.ImportModeFail}); err == nil {
			t.Fatalf("expected conflict error")
		}
		items, err := service.ListIngredients(sqldb)
		if err != nil {
			t.Fatalf("list ingredients: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("failed import must roll back, got %d ingredients", len(items))
		}
	})

	t.Run("replace", func(t *testing.T) {
		t.Parallel()
		sqldb := newTestDB(t)
		mustMeal(t, sqldb, "Curry", "dinner", 600, 35, 70, 20)
		report, err := service.ImportCatalog(sqldb, renamed, service.ImportOptions{Mode: service.ImportModeReplace})
		if err != nil || report.Inserted != 2 {
			t.Fatalf("replace: %+v %v", report, err)
		}
		items, err := service.ListIngredients(sqldb)
		if err != nil {
			t.Fatalf("list ingredients: %v", err)
		}
		meals, err := service.ListMeals(sqldb)
		if err != nil {
			t.Fatalf("list meals: %v", err)
		}
		if len(items) != 2 || len(meals) != 0 {
			t.Fatalf("replace must clear the catalog first, got %d ingredients and %d meals", len(items), len(meals))
		}
	})

	t.Run("dry-run", func(t *testing.T) {
		t.Parallel()
		sqldb := newTestDB(t)
		report, err := service.ImportCatalog(sqldb, renamed, service.ImportOptions{DryRun: true})
		if err != nil || report.Inserted != 2 {
			t.Fatalf("dry run: %+v %v", report, err)
		}
		items, err := service.ListIngredients(sqldb)
		if err != nil {
			t.Fatalf("list ingredients: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("dry run must not write, got %d ingredients", len(items))
		}
	})
}

func TestDecodeBareIngredientList(t *testing.T) {
	t.Parallel()
	list := `[{"id":"rice","name":"Rice","category":"Grains","unit":"g","kcal":1.3,"protein_per_unit":0.03,"carb_per_unit":0.28,"lipid_per_unit":0.003},{"id":"","name":""}]`
	c, err := service.DecodeCatalog(strings.NewReader(list), service.FormatJSON)
	if err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(c.Ingredients) != 1 || c.Ingredients[0].CarbPerUnit != 0.28 {
		t.Fatalf("unexpected ingredients %+v", c.Ingredients)
	}

	single := "id: milk\nname: Milk\ncategory: Dairy\nunit: ml\nkcal: 0.6\n"
	c, err = service.DecodeCatalog(strings.NewReader(single), service.FormatYAML)
	if err != nil {
		t.Fatalf("decode single: %v", err)
	}
	if len(c.Ingredients) != 1 || c.Ingredients[0].Name != "Milk" {
		t.Fatalf("unexpected ingredients %+v", c.Ingredients)
	}

	if _, err := service.DecodeCatalog(strings.NewReader("  "), service.FormatJSON); err == nil {
		t.Fatalf("expected empty catalog error")
	}
}

func TestDetectFormatAndImportMode(t *testing.T) {
	t.Parallel()
	if f, err := service.DetectFormat("", "plan.yml"); err != nil || f != service.FormatYAML {
		t.Fatalf("yml: %v %v", f, err)
	}
	if f, err := service.DetectFormat("", "plan"); err != nil || f != service.FormatJSON {
		t.Fatalf("no extension: %v %v", f, err)
	}
	if _, err := service.DetectFormat("csv", "plan.json"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if m, err := service.ParseImportMode(""); err != nil || m != service.ImportModeSkip {
		t.Fatalf("default mode: %v %v", m, err)
	}
	if _, err := service.ParseImportMode("upsert"); err == nil {
		t.Fatalf("expected invalid mode error")
	}
}

package service

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/logger"
	"github.com/saadjs/mealplan-cli/internal/model"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const CatalogVersion = 1

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks the format from an explicit value or the file extension.
func DetectFormat(explicit, path string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(explicit))
	if v == "" {
		v = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch v {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q (expected json or yaml)", v)
}

// IngredientRecord is the file representation of an ingredient.
type IngredientRecord struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Category       string  `json:"category" yaml:"category"`
	Unit           string  `json:"unit" yaml:"unit"`
	Kcal           float64 `json:"kcal" yaml:"kcal"`
	ProteinPerUnit float64 `json:"protein_per_unit" yaml:"protein_per_unit"`
	CarbPerUnit    float64 `json:"carb_per_unit" yaml:"carb_per_unit"`
	LipidPerUnit   float64 `json:"lipid_per_unit" yaml:"lipid_per_unit"`
}

// MealIngredientRecord keeps a name/unit snapshot so an unknown id can still be shown.
type MealIngredientRecord struct {
	ItemID   string  `json:"itemId" yaml:"itemId"`
	ItemName string  `json:"itemName,omitempty" yaml:"itemName,omitempty"`
	ItemUnit string  `json:"itemUnit,omitempty" yaml:"itemUnit,omitempty"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
}

type MealRecord struct {
	ID           string                   `json:"id" yaml:"id"`
	Name         string                   `json:"name" yaml:"name"`
	Type         string                   `json:"type" yaml:"type"`
	Ingredients  []MealIngredientRecord   `json:"ingredients" yaml:"ingredients"`
	Instructions []model.InstructionBlock `json:"instructions" yaml:"instructions"`
}

type Catalog struct {
	Version     int                 `json:"version" yaml:"version"`
	Ingredients []IngredientRecord  `json:"ingredients" yaml:"ingredients"`
	Meals       []MealRecord        `json:"meals" yaml:"meals"`
	Schedule    []model.ScheduleDay `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

type ImportMode string

const (
	ImportModeFail    ImportMode = "fail"
	ImportModeSkip    ImportMode = "skip"
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

func ParseImportMode(value string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ImportModeSkip:
		return ImportModeSkip, nil
	case ImportModeFail:
		return ImportModeFail, nil
	case ImportModeMerge:
		return ImportModeMerge, nil
	case ImportModeReplace:
		return ImportModeReplace, nil
	}
	return "", fmt.Errorf("invalid import mode %q (expected fail, skip, merge or replace)", value)
}

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
	// Progress, when set, is called after each record with the running count.
	Progress func(done, total int)
}

type ImportReport struct {
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Conflicts int      `json:"conflicts"`
	Warnings  []string `json:"warnings,omitempty"`
}

func ingredientRecord(ing model.Ingredient) IngredientRecord {
	return IngredientRecord{
		ID:             ing.ID,
		Name:           ing.Name,
		Category:       ing.Category,
		Unit:           ing.Unit,
		Kcal:           ing.Kcal,
		ProteinPerUnit: ing.ProteinPerUnit,
		CarbPerUnit:    ing.CarbsPerUnit,
		LipidPerUnit:   ing.LipidsPerUnit,
	}
}

func (r IngredientRecord) ingredient() model.Ingredient {
	return model.Ingredient{
		ID:             strings.TrimSpace(r.ID),
		Name:           strings.TrimSpace(r.Name),
		Category:       strings.TrimSpace(r.Category),
		Unit:           strings.TrimSpace(r.Unit),
		Kcal:           model.SafeQuantity(r.Kcal),
		ProteinPerUnit: model.SafeQuantity(r.ProteinPerUnit),
		CarbsPerUnit:   model.SafeQuantity(r.CarbPerUnit),
		LipidsPerUnit:  model.SafeQuantity(r.LipidPerUnit),
	}
}

func mealRecord(m model.Meal) MealRecord {
	rec := MealRecord{
		ID:           m.ID,
		Name:         m.Name,
		Type:         string(m.Type),
		Ingredients:  make([]MealIngredientRecord, 0, len(m.Ingredients)),
		Instructions: m.Instructions,
	}
	for _, entry := range m.Ingredients {
		rec.Ingredients = append(rec.Ingredients, MealIngredientRecord{
			ItemID:   entry.Ingredient.ID,
			ItemName: entry.Ingredient.Name,
			ItemUnit: entry.Ingredient.Unit,
			Quantity: entry.Quantity,
		})
	}
	if rec.Instructions == nil {
		rec.Instructions = []model.InstructionBlock{}
	}
	return rec
}

func ExportCatalog(db sqlExecutor, withSchedule bool) (*Catalog, error) {
	out := &Catalog{Version: CatalogVersion, Ingredients: []IngredientRecord{}, Meals: []MealRecord{}}
	ingredients, err := ListIngredients(db)
	if err != nil {
		return nil, err
	}
	for _, ing := range ingredients {
		out.Ingredients = append(out.Ingredients, ingredientRecord(ing))
	}
	meals, err := ListMeals(db)
	if err != nil {
		return nil, err
	}
	for _, m := range meals {
		out.Meals = append(out.Meals, mealRecord(m))
	}
	if withSchedule {
		days, err := LoadSchedule(db)
		if err != nil {
			return nil, err
		}
		out.Schedule = days
	}
	return out, nil
}

func EncodeCatalog(w io.Writer, c *Catalog, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encode yaml catalog: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encode json catalog: %w", err)
		}
		return nil
	}
}

// DecodeCatalog reads a full catalog, or a bare ingredient list (array or single
// object) as written by the ingredients file.
func DecodeCatalog(r io.Reader, format Format) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	var c Catalog
	if err := unmarshal(raw, format, &c); err == nil && (c.Version > 0 || len(c.Meals) > 0 || len(c.Ingredients) > 0 || len(c.Schedule) > 0) {
		return &c, nil
	}
	records, err := decodeIngredientRecords(raw, format)
	if err != nil {
		return nil, err
	}
	return &Catalog{Version: CatalogVersion, Ingredients: records}, nil
}

func decodeIngredientRecords(raw []byte, format Format) ([]IngredientRecord, error) {
	var list []IngredientRecord
	if err := unmarshal(raw, format, &list); err == nil {
		return dropEmptyRecords(list), nil
	}
	var single IngredientRecord
	if err := unmarshal(raw, format, &single); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return dropEmptyRecords([]IngredientRecord{single}), nil
}

func dropEmptyRecords(in []IngredientRecord) []IngredientRecord {
	out := make([]IngredientRecord, 0, len(in))
	for _, r := range in {
		if strings.TrimSpace(r.ID) == "" && strings.TrimSpace(r.Name) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func unmarshal(raw []byte, format Format, v any) error {
	if format == FormatYAML {
		return yaml.Unmarshal(raw, v)
	}
	return json.Unmarshal(raw, v)
}

// ImportCatalog writes ingredients, then meals, then the schedule in one transaction.
func ImportCatalog(db *sql.DB, data *Catalog, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{}
	if data == nil {
		return report, fmt.Errorf("catalog is required")
	}
	mode := opts.Mode
	if mode == "" {
		mode = ImportModeSkip
	}
	if len(data.Ingredients) == 0 && len(data.Meals) == 0 && len(data.Schedule) == 0 {
		return report, fmt.Errorf("no valid ingredients or meals found")
	}

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if mode == ImportModeReplace && !opts.DryRun {
		for _, stmt := range []string{`DELETE FROM schedule_slots`, `DELETE FROM schedule_days`, `DELETE FROM meals`, `DELETE FROM ingredients`, `DELETE FROM shopping_checks`} {
			if _, err := tx.Exec(stmt); err != nil {
				return report, fmt.Errorf("clear catalog: %w", err)
			}
		}
	}

	total := len(data.Ingredients) + len(data.Meals)
	done := 0
	step := func() {
		done++
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
	}

	known := map[string]bool{}
	if mode != ImportModeReplace {
		existing, err := ListIngredients(tx)
		if err != nil {
			return report, err
		}
		for _, ing := range existing {
			known[ing.ID] = true
		}
	}

	for _, rec := range data.Ingredients {
		ing := rec.ingredient()
		if ing.ID == "" {
			ing.ID = newID()
		}
		if ing.Name == "" {
			report.Skipped++
			report.Warnings = append(report.Warnings, fmt.Sprintf("ingredient %q has no name; skipped", ing.ID))
			step()
			continue
		}
		if ing.Category == "" {
			ing.Category = DefaultIngredientCategory
		}
		exists := known[ing.ID] && mode != ImportModeReplace
		switch {
		case exists && mode == ImportModeFail:
			report.Conflicts++
			return report, fmt.Errorf("ingredient %q already exists", ing.ID)
		case exists && mode == ImportModeSkip:
			report.Skipped++
		case exists && mode == ImportModeMerge:
			if !opts.DryRun {
				if _, err := tx.Exec(`
UPDATE ingredients SET name = ?, category = ?, unit = ?, kcal = ?, protein_per_unit = ?, carbs_per_unit = ?, lipids_per_unit = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`, ing.Name, ing.Category, ing.Unit, ing.Kcal, ing.ProteinPerUnit, ing.CarbsPerUnit, ing.LipidsPerUnit, ing.ID); err != nil {
					return report, fmt.Errorf("import ingredient %q: %w", ing.ID, err)
				}
			}
			report.Updated++
		default:
			if known[ing.ID] && mode == ImportModeReplace {
				report.Skipped++
				report.Warnings = append(report.Warnings, fmt.Sprintf("duplicate ingredient id %q in file; kept the first", ing.ID))
				step()
				continue
			}
			if !opts.DryRun {
				if err := insertIngredient(tx, ing); err != nil {
					return report, err
				}
			}
			report.Inserted++
		}
		known[ing.ID] = true
		step()
	}

	knownMeals := map[string]bool{}
	if mode != ImportModeReplace {
		rows, err := tx.Query(`SELECT id FROM meals`)
		if err != nil {
			return report, fmt.Errorf("list meal ids: %w", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				_ = rows.Close()
				return report, fmt.Errorf("scan meal id: %w", err)
			}
			knownMeals[id] = true
		}
		_ = rows.Close()
	}

	for _, rec := range data.Meals {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			id = newID()
		}
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			report.Skipped++
			report.Warnings = append(report.Warnings, fmt.Sprintf("meal %q has no name; skipped", id))
			step()
			continue
		}
		exists := knownMeals[id]
		if exists {
			switch mode {
			case ImportModeFail:
				report.Conflicts++
				return report, fmt.Errorf("meal %q already exists", id)
			case ImportModeSkip, ImportModeReplace:
				report.Skipped++
				step()
				continue
			}
		}

		entries := make([]model.QuantifiedIngredient, 0, len(rec.Ingredients))
		for _, ref := range rec.Ingredients {
			itemID := strings.TrimSpace(ref.ItemID)
			if itemID == "" {
				continue
			}
			if !known[itemID] {
				report.Warnings = append(report.Warnings, fmt.Sprintf("meal %q references unknown ingredient %q; using placeholder", name, itemID))
			}
			entries = append(entries, model.QuantifiedIngredient{
				Ingredient: model.Ingredient{ID: itemID, Name: ref.ItemName, Unit: ref.ItemUnit},
				Quantity:   model.SafeQuantity(ref.Quantity),
			})
		}

		if !opts.DryRun {
			if exists {
				if _, err := tx.Exec(`UPDATE meals SET name = ?, meal_type = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, strings.TrimSpace(rec.Type), id); err != nil {
					return report, fmt.Errorf("import meal %q: %w", id, err)
				}
			} else if _, err := tx.Exec(`INSERT INTO meals(id, name, meal_type) VALUES(?, ?, ?)`, id, name, strings.TrimSpace(rec.Type)); err != nil {
				return report, fmt.Errorf("import meal %q: %w", id, err)
			}
			if err := writeMealIngredients(tx, id, entries); err != nil {
				return report, err
			}
			if err := writeMealInstructions(tx, id, rec.Instructions); err != nil {
				return report, err
			}
		}
		if exists {
			report.Updated++
		} else {
			report.Inserted++
		}
		knownMeals[id] = true
		step()
	}

	if len(data.Schedule) > 0 && !opts.DryRun {
		if err := writeSchedule(tx, data.Schedule); err != nil {
			return report, err
		}
	}

	if opts.DryRun {
		return report, nil
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit import: %w", err)
	}
	for _, w := range report.Warnings {
		logger.Debug("catalog import warning", zap.String("warning", w))
	}
	if len(data.Ingredients) > 0 {
		syncIngredientsFile(db)
	}
	return report, nil
}

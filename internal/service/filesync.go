package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/logger"
	"go.uber.org/zap"
)

// IngredientsFilePath returns the configured mirror file, or "" when disabled.
func IngredientsFilePath(db sqlExecutor) (string, error) {
	path, ok, err := GetConfig(db, ConfigIngredientsFile)
	if err != nil || !ok {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

// syncIngredientsFile mirrors the ingredient catalog to the configured file.
// Failures are logged; the database stays the source of truth.
func syncIngredientsFile(db *sql.DB) {
	path, err := IngredientsFilePath(db)
	if err != nil {
		logger.Warn("ingredients file sync skipped", zap.Error(err))
		return
	}
	if path == "" {
		return
	}
	if err := WriteIngredientsFile(db, path); err != nil {
		logger.Warn("ingredients file sync failed; changes kept in database only", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Debug("ingredients file synced", zap.String("path", path))
}

// WriteIngredientsFile writes the catalog as a JSON array, replacing the file atomically.
func WriteIngredientsFile(db sqlExecutor, path string) error {
	items, err := ListIngredients(db)
	if err != nil {
		return err
	}
	records := make([]IngredientRecord, 0, len(items))
	for _, ing := range items {
		records = append(records, ingredientRecord(ing))
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ingredients file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create ingredients file directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write ingredients file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace ingredients file: %w", err)
	}
	return nil
}

// PullIngredientsFile imports ingredients from the configured file whose ids
// are not yet in the catalog.
func PullIngredientsFile(db *sql.DB) (ImportReport, error) {
	path, err := IngredientsFilePath(db)
	if err != nil {
		return ImportReport{}, err
	}
	if path == "" {
		return ImportReport{}, fmt.Errorf("no ingredients file configured; set %s first", ConfigIngredientsFile)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("read ingredients file: %w", err)
	}
	records, err := decodeIngredientRecords(raw, FormatJSON)
	if err != nil {
		return ImportReport{}, err
	}
	return ImportCatalog(db, &Catalog{Ingredients: records}, ImportOptions{Mode: ImportModeSkip})
}

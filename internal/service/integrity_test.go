package service_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/saadjs/mealplan-cli/internal/db"
	"github.com/saadjs/mealplan-cli/internal/service"
)

func TestDoctorFindsAndFixesProblems(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)

	keep := mustMeal(t, sqldb, "Porridge", "breakfast", 300, 20, 40, 10)
	gone := mustMeal(t, sqldb, "Curry", "dinner", 600, 35, 70, 20)
	if err := service.SetSlot(sqldb, service.SetSlotInput{Day: 0, Slot: "dinner", MealRef: gone}); err != nil {
		t.Fatalf("set slot: %v", err)
	}
	if err := service.AddInstructionStep(sqldb, keep, "", "Boil."); err != nil {
		t.Fatalf("add instruction step: %v", err)
	}

	report, err := service.RunDoctor(sqldb, false)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if !report.Healthy() || report.SchemaVersion != db.LatestVersion() {
		t.Fatalf("expected a healthy database, got %+v", report)
	}

	if err := service.DeleteMeal(sqldb, gone); err != nil {
		t.Fatalf("delete meal: %v", err)
	}
	if err := service.DeleteIngredient(sqldb, "porridge base"); err != nil {
		t.Fatalf("delete ingredient: %v", err)
	}
	if _, err := sqldb.Exec(`UPDATE meal_instructions SET steps_json = 'not json' WHERE meal_id = ?`, keep); err != nil {
		t.Fatalf("corrupt steps: %v", err)
	}

	report, err = service.RunDoctor(sqldb, false)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(report.DanglingSlots) != 1 || report.DanglingSlots[0].MealID != gone || report.DanglingSlots[0].Slot != "dinner" {
		t.Fatalf("unexpected dangling slots %+v", report.DanglingSlots)
	}
	if len(report.DanglingIngredients) != 1 || report.DanglingIngredients[0].MealName != "Porridge" {
		t.Fatalf("unexpected dangling ingredients %+v", report.DanglingIngredients)
	}
	if report.InvalidInstructions != 1 || report.FixedSlots != 0 {
		t.Fatalf("unexpected report %+v", report)
	}

	report, err = service.RunDoctor(sqldb, true)
	if err != nil {
		t.Fatalf("doctor fix: %v", err)
	}
	if report.FixedSlots != 1 || report.FixedInstructions != 1 {
		t.Fatalf("unexpected fix counts %+v", report)
	}

	report, err = service.RunDoctor(sqldb, false)
	if err != nil {
		t.Fatalf("run doctor: %v", err)
	}
	if len(report.DanglingSlots) != 0 || report.InvalidInstructions != 0 {
		t.Fatalf("problems remain after fix: %+v", report)
	}
	if len(report.DanglingIngredients) != 1 {
		t.Fatalf("dangling ingredient references are kept as placeholders")
	}
	if _, err := service.ResolveMeal(sqldb, keep); err != nil {
		t.Fatalf("meal must load after fix: %v", err)
	}
}

func TestBackupCreateListRestore(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "mealplan.db")
	sqldb, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	mustIngredient(t, sqldb, service.IngredientInput{Name: "Rice", Unit: "g", Kcal: 1.3})
	_ = sqldb.Close()

	backupDir := service.DefaultBackupDir(dbPath)
	if backups, err := service.ListBackups(backupDir); err != nil || len(backups) != 0 {
		t.Fatalf("missing backup dir must list nothing: %v %v", backups, err)
	}

	name := service.BackupFileName(time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC))
	if name != "mealplan-20260302-093000.db" {
		t.Fatalf("backup name = %s", name)
	}
	info, err := service.CreateBackup(dbPath, filepath.Join(backupDir, name))
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if info.Checksum == "" || info.SizeBytes == 0 {
		t.Fatalf("unexpected backup info %+v", info)
	}
	backups, err := service.ListBackups(backupDir)
	if err != nil || len(backups) != 1 || backups[0].Checksum != info.Checksum {
		t.Fatalf("list backups = %+v %v", backups, err)
	}

	if err := service.RestoreBackup(info.Path, dbPath, false); err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected overwrite protection, got %v", err)
	}
	restored := filepath.Join(dir, "restored.db")
	if err := service.RestoreBackup(info.Path, restored, false); err != nil {
		t.Fatalf("restore: %v", err)
	}
	rdb, err := db.Open(restored)
	if err != nil {
		t.Fatalf("open restored: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	if _, err := service.ResolveIngredient(rdb, "rice"); err != nil {
		t.Fatalf("restored db is missing data: %v", err)
	}

	if err := os.WriteFile(info.Path+".sha256", []byte("deadbeef\n"), 0o644); err != nil {
		t.Fatalf("tamper checksum: %v", err)
	}
	if err := service.RestoreBackup(info.Path, restored, true); err == nil || !strings.Contains(err.Error(), "checksum") {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
}

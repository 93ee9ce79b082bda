package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

type DanglingSlot struct {
	Day    int    `json:"day"`
	Slot   string `json:"slot"`
	MealID string `json:"meal_id"`
}

type DanglingIngredient struct {
	MealID       string `json:"meal_id"`
	MealName     string `json:"meal_name"`
	IngredientID string `json:"ingredient_id"`
	Name         string `json:"name"`
}

type DoctorReport struct {
	DanglingSlots       []DanglingSlot       `json:"dangling_slots"`
	DanglingIngredients []DanglingIngredient `json:"dangling_ingredients"`
	InvalidInstructions int                  `json:"invalid_instructions"`
	SchemaVersion       int                  `json:"schema_version"`
	FixedSlots          int                  `json:"fixed_slots,omitempty"`
	FixedInstructions   int                  `json:"fixed_instructions,omitempty"`
}

// Healthy reports whether no problems were found.
func (r DoctorReport) Healthy() bool {
	return len(r.DanglingSlots) == 0 && len(r.DanglingIngredients) == 0 && r.InvalidInstructions == 0
}

func CreateBackup(dbPath, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(dbPath) == "" {
		return BackupInfo{}, fmt.Errorf("db path is required")
	}
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if err := copyFile(dbPath, outPath); err != nil {
		return BackupInfo{}, err
	}
	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	checksumFile := backupPath + ".sha256"
	if expected, err := os.ReadFile(checksumFile); err == nil {
		actual, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch")
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

// DefaultBackupDir is the backups/ directory next to the database file.
func DefaultBackupDir(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), "backups")
}

func BackupFileName(at time.Time) string {
	return fmt.Sprintf("mealplan-%s.db", at.Format("20060102-150405"))
}

// ListBackups returns backups newest first; a missing directory has none.
func ListBackups(dir string) ([]BackupInfo, error) {
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := make([]BackupInfo, 0)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".db") {
			continue
		}
		full := filepath.Join(dir, f.Name())
		st, err := os.Stat(full)
		if err != nil {
			continue
		}
		checksum := ""
		if b, err := os.ReadFile(full + ".sha256"); err == nil {
			checksum = strings.TrimSpace(string(b))
		}
		out = append(out, BackupInfo{Path: full, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// RunDoctor reports dangling references and corrupt rows. Dangling ingredient
// references are left alone with fix: meals hydrate them as placeholders.
func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	report := DoctorReport{DanglingSlots: []DanglingSlot{}, DanglingIngredients: []DanglingIngredient{}}
	if err := db.QueryRow(`SELECT IFNULL(MAX(version),0) FROM schema_migrations`).Scan(&report.SchemaVersion); err != nil {
		return report, fmt.Errorf("doctor schema version: %w", err)
	}

	slotRows, err := db.Query(`
SELECT s.day, s.slot, s.meal_id
FROM schedule_slots s LEFT JOIN meals m ON m.id = s.meal_id
WHERE s.meal_id IS NOT NULL AND s.meal_id != '' AND m.id IS NULL
ORDER BY s.day, s.position`)
	if err != nil {
		return report, fmt.Errorf("doctor slot check: %w", err)
	}
	for slotRows.Next() {
		var d DanglingSlot
		if err := slotRows.Scan(&d.Day, &d.Slot, &d.MealID); err != nil {
			_ = slotRows.Close()
			return report, fmt.Errorf("doctor slot scan: %w", err)
		}
		report.DanglingSlots = append(report.DanglingSlots, d)
	}
	_ = slotRows.Close()

	ingRows, err := db.Query(`
SELECT mi.meal_id, m.name, mi.ingredient_id, mi.name
FROM meal_ingredients mi
JOIN meals m ON m.id = mi.meal_id
LEFT JOIN ingredients i ON i.id = mi.ingredient_id
WHERE i.id IS NULL
ORDER BY m.name, mi.position`)
	if err != nil {
		return report, fmt.Errorf("doctor ingredient check: %w", err)
	}
	for ingRows.Next() {
		var d DanglingIngredient
		if err := ingRows.Scan(&d.MealID, &d.MealName, &d.IngredientID, &d.Name); err != nil {
			_ = ingRows.Close()
			return report, fmt.Errorf("doctor ingredient scan: %w", err)
		}
		report.DanglingIngredients = append(report.DanglingIngredients, d)
	}
	_ = ingRows.Close()

	type instructionKey struct {
		mealID   string
		position int
	}
	invalid := make([]instructionKey, 0)
	stepRows, err := db.Query(`SELECT meal_id, position, steps_json FROM meal_instructions`)
	if err != nil {
		return report, fmt.Errorf("doctor instructions query: %w", err)
	}
	for stepRows.Next() {
		var k instructionKey
		var raw string
		if err := stepRows.Scan(&k.mealID, &k.position, &raw); err != nil {
			_ = stepRows.Close()
			return report, fmt.Errorf("doctor instructions scan: %w", err)
		}
		var steps []string
		if err := json.Unmarshal([]byte(raw), &steps); err != nil {
			report.InvalidInstructions++
			invalid = append(invalid, k)
		}
	}
	_ = stepRows.Close()

	if !fix || (len(report.DanglingSlots) == 0 && len(invalid) == 0) {
		return report, nil
	}
	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("doctor fix begin tx: %w", err)
	}
	for _, d := range report.DanglingSlots {
		if _, err := tx.Exec(`UPDATE schedule_slots SET meal_id = NULL WHERE day = ? AND slot = ?`, d.Day, d.Slot); err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("doctor fix slot %d/%s: %w", d.Day, d.Slot, err)
		}
		report.FixedSlots++
	}
	for _, k := range invalid {
		if _, err := tx.Exec(`UPDATE meal_instructions SET steps_json = '[]' WHERE meal_id = ? AND position = ?`, k.mealID, k.position); err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("doctor fix instructions %s/%d: %w", k.mealID, k.position, err)
		}
		report.FixedInstructions++
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("doctor fix commit: %w", err)
	}
	return report, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ingredients (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  unit TEXT NOT NULL DEFAULT '',
  kcal REAL NOT NULL DEFAULT 0 CHECK(kcal >= 0),
  protein_per_unit REAL NOT NULL DEFAULT 0 CHECK(protein_per_unit >= 0),
  carbs_per_unit REAL NOT NULL DEFAULT 0 CHECK(carbs_per_unit >= 0),
  lipids_per_unit REAL NOT NULL DEFAULT 0 CHECK(lipids_per_unit >= 0),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_ingredients_name ON ingredients(name);

CREATE TABLE IF NOT EXISTS meals (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  meal_type TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_meals_name ON meals(name);

-- ingredient_id is a soft reference: deleting an ingredient leaves a dangling
-- row that is hydrated as a zero-macro placeholder.
CREATE TABLE IF NOT EXISTS meal_ingredients (
  meal_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  ingredient_id TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  unit TEXT NOT NULL DEFAULT '',
  quantity REAL NOT NULL DEFAULT 0 CHECK(quantity >= 0),
  PRIMARY KEY(meal_id, position),
  FOREIGN KEY(meal_id) REFERENCES meals(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_meal_ingredients_ingredient_id ON meal_ingredients(ingredient_id);

CREATE TABLE IF NOT EXISTS meal_instructions (
  meal_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  steps_json TEXT NOT NULL DEFAULT '[]',
  PRIMARY KEY(meal_id, position),
  FOREIGN KEY(meal_id) REFERENCES meals(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS schedule_days (
  day INTEGER PRIMARY KEY CHECK(day >= 0 AND day <= 6),
  is_cheat_day INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS schedule_slots (
  day INTEGER NOT NULL,
  position INTEGER NOT NULL CHECK(position >= 0 AND position <= 3),
  slot TEXT NOT NULL,
  meal_id TEXT,
  time_label TEXT NOT NULL DEFAULT '',
  PRIMARY KEY(day, position),
  FOREIGN KEY(day) REFERENCES schedule_days(day) ON DELETE CASCADE
);
`,
	},
	{
		version: 2,
		name:    "profile",
		sql: `
CREATE TABLE IF NOT EXISTS profile (
  id INTEGER PRIMARY KEY CHECK(id = 1),
  age INTEGER,
  sex TEXT NOT NULL DEFAULT 'male' CHECK(sex IN ('male', 'female')),
  weight_kg REAL,
  height_cm REAL,
  activity_level REAL NOT NULL DEFAULT 1.55,
  goal_weight_kg REAL,
  goal_months INTEGER,
  maintenance_calories REAL,
  recommended_calories REAL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 3,
		name:    "app_config",
		sql: `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 4,
		name:    "tracker_and_shopping_checks",
		sql: `
CREATE TABLE IF NOT EXISTS supplements (
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  timing TEXT NOT NULL DEFAULT '',
  dosage TEXT NOT NULL DEFAULT '',
  note TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tracker_state (
  id INTEGER PRIMARY KEY CHECK(id = 1),
  day TEXT NOT NULL,
  completed_json TEXT NOT NULL DEFAULT '{}',
  water_ml INTEGER NOT NULL DEFAULT 0 CHECK(water_ml >= 0),
  bottle_size_ml INTEGER NOT NULL DEFAULT 750 CHECK(bottle_size_ml >= 100 AND bottle_size_ml <= 2000)
);

CREATE TABLE IF NOT EXISTS shopping_checks (
  item_key TEXT PRIMARY KEY,
  checked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
}

var defaultSupplements = []struct {
	id, name, timing, dosage, note string
}{
	{"d3", "Vitamin D3", "Morning (with fat)", "2,000 - 5,000 IU", "Bone health, mood, immunity."},
	{"k2", "Vitamin K2", "Morning (with D3)", "100 mcg", "Helps direct calcium to bones."},
	{"b12", "Vitamin B12", "Morning", "Daily value+", "Energy and nervous system support."},
	{"vitc", "Vitamin C", "Morning", "500 - 1000 mg", "Immunity and collagen support."},
	{"ltheanine", "L-Theanine", "Morning (with coffee)", "100 - 200 mg", "Calm focus with caffeine."},
	{"omega3", "Omega-3", "With meals", "1,000 mg EPA/DHA", "Heart and brain support."},
	{"fiber", "Fiber", "With meals", "30g+ daily", "Gut health support."},
	{"creatine", "Creatine", "Anytime", "5 g", "Muscle and performance support."},
	{"collagen", "Collagen Powder", "Anytime", "10 - 20 g", "Joint and skin support."},
	{"taurine", "Taurine", "Evening / pre-workout", "1 - 2 g", "Calmness and heart support."},
	{"magnesium", "Magnesium", "Evening", "200 - 400 mg", "Recovery and sleep support."},
	{"glycine", "Glycine", "Bedtime", "3 - 5 g", "Sleep quality support."},
	// dosage for protein is derived from body weight when displayed.
	{"protein", "Protein Intake", "Across meals", "", "Daily target based on body weight."},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	if _, err := db.Exec(`INSERT OR IGNORE INTO profile(id) VALUES(1)`); err != nil {
		return fmt.Errorf("seed profile row: %w", err)
	}
	for i, s := range defaultSupplements {
		if _, err := db.Exec(`INSERT OR IGNORE INTO supplements(id, position, name, timing, dosage, note) VALUES(?, ?, ?, ?, ?, ?)`,
			s.id, i, s.name, s.timing, s.dosage, s.note); err != nil {
			return fmt.Errorf("seed supplement %s: %w", s.id, err)
		}
	}

	return nil
}

// LatestVersion is the schema version ApplyMigrations brings a database to.
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}

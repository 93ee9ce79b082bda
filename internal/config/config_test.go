package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/saadjs/mealplan-cli/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadReadsYAMLFile(t *testing.T) {
	path := writeConfig(t, "db_path: /tmp/plan.db\nlog_level: debug\nseed: 42\nstart_day: monday\nbottle_size_ml: 500\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBPath != "/tmp/plan.db" || cfg.LogLevel != "debug" || cfg.Seed != 42 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.StartDay != 1 || cfg.BottleSizeMl != 500 {
		t.Fatalf("start day/bottle = %d/%d", cfg.StartDay, cfg.BottleSizeMl)
	}
	if cfg.LogFormat != config.DefaultLogFormat {
		t.Fatalf("expected default log format, got %q", cfg.LogFormat)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "start_day: 2\nbottle_size_ml: 500\n")
	t.Setenv("MEALPLAN_BOTTLE_SIZE_ML", "1000")
	t.Setenv("MEALPLAN_START_DAY", "sat")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BottleSizeMl != 1000 || cfg.StartDay != 6 {
		t.Fatalf("env did not override file: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "bottle_size_ml: 50\n")
	if _, err := config.Load(path); err == nil {
		t.Fatalf("expected bottle size validation error")
	}
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for explicit missing config file")
	}
}

func TestParseWeekday(t *testing.T) {
	t.Parallel()
	cases := map[string]config.Weekday{"0": 0, "Sunday": 0, "tue": 2, "6": 6}
	for in, want := range cases {
		got, err := config.ParseWeekday(in)
		if err != nil || got != want {
			t.Fatalf("ParseWeekday(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	if _, err := config.ParseWeekday("7"); err == nil {
		t.Fatalf("expected error for 7")
	}
}

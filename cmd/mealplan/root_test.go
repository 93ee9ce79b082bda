package mealplan

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := runCLI(t, "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if !strings.Contains(out, "schedule") {
		t.Fatalf("expected help output listing commands, got %q", out)
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mealplan.db")
	for i := 0; i < 2; i++ {
		if _, err := runCLI(t, "--db", path, "init"); err != nil {
			t.Fatalf("init run %d failed: %v", i+1, err)
		}
	}
}

func TestGenerateWithoutMealsFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mealplan.db")
	_, err := runCLI(t, "--db", path, "schedule", "generate", "--seed", "1")
	if err == nil || !strings.Contains(err.Error(), "no meals") {
		t.Fatalf("expected no-meals error, got %v", err)
	}
}

func TestPlanningFlow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mealplan.db")

	steps := [][]string{
		{"--db", path, "demo", "seed", "--seed", "11", "--meals-per-type", "3"},
		{"--db", path, "profile", "set", "--age", "30", "--sex", "male", "--weight", "80", "--height", "180", "--goal-weight", "75", "--goal-months", "3"},
		{"--db", path, "schedule", "cheat", "saturday"},
		{"--db", path, "schedule", "generate", "--seed", "5"},
	}
	for _, args := range steps {
		if _, err := runCLI(t, args...); err != nil {
			t.Fatalf("%v: %v", args[2:], err)
		}
	}

	out, err := runCLI(t, "--db", path, "schedule", "show")
	if err != nil {
		t.Fatalf("schedule show: %v", err)
	}
	if !strings.Contains(out, "Saturday (6): cheat day") || !strings.Contains(out, "breakfast") {
		t.Fatalf("unexpected schedule output:\n%s", out)
	}

	out, err = runCLI(t, "--db", path, "schedule", "summary")
	if err != nil {
		t.Fatalf("schedule summary: %v", err)
	}
	if !strings.Contains(out, "Weekly target: 16317 kcal") {
		t.Fatalf("unexpected summary output:\n%s", out)
	}

	out, err = runCLI(t, "--db", path, "shopping", "list")
	if err != nil {
		t.Fatalf("shopping list: %v", err)
	}
	if !strings.Contains(out, "[ ]") {
		t.Fatalf("expected unchecked shopping items:\n%s", out)
	}

	out, err = runCLI(t, "--db", path, "tracker", "water", "2")
	if err != nil {
		t.Fatalf("tracker water: %v", err)
	}
	if !strings.Contains(out, "Water: 1500 / 2800 ml") {
		t.Fatalf("unexpected tracker output: %q", out)
	}

	out, err = runCLI(t, "--db", path, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
}

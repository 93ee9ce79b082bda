package planner_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/planner"
)

func TestAutoGenerateEmptyCatalog(t *testing.T) {
	t.Parallel()
	got := planner.AutoGenerate(planner.AutoGenerateInput{CheatDay: -1, Rand: rand.New(rand.NewSource(1))})
	if !got.NoMeals {
		t.Fatalf("expected no-meals condition")
	}
	if len(got.Schedule) != 0 || got.DaysScheduled != 0 {
		t.Fatalf("expected zero-day schedule, got %d days", len(got.Schedule))
	}
}

func TestAutoGenerateWithCheatDay(t *testing.T) {
	t.Parallel()
	got := planner.AutoGenerate(planner.AutoGenerateInput{
		Meals:               scenarioCatalog(),
		CheatDay:            5,
		WeeklyCalorieTarget: 9600,
		WeightKg:            70,
		Rand:                rand.New(rand.NewSource(42)),
	})

	if got.DaysScheduled != 6 || got.DailyBudget != 1600 {
		t.Fatalf("days=%d budget=%v, want 6 and 1600", got.DaysScheduled, got.DailyBudget)
	}
	if len(got.Schedule) != model.DaysPerWeek {
		t.Fatalf("expected 7 days, got %d", len(got.Schedule))
	}
	cheat := got.Schedule[5]
	if !cheat.CheatDay {
		t.Fatalf("expected day 5 to stay the cheat day")
	}
	for _, slot := range cheat.Slots {
		if slot.MealID != "" {
			t.Fatalf("cheat day must have empty slots, got %+v", cheat.Slots)
		}
	}
	if _, ok := got.Days[5]; ok {
		t.Fatalf("cheat day must not be generated")
	}

	if got.UnderBudgetDays != 6 {
		t.Fatalf("under-budget days = %d, want 6", got.UnderBudgetDays)
	}
	// The scenario catalog cannot reach 112g of protein within 1600 kcal.
	if got.MacroMinDays != 0 {
		t.Fatalf("macro-min days = %d, want 0", got.MacroMinDays)
	}
	if got.TotalCalories != 6*1550 {
		t.Fatalf("total calories = %v, want %v", got.TotalCalories, 6*1550)
	}
	if !got.WithinWeeklyTarget() {
		t.Fatalf("expected total within weekly target")
	}
	if got.Targets.ProteinMinG != 112 || got.Targets.FatsMinG != 42 {
		t.Fatalf("targets = %+v", got.Targets)
	}
	for i, day := range got.Schedule {
		if day.Day != i {
			t.Fatalf("day index %d at position %d", day.Day, i)
		}
		if day.CheatDay {
			continue
		}
		for _, slot := range day.Slots {
			if slot.MealID == "" || slot.Time == "" {
				t.Fatalf("day %d has unfilled slot %+v", i, slot)
			}
		}
	}
}

func TestAutoGenerateWithoutWeeklyTarget(t *testing.T) {
	t.Parallel()
	meals := append(scenarioCatalog(), fixedMeal("P", model.MealDinner, 900, 80, 50, 40))
	got := planner.AutoGenerate(planner.AutoGenerateInput{
		Meals:                 meals,
		CheatDay:              -1,
		WeightKg:              70,
		FallbackDailyCalories: 2200,
		Rand:                  rand.New(rand.NewSource(3)),
	})
	if got.DaysScheduled != 7 || got.DailyBudget != 0 {
		t.Fatalf("days=%d budget=%v, want 7 and no budget", got.DaysScheduled, got.DailyBudget)
	}
	if got.UnderBudgetDays != 7 {
		t.Fatalf("every day counts as under budget without a target, got %d", got.UnderBudgetDays)
	}
	if got.Targets.Calories != 2200 {
		t.Fatalf("targets should use fallback calories, got %v", got.Targets.Calories)
	}
	// Any day with P in lunch or dinner clears both floors.
	if got.MacroMinDays != 7 {
		t.Fatalf("macro-min days = %d, want 7", got.MacroMinDays)
	}
	if got.WithinWeeklyTarget() {
		t.Fatalf("no weekly target means nothing to be within")
	}
}

func TestAutoGenerateFallbackIsReported(t *testing.T) {
	t.Parallel()
	meals := []model.Meal{
		fixedMeal("heavy-breakfast", model.MealBreakfast, 1200, 40, 100, 50),
		fixedMeal("heavy-dinner", model.MealDinner, 1500, 60, 120, 60),
	}
	got := planner.AutoGenerate(planner.AutoGenerateInput{
		Meals:               meals,
		CheatDay:            -1,
		WeeklyCalorieTarget: 7000,
		WeightKg:            80,
		Rand:                rand.New(rand.NewSource(9)),
	})
	if got.FallbackDays != 7 || got.UnderBudgetDays != 0 {
		t.Fatalf("fallback=%d under=%d, want 7 and 0", got.FallbackDays, got.UnderBudgetDays)
	}
	for i, day := range got.Schedule {
		for _, slot := range day.Slots {
			if slot.MealID == "" {
				t.Fatalf("day %d: fallback must still fill every slot", i)
			}
		}
	}
}

func TestAutoGenerateCompletesQuickly(t *testing.T) {
	t.Parallel()
	meals := make([]model.Meal, 0, 200)
	types := []model.MealType{model.MealBreakfast, model.MealLunch, model.MealSnack, model.MealDinner}
	for i := 0; i < 200; i++ {
		meals = append(meals, fixedMeal(string(rune('a'+i%26))+string(rune('0'+i/26)), types[i%4], float64(150+i*5), float64(10+i%40), 40, float64(5+i%20)))
	}
	start := time.Now()
	planner.AutoGenerate(planner.AutoGenerateInput{Meals: meals, CheatDay: -1, WeeklyCalorieTarget: 14000, WeightKg: 80, Rand: rand.New(rand.NewSource(1))})
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("auto-generation took %s", elapsed)
	}
}

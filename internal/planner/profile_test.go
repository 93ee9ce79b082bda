package planner_test

import (
	"testing"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/planner"
)

func TestComputeProfileMetrics(t *testing.T) {
	t.Parallel()
	age, months := 30, 3
	weight, height, goal := 80.0, 180.0, 75.0
	p := model.Profile{Age: &age, Sex: model.SexMale, WeightKg: &weight, HeightCm: &height, ActivityLevel: 1.55, GoalWeightKg: &goal, GoalMonths: &months}

	got, ok := planner.ComputeProfileMetrics(p)
	if !ok {
		t.Fatalf("expected metrics for a complete profile")
	}
	if got.BMR != 1780 {
		t.Fatalf("bmr = %v, want 1780", got.BMR)
	}
	if got.MaintenanceCalories != 2759 {
		t.Fatalf("maintenance = %v, want 2759", got.MaintenanceCalories)
	}
	// 5 kg over 90 days is ~428 kcal/day below maintenance.
	if got.RecommendedCalories != 2331 {
		t.Fatalf("recommended = %v, want 2331", got.RecommendedCalories)
	}

	p.GoalMonths = nil
	if _, ok := planner.ComputeProfileMetrics(p); ok {
		t.Fatalf("expected incomplete profile to yield no metrics")
	}
}

func TestRecommendedCaloriesLimits(t *testing.T) {
	t.Parallel()
	if got := planner.RecommendedCalories(2500, 100, 60, 1); got != 1500 {
		t.Fatalf("deficit cap: got %v, want 1500", got)
	}
	if got := planner.RecommendedCalories(1800, 90, 60, 2); got != 1200 {
		t.Fatalf("minimum: got %v, want 1200", got)
	}
	if got := planner.RecommendedCalories(2200, 60, 80, 2); got != 2700 {
		t.Fatalf("surplus cap: got %v, want 2700", got)
	}
}

func TestAssessGoal(t *testing.T) {
	t.Parallel()
	loss := planner.AssessGoal(90, 80, 3)
	if !loss.Realistic {
		t.Fatalf("10 kg over 12 weeks should be realistic, got %+v", loss)
	}
	gain := planner.AssessGoal(60, 70, 2)
	if gain.Realistic || gain.RecommendedMonths != 5 {
		t.Fatalf("10 kg gain over 8 weeks should be unrealistic with 5 months recommended, got %+v", gain)
	}
}

func TestValidateProfile(t *testing.T) {
	t.Parallel()
	if err := planner.ValidateProfile(30, 80, 180, 75, 3); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}
	if err := planner.ValidateProfile(12, 80, 180, 75, 3); err == nil {
		t.Fatalf("expected age error")
	}
	if err := planner.ValidateProfile(30, 80, 180, 75, 30); err == nil {
		t.Fatalf("expected goal months error")
	}
}

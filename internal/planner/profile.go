package planner

import (
	"fmt"
	"math"

	"github.com/saadjs/mealplan-cli/internal/model"
)

const (
	kcalPerKgBodyWeight = 7700.0
	daysPerGoalMonth    = 30.0

	minRecommendedCalories = 1200.0
	maxDailyDeficit        = 1000.0
	maxDailySurplus        = 500.0
)

var activityLabels = map[float64]string{
	1.2:   "Sedentary",
	1.375: "Lightly active",
	1.55:  "Moderately active",
	1.725: "Very active",
	1.9:   "Extra active",
}

func ActivityLabel(level float64) string {
	if label, ok := activityLabels[level]; ok {
		return label
	}
	return "Moderate"
}

// BMR uses the Mifflin-St Jeor equation.
func BMR(weightKg, heightCm float64, age int, sex model.Sex) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == model.SexMale {
		return base + 5
	}
	return base - 161
}

func TDEE(bmr, activityLevel float64) float64 {
	return math.Round(bmr * activityLevel)
}

// RecommendedCalories spreads the weight change over the goal window, capped at a
// 1000 kcal deficit, a 500 kcal surplus, and never below 1200 kcal.
func RecommendedCalories(maintenance, weightKg, goalWeightKg float64, goalMonths int) float64 {
	days := float64(goalMonths) * daysPerGoalMonth
	if days <= 0 {
		return maintenance
	}
	daily := (weightKg - goalWeightKg) * kcalPerKgBodyWeight / days
	recommended := math.Round(maintenance - daily)
	if recommended < maintenance-maxDailyDeficit {
		recommended = maintenance - maxDailyDeficit
	}
	if recommended < minRecommendedCalories {
		recommended = minRecommendedCalories
	}
	if recommended > maintenance+maxDailySurplus {
		recommended = maintenance + maxDailySurplus
	}
	return recommended
}

type GoalRealism struct {
	Realistic         bool
	WeeklyChangeKg    float64
	RecommendedMonths int
}

// AssessGoal treats up to 1 kg/week of loss or 0.5 kg/week of gain as realistic.
func AssessGoal(weightKg, goalWeightKg float64, goalMonths int) GoalRealism {
	change := math.Abs(weightKg - goalWeightKg)
	maxRate := 0.5
	if weightKg > goalWeightKg {
		maxRate = 1.0
	}
	weekly := 0.0
	if goalMonths > 0 {
		weekly = change / float64(goalMonths*4)
	}
	return GoalRealism{
		Realistic:         goalMonths > 0 && weekly <= maxRate,
		WeeklyChangeKg:    weekly,
		RecommendedMonths: int(math.Ceil(change / (maxRate * 4))),
	}
}

type ProfileMetrics struct {
	BMR                 float64
	MaintenanceCalories float64
	RecommendedCalories float64
}

// ComputeProfileMetrics returns false when any input it needs is missing.
func ComputeProfileMetrics(p model.Profile) (ProfileMetrics, bool) {
	if p.Age == nil || p.WeightKg == nil || p.HeightCm == nil || p.GoalWeightKg == nil || p.GoalMonths == nil || p.ActivityLevel <= 0 {
		return ProfileMetrics{}, false
	}
	bmr := BMR(*p.WeightKg, *p.HeightCm, *p.Age, p.Sex)
	maintenance := TDEE(bmr, p.ActivityLevel)
	return ProfileMetrics{
		BMR:                 bmr,
		MaintenanceCalories: maintenance,
		RecommendedCalories: RecommendedCalories(maintenance, *p.WeightKg, *p.GoalWeightKg, *p.GoalMonths),
	}, true
}

func ValidateProfile(age int, weightKg, heightCm, goalWeightKg float64, goalMonths int) error {
	if age < 15 || age > 100 {
		return fmt.Errorf("age must be between 15 and 100")
	}
	if weightKg < 30 || weightKg > 300 {
		return fmt.Errorf("weight must be between 30 and 300 kg")
	}
	if heightCm < 100 || heightCm > 250 {
		return fmt.Errorf("height must be between 100 and 250 cm")
	}
	if goalWeightKg < 30 || goalWeightKg > 300 {
		return fmt.Errorf("goal weight must be between 30 and 300 kg")
	}
	if goalMonths < 1 || goalMonths > 24 {
		return fmt.Errorf("goal months must be between 1 and 24")
	}
	return nil
}

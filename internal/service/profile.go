package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/planner"
)

type ProfileInput struct {
	Age           int
	Sex           string
	WeightKg      float64
	HeightCm      float64
	ActivityLevel float64
	GoalWeightKg  float64
	GoalMonths    int
}

func GetProfile(db sqlExecutor) (model.Profile, error) {
	p := model.DefaultProfile()
	var (
		age, goalMonths            sql.NullInt64
		weight, height, goalWeight sql.NullFloat64
		maintenance, recommended   sql.NullFloat64
		sex                        string
	)
	err := db.QueryRow(`
SELECT age, sex, weight_kg, height_cm, activity_level, goal_weight_kg, goal_months, maintenance_calories, recommended_calories, updated_at
FROM profile WHERE id = 1
`).Scan(&age, &sex, &weight, &height, &p.ActivityLevel, &goalWeight, &goalMonths, &maintenance, &recommended, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("get profile: %w", err)
	}
	p.Sex = model.Sex(sex)
	p.Age = nullInt(age)
	p.GoalMonths = nullInt(goalMonths)
	p.WeightKg = nullFloat(weight)
	p.HeightCm = nullFloat(height)
	p.GoalWeightKg = nullFloat(goalWeight)
	p.MaintenanceCalories = nullFloat(maintenance)
	p.RecommendedCalories = nullFloat(recommended)
	return p, nil
}

// SetProfile validates the input, derives maintenance and recommended calories
// and stores the result.
func SetProfile(db *sql.DB, in ProfileInput) (model.Profile, error) {
	if err := planner.ValidateProfile(in.Age, in.WeightKg, in.HeightCm, in.GoalWeightKg, in.GoalMonths); err != nil {
		return model.Profile{}, err
	}
	sex := model.Sex(strings.ToLower(strings.TrimSpace(in.Sex)))
	if sex == "" {
		sex = model.SexMale
	}
	if sex != model.SexMale && sex != model.SexFemale {
		return model.Profile{}, fmt.Errorf("sex must be male or female")
	}
	if in.ActivityLevel == 0 {
		in.ActivityLevel = model.DefaultActivityLevel
	}
	if in.ActivityLevel < 1.2 || in.ActivityLevel > 1.9 {
		return model.Profile{}, fmt.Errorf("activity level must be between 1.2 and 1.9")
	}

	p := model.Profile{
		Age:           &in.Age,
		Sex:           sex,
		WeightKg:      &in.WeightKg,
		HeightCm:      &in.HeightCm,
		ActivityLevel: in.ActivityLevel,
		GoalWeightKg:  &in.GoalWeightKg,
		GoalMonths:    &in.GoalMonths,
	}
	if metrics, ok := planner.ComputeProfileMetrics(p); ok {
		p.MaintenanceCalories = &metrics.MaintenanceCalories
		p.RecommendedCalories = &metrics.RecommendedCalories
	}

	_, err := db.Exec(`
INSERT INTO profile(id, age, sex, weight_kg, height_cm, activity_level, goal_weight_kg, goal_months, maintenance_calories, recommended_calories, updated_at)
VALUES(1, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
  age=excluded.age, sex=excluded.sex, weight_kg=excluded.weight_kg, height_cm=excluded.height_cm,
  activity_level=excluded.activity_level, goal_weight_kg=excluded.goal_weight_kg, goal_months=excluded.goal_months,
  maintenance_calories=excluded.maintenance_calories, recommended_calories=excluded.recommended_calories,
  updated_at=excluded.updated_at
`, in.Age, string(sex), in.WeightKg, in.HeightCm, in.ActivityLevel, in.GoalWeightKg, in.GoalMonths, p.MaintenanceCalories, p.RecommendedCalories)
	if err != nil {
		return model.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return GetProfile(db)
}

// ProfileWeight returns the stored weight or the planner default.
func ProfileWeight(p model.Profile) float64 {
	if p.WeightKg != nil && *p.WeightKg > 0 {
		return *p.WeightKg
	}
	return planner.DefaultWeightKg
}

// ProfileTargets computes daily macro targets from the profile; the bool is
// false when the profile has no calorie figure and defaults were used.
func ProfileTargets(p model.Profile) (planner.MacroTargets, bool) {
	daily := planner.DailyCalorieTarget(p)
	return planner.DailyMacroTargets(daily, ProfileWeight(p)), daily > 0
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

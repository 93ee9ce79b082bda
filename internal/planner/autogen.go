package planner

import (
	"math"

	"github.com/saadjs/mealplan-cli/internal/model"
)

type AutoGenerateInput struct {
	Meals []model.Meal
	// CheatDay is the index of the existing cheat day, or -1.
	CheatDay int
	// WeeklyCalorieTarget <= 0 means no weekly target.
	WeeklyCalorieTarget   float64
	WeightKg              float64
	FallbackDailyCalories float64
	Rand                  Rand
}

type GeneratedDay struct {
	Plan        DayPlan
	UnderBudget bool
	MinimumsMet bool
}

type GenerationResult struct {
	Schedule []model.ScheduleDay
	// Days holds the plan for every scheduled position; cheat days are absent.
	Days            map[int]GeneratedDay
	TotalCalories   float64
	UnderBudgetDays int
	MacroMinDays    int
	DaysScheduled   int
	FallbackDays    int
	DailyBudget     float64
	WeeklyTarget    float64
	Targets         MacroTargets
	// NoMeals is set when the catalog is empty and nothing was generated.
	NoMeals bool
}

// WithinWeeklyTarget reports whether a weekly target exists and the total fits it.
func (r GenerationResult) WithinWeeklyTarget() bool {
	return r.WeeklyTarget > 0 && r.TotalCalories <= r.WeeklyTarget
}

// AutoGenerate builds a full week: the cheat day (if any) stays empty and every
// other day is filled by GenerateDay against a per-day share of the weekly target.
func AutoGenerate(in AutoGenerateInput) GenerationResult {
	if len(in.Meals) == 0 {
		return GenerationResult{Schedule: []model.ScheduleDay{}, Days: map[int]GeneratedDay{}, NoMeals: true}
	}

	cheat := in.CheatDay
	if cheat < 0 || cheat >= model.DaysPerWeek {
		cheat = -1
	}
	daysToSchedule := model.DaysPerWeek
	if cheat >= 0 {
		daysToSchedule--
	}

	dailyBudget := 0.0
	if in.WeeklyCalorieTarget > 0 {
		dailyBudget = math.Floor(in.WeeklyCalorieTarget / float64(daysToSchedule))
	}
	targetCalories := dailyBudget
	if targetCalories <= 0 {
		targetCalories = in.FallbackDailyCalories
	}
	targets := DailyMacroTargets(targetCalories, in.WeightKg)
	pools := BuildSlotPools(in.Meals)

	result := GenerationResult{
		Schedule:      make([]model.ScheduleDay, 0, model.DaysPerWeek),
		Days:          make(map[int]GeneratedDay, daysToSchedule),
		DaysScheduled: daysToSchedule,
		DailyBudget:   dailyBudget,
		WeeklyTarget:  math.Max(0, in.WeeklyCalorieTarget),
		Targets:       targets,
	}

	for i := 0; i < model.DaysPerWeek; i++ {
		day := EmptyDay(i)
		if i == cheat {
			day.CheatDay = true
			result.Schedule = append(result.Schedule, day)
			continue
		}

		plan := GenerateDay(pools, dailyBudget, targets, in.Rand)
		for slot, meal := range plan.Meals {
			if meal != nil {
				day.Slots[slot].MealID = meal.ID
			}
		}

		generated := GeneratedDay{
			Plan:        plan,
			UnderBudget: dailyBudget <= 0 || plan.Macros.Kcal <= dailyBudget,
			MinimumsMet: MeetsMinimums(plan.Macros, targets),
		}
		result.TotalCalories += plan.Macros.Kcal
		if generated.UnderBudget {
			result.UnderBudgetDays++
		}
		if generated.MinimumsMet {
			result.MacroMinDays++
		}
		if plan.Fallback {
			result.FallbackDays++
		}
		result.Days[i] = generated
		result.Schedule = append(result.Schedule, day)
	}
	return result
}

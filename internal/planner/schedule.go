package planner

import (
	"math"

	"github.com/saadjs/mealplan-cli/internal/model"
)

func DefaultSlotTime(kind model.SlotKind) string {
	switch kind {
	case model.SlotBreakfast:
		return "7:00 AM"
	case model.SlotLunch:
		return "1:00 PM"
	case model.SlotSnack:
		return "4:00 PM"
	case model.SlotDinner:
		return "7:00 PM"
	}
	return "-"
}

func EmptyDay(day int) model.ScheduleDay {
	d := model.ScheduleDay{Day: day}
	for i, kind := range model.SlotOrder {
		d.Slots[i] = model.Slot{Kind: kind, Time: DefaultSlotTime(kind)}
	}
	return d
}

func EmptyWeek() []model.ScheduleDay {
	days := make([]model.ScheduleDay, model.DaysPerWeek)
	for i := range days {
		days[i] = EmptyDay(i)
	}
	return days
}

// NormalizeSchedule converts a schedule to its canonical form: an empty slice
// when nothing is planned, otherwise exactly seven days with a single cheat day.
func NormalizeSchedule(days []model.ScheduleDay) []model.ScheduleDay {
	if !HasAnyPlan(days) {
		return []model.ScheduleDay{}
	}
	out := EmptyWeek()
	cheat := -1
	for _, day := range days {
		if day.Day < 0 || day.Day >= model.DaysPerWeek {
			continue
		}
		d := day
		for i, kind := range model.SlotOrder {
			d.Slots[i].Kind = kind
			if d.Slots[i].Time == "" {
				d.Slots[i].Time = DefaultSlotTime(kind)
			}
		}
		if d.CheatDay {
			if cheat >= 0 {
				d.CheatDay = false
			} else {
				cheat = d.Day
				clearSlots(&d)
			}
		}
		out[d.Day] = d
	}
	return out
}

// HasAnyPlan reports whether any day is a cheat day or has a slot with a meal.
func HasAnyPlan(days []model.ScheduleDay) bool {
	for _, day := range days {
		if day.CheatDay {
			return true
		}
		for _, slot := range day.Slots {
			if slot.MealID != "" {
				return true
			}
		}
	}
	return false
}

// WorkingWeek returns a seven-day copy suitable for editing. Each day lands at
// its own index; missing days are empty and out-of-range days are dropped.
func WorkingWeek(days []model.ScheduleDay) []model.ScheduleDay {
	out := EmptyWeek()
	for _, day := range days {
		if day.Day < 0 || day.Day >= model.DaysPerWeek {
			continue
		}
		out[day.Day] = day
	}
	return out
}

func CheatDayIndex(days []model.ScheduleDay) int {
	for i, day := range days {
		if day.CheatDay {
			return i
		}
	}
	return -1
}

// ToggleCheatDay unsets the cheat day if idx already is one; otherwise it
// makes idx the only cheat day and clears its slots.
func ToggleCheatDay(days []model.ScheduleDay, idx int) []model.ScheduleDay {
	out := WorkingWeek(days)
	if idx < 0 || idx >= len(out) {
		return out
	}
	if out[idx].CheatDay {
		out[idx].CheatDay = false
		return out
	}
	for i := range out {
		out[i].CheatDay = i == idx
	}
	clearSlots(&out[idx])
	return out
}

// ClearWeek empties every slot but keeps the cheat day designation.
func ClearWeek(days []model.ScheduleDay) []model.ScheduleDay {
	cheat := CheatDayIndex(days)
	out := EmptyWeek()
	if cheat >= 0 && cheat < len(out) {
		out[cheat].CheatDay = true
	}
	return out
}

func clearSlots(day *model.ScheduleDay) {
	for i := range day.Slots {
		day.Slots[i].MealID = ""
	}
}

func DayCalories(day model.ScheduleDay, byID map[string]model.Meal) float64 {
	total := 0.0
	for _, slot := range day.Slots {
		if meal, ok := byID[slot.MealID]; ok && slot.MealID != "" {
			total += meal.Macros().Kcal
		}
	}
	return math.Round(total)
}

func ScheduleCalories(days []model.ScheduleDay, meals []model.Meal, excludeCheatDay bool) float64 {
	return math.Round(ScheduleNutrition(days, meals, excludeCheatDay).Macros.Kcal)
}

type Nutrition struct {
	Macros   model.Macros
	DayCount int
}

// ScheduleNutrition sums macros over the schedule; dangling meal ids contribute nothing.
func ScheduleNutrition(days []model.ScheduleDay, meals []model.Meal, excludeCheatDay bool) Nutrition {
	byID := IndexMeals(meals)
	var out Nutrition
	for _, day := range days {
		if excludeCheatDay && day.CheatDay {
			continue
		}
		out.DayCount++
		for _, slot := range day.Slots {
			if slot.MealID == "" {
				continue
			}
			if meal, ok := byID[slot.MealID]; ok {
				out.Macros = out.Macros.Add(meal.Macros())
			}
		}
	}
	return out
}

// DayName returns the weekday label for a schedule position given the first weekday.
func DayName(startDay, position int) string {
	idx := ((startDay+position)%model.DaysPerWeek + model.DaysPerWeek) % model.DaysPerWeek
	return model.DayNames[idx]
}

type WeekSummary struct {
	WeeklyTarget      float64
	HasTarget         bool
	TotalCalories     float64
	Remaining         float64
	OverBudget        bool
	CheatDay          int
	CheatDayBudget    float64
	DayCount          int
	Totals            model.Macros
	DailyAverage      model.Macros
	DailyTargets      *MacroTargets
	TotalTargetProtG  float64
	TotalTargetCarbsG float64
	TotalTargetFatsG  float64
}

// SummarizeWeek computes the overview figures shown next to a schedule.
func SummarizeWeek(days []model.ScheduleDay, meals []model.Meal, profile model.Profile) WeekSummary {
	nutrition := ScheduleNutrition(days, meals, true)
	dayCount := nutrition.DayCount
	if dayCount < 1 {
		dayCount = 1
	}
	s := WeekSummary{
		TotalCalories: math.Round(nutrition.Macros.Kcal),
		CheatDay:      CheatDayIndex(days),
		DayCount:      dayCount,
		Totals:        nutrition.Macros,
		DailyAverage: model.Macros{
			Kcal:    math.Round(nutrition.Macros.Kcal / float64(dayCount)),
			Protein: nutrition.Macros.Protein / float64(dayCount),
			Carbs:   nutrition.Macros.Carbs / float64(dayCount),
			Lipids:  nutrition.Macros.Lipids / float64(dayCount),
		},
	}
	if daily := DailyCalorieTarget(profile); daily > 0 {
		t := DailyMacroTargets(daily, derefFloat(profile.WeightKg))
		s.DailyTargets = &t
		s.TotalTargetProtG = t.ProteinMinG * float64(dayCount)
		s.TotalTargetCarbsG = t.CarbsTargetG * float64(dayCount)
		s.TotalTargetFatsG = t.FatsMinG * float64(dayCount)
	}
	if weekly := WeeklyCalorieTarget(profile); weekly > 0 {
		s.HasTarget = true
		s.WeeklyTarget = weekly
		s.Remaining = weekly - s.TotalCalories
		s.OverBudget = s.Remaining < 0
		if s.CheatDay >= 0 && s.Remaining > 0 {
			s.CheatDayBudget = s.Remaining
		}
	}
	return s
}

// WeeklyCalorieTarget is seven times the recommended daily calories, or 0 when unset.
func WeeklyCalorieTarget(profile model.Profile) float64 {
	daily := derefFloat(profile.RecommendedCalories)
	if daily <= 0 {
		return 0
	}
	return daily * model.DaysPerWeek
}

// DailyCalorieTarget prefers recommended calories, then maintenance, else 0.
func DailyCalorieTarget(profile model.Profile) float64 {
	if v := derefFloat(profile.RecommendedCalories); v > 0 {
		return v
	}
	return derefFloat(profile.MaintenanceCalories)
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

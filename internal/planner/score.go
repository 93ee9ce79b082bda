package planner

import (
	"math"

	"github.com/saadjs/mealplan-cli/internal/model"
)

const ratioEpsilon = 1e-6

// DayScore is a penalty triple; lower is better in every component.
type DayScore struct {
	MinPenalty   float64
	RatioPenalty float64
	CalorieGap   float64
}

// ScoreDay scores one day's macro totals. A dailyBudget <= 0 means no budget.
func ScoreDay(m model.Macros, dailyBudget float64, targets MacroTargets) DayScore {
	proteinShortfall := math.Max(0, targets.ProteinMinG-m.Protein)
	fatsShortfall := math.Max(0, targets.FatsMinG-m.Lipids)

	kcal := math.Max(1, m.Kcal)
	proteinRatio := m.Protein * kcalPerGProtein / kcal
	carbsRatio := m.Carbs * kcalPerGCarbs / kcal
	fatsRatio := m.Lipids * kcalPerGFat / kcal

	ratioPenalty := math.Abs(proteinRatio-targets.ProteinRatio) +
		math.Abs(carbsRatio-targets.CarbsRatio) +
		math.Abs(fatsRatio-targets.FatsRatio)

	gap := 0.0
	if dailyBudget > 0 {
		gap = math.Max(0, dailyBudget-m.Kcal)
	}

	return DayScore{
		MinPenalty:   proteinShortfall + fatsShortfall,
		RatioPenalty: ratioPenalty,
		CalorieGap:   gap,
	}
}

// IsBetterScore orders scores lexicographically: minimum-macro shortfall, then
// ratio penalty (compared with a 1e-6 tolerance), then calorie gap.
// Any score beats a nil current.
func IsBetterScore(next DayScore, current *DayScore) bool {
	if current == nil {
		return true
	}
	if next.MinPenalty != current.MinPenalty {
		return next.MinPenalty < current.MinPenalty
	}
	if math.Abs(next.RatioPenalty-current.RatioPenalty) > ratioEpsilon {
		return next.RatioPenalty < current.RatioPenalty
	}
	return next.CalorieGap < current.CalorieGap
}

// MeetsMinimums reports whether both protein and fat floors are met.
func MeetsMinimums(m model.Macros, targets MacroTargets) bool {
	return m.Protein >= targets.ProteinMinG && m.Lipids >= targets.FatsMinG
}

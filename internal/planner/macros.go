package planner

import "math"

const (
	DefaultWeightKg      = 75.0
	DefaultDailyCalories = 2000.0

	proteinGPerKg   = 1.6
	fatTargetGPerKg = 0.8
	fatFloorGPerKg  = 0.6

	kcalPerGProtein = 4.0
	kcalPerGCarbs   = 4.0
	kcalPerGFat     = 9.0
)

type FatMode string

const (
	// FatModeStandard uses 0.8 g/kg of fat.
	FatModeStandard FatMode = "standard"
	// FatModeFloor is used when the standard fat target does not fit in the
	// calories left after protein; fat drops to min(floor, affordable).
	FatModeFloor FatMode = "floor"
)

type MacroTargets struct {
	Calories       float64
	WeightKg       float64
	ProteinMinG    float64
	FatsMinG       float64
	ProteinTargetG float64
	CarbsTargetG   float64
	FatsTargetG    float64
	ProteinRatio   float64
	CarbsRatio     float64
	FatsRatio      float64

	FatStandardG   float64
	FatFloorG      float64
	MaxAffordableG float64
	FatMode        FatMode
}

// DailyMacroTargets derives gram and calorie-ratio targets from a daily calorie
// budget and body weight. Missing or invalid inputs fall back to 2000 kcal / 75 kg.
func DailyMacroTargets(dailyCalories, weightKg float64) MacroTargets {
	weight := positiveOr(weightKg, DefaultWeightKg)
	calories := positiveOr(dailyCalories, DefaultDailyCalories)

	protein := math.Max(0, math.Round(weight*proteinGPerKg))
	proteinKcal := protein * kcalPerGProtein

	fatStandard := math.Max(0, math.Round(weight*fatTargetGPerKg))
	fatFloor := math.Max(0, math.Round(weight*fatFloorGPerKg))
	affordable := math.Max(0, math.Floor((calories-proteinKcal)/kcalPerGFat))

	fats := fatStandard
	mode := FatModeStandard
	if fats > affordable {
		fats = math.Max(math.Min(fatFloor, affordable), 0)
		mode = FatModeFloor
	}

	carbsKcal := math.Max(0, calories-proteinKcal-fats*kcalPerGFat)

	return MacroTargets{
		Calories:       calories,
		WeightKg:       weight,
		ProteinMinG:    protein,
		FatsMinG:       math.Min(fatFloor, affordable),
		ProteinTargetG: protein,
		CarbsTargetG:   math.Round(carbsKcal / kcalPerGCarbs),
		FatsTargetG:    fats,
		ProteinRatio:   proteinKcal / calories,
		CarbsRatio:     carbsKcal / calories,
		FatsRatio:      fats * kcalPerGFat / calories,
		FatStandardG:   fatStandard,
		FatFloorG:      fatFloor,
		MaxAffordableG: affordable,
		FatMode:        mode,
	}
}

func positiveOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}
	return v
}

package planner

import (
	"sort"

	"github.com/saadjs/mealplan-cli/internal/model"
)

// DayAttempts is the number of random samples drawn per generated day.
const DayAttempts = 500

// Rand is the random source used by the generator. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

type SlotPools struct {
	Breakfast []model.Meal
	Lunch     []model.Meal
	Snack     []model.Meal
	Dinner    []model.Meal
}

func (p SlotPools) For(kind model.SlotKind) []model.Meal {
	switch kind {
	case model.SlotBreakfast:
		return p.Breakfast
	case model.SlotLunch:
		return p.Lunch
	case model.SlotSnack:
		return p.Snack
	case model.SlotDinner:
		return p.Dinner
	}
	return nil
}

// BuildSlotPools groups meals by type. Lunch and dinner share one pool of
// lunch and dinner meals deduplicated by id. Any empty pool falls back to all meals.
func BuildSlotPools(meals []model.Meal) SlotPools {
	var breakfast, lunchDinner, snack []model.Meal
	var lunches, dinners []model.Meal
	for _, meal := range meals {
		switch {
		case meal.Type.Is(model.MealBreakfast):
			breakfast = append(breakfast, meal)
		case meal.Type.Is(model.MealLunch):
			lunches = append(lunches, meal)
		case meal.Type.Is(model.MealSnack):
			snack = append(snack, meal)
		case meal.Type.Is(model.MealDinner):
			dinners = append(dinners, meal)
		}
	}
	seen := map[string]bool{}
	for _, meal := range append(lunches, dinners...) {
		if meal.ID == "" || seen[meal.ID] {
			continue
		}
		seen[meal.ID] = true
		lunchDinner = append(lunchDinner, meal)
	}

	orAll := func(pool []model.Meal) []model.Meal {
		if len(pool) == 0 {
			return meals
		}
		return pool
	}
	return SlotPools{
		Breakfast: orAll(breakfast),
		Lunch:     orAll(lunchDinner),
		Snack:     orAll(snack),
		Dinner:    orAll(lunchDinner),
	}
}

type poolEntry struct {
	meal   *model.Meal
	macros model.Macros
}

func preparePool(meals []model.Meal) []poolEntry {
	out := make([]poolEntry, len(meals))
	for i := range meals {
		out[i] = poolEntry{meal: &meals[i], macros: meals[i].Macros()}
	}
	return out
}

// DayPlan is one generated day. A nil entry in Meals means the slot's pool was empty.
type DayPlan struct {
	Meals    [4]*model.Meal
	Macros   model.Macros
	Score    DayScore
	Fallback bool
}

// GenerateDay samples DayAttempts random assignments, discards any above
// dailyBudget, and keeps the best by IsBetterScore. When every sample is over
// budget it builds the day deterministically from the cheapest fitting meals.
// A dailyBudget <= 0 means no budget.
func GenerateDay(pools SlotPools, dailyBudget float64, targets MacroTargets, rng Rand) DayPlan {
	var prepared [4][]poolEntry
	for i, kind := range model.SlotOrder {
		prepared[i] = preparePool(pools.For(kind))
	}

	var best *DayPlan
	for attempt := 0; attempt < DayAttempts; attempt++ {
		var candidate DayPlan
		for i := range prepared {
			entry, ok := pick(prepared[i], rng)
			if !ok {
				continue
			}
			candidate.Meals[i] = entry.meal
			candidate.Macros = candidate.Macros.Add(entry.macros)
		}
		if dailyBudget > 0 && candidate.Macros.Kcal > dailyBudget {
			continue
		}
		candidate.Score = ScoreDay(candidate.Macros, dailyBudget, targets)
		var current *DayScore
		if best != nil {
			current = &best.Score
		}
		if IsBetterScore(candidate.Score, current) {
			c := candidate
			best = &c
		}
	}
	if best != nil {
		return *best
	}
	return fallbackDay(prepared, dailyBudget, targets, rng)
}

func fallbackDay(prepared [4][]poolEntry, dailyBudget float64, targets MacroTargets, rng Rand) DayPlan {
	plan := DayPlan{Fallback: true}
	running := 0.0
	for i := range prepared {
		pool := append([]poolEntry(nil), prepared[i]...)
		sort.SliceStable(pool, func(a, b int) bool {
			return pool[a].macros.Kcal < pool[b].macros.Kcal
		})

		var chosen *poolEntry
		for j := range pool {
			if dailyBudget <= 0 || running+pool[j].macros.Kcal <= dailyBudget {
				chosen = &pool[j]
				break
			}
		}
		if chosen == nil {
			if entry, ok := pick(pool, rng); ok {
				chosen = &entry
			}
		}
		if chosen == nil {
			continue
		}
		running += chosen.macros.Kcal
		plan.Meals[i] = chosen.meal
		plan.Macros = plan.Macros.Add(chosen.macros)
	}
	plan.Score = ScoreDay(plan.Macros, dailyBudget, targets)
	return plan
}

func pick(pool []poolEntry, rng Rand) (poolEntry, bool) {
	if len(pool) == 0 {
		return poolEntry{}, false
	}
	return pool[rng.Intn(len(pool))], true
}

package planner_test

import (
	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/planner"
)

// fixedMeal builds a meal whose macros equal the given values via one unit ingredient.
func fixedMeal(id string, mealType model.MealType, kcal, protein, carbs, fat float64) model.Meal {
	return model.Meal{
		ID:   id,
		Name: id,
		Type: mealType,
		Ingredients: []model.QuantifiedIngredient{{
			Ingredient: model.Ingredient{
				ID:             "ing-" + id,
				Name:           "ingredient " + id,
				Category:       "Test",
				Unit:           "portion",
				Kcal:           kcal,
				ProteinPerUnit: protein,
				CarbsPerUnit:   carbs,
				LipidsPerUnit:  fat,
			},
			Quantity: 1,
		}},
	}
}

func dayWith(day int, mealIDs ...string) model.ScheduleDay {
	d := planner.EmptyDay(day)
	for i, id := range mealIDs {
		if i < len(d.Slots) {
			d.Slots[i].MealID = id
		}
	}
	return d
}

// scriptedRand replays a fixed sequence of picks, reduced modulo n.
type scriptedRand struct {
	values []int
	pos    int
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.pos%len(r.values)]
	r.pos++
	return v % n
}

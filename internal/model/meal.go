package model

import (
	"math"
	"strings"
	"time"
)

type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealSnack     MealType = "Snack"
	MealDinner    MealType = "Dinner"
)

var MealTypes = []MealType{MealBreakfast, MealLunch, MealSnack, MealDinner}

// ParseMealType accepts any casing of the four known meal types.
func ParseMealType(value string) (MealType, bool) {
	value = strings.TrimSpace(value)
	for _, t := range MealTypes {
		if strings.EqualFold(value, string(t)) {
			return t, true
		}
	}
	return "", false
}

// Is compares meal types case-insensitively; stored types are free-form strings.
func (t MealType) Is(other MealType) bool {
	return strings.EqualFold(strings.TrimSpace(string(t)), string(other))
}

type Macros struct {
	Kcal    float64 `json:"kcal" yaml:"kcal"`
	Protein float64 `json:"protein" yaml:"protein"`
	Carbs   float64 `json:"carbs" yaml:"carbs"`
	Lipids  float64 `json:"lipids" yaml:"lipids"`
}

func (m Macros) Add(o Macros) Macros {
	return Macros{
		Kcal:    m.Kcal + o.Kcal,
		Protein: m.Protein + o.Protein,
		Carbs:   m.Carbs + o.Carbs,
		Lipids:  m.Lipids + o.Lipids,
	}
}

// Ingredient holds per-unit nutrition coefficients. Values are replaced, never mutated.
type Ingredient struct {
	ID             string
	Name           string
	Category       string
	Unit           string
	Kcal           float64
	ProteinPerUnit float64
	CarbsPerUnit   float64
	LipidsPerUnit  float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (i Ingredient) MacrosFor(quantity float64) Macros {
	qty := SafeQuantity(quantity)
	return Macros{
		Kcal:    Round2(i.Kcal * qty),
		Protein: Round2(i.ProteinPerUnit * qty),
		Carbs:   Round2(i.CarbsPerUnit * qty),
		Lipids:  Round2(i.LipidsPerUnit * qty),
	}
}

type QuantifiedIngredient struct {
	Ingredient Ingredient
	Quantity   float64
	// Missing is set when the referenced ingredient no longer exists in the catalog.
	Missing bool
}

func (q QuantifiedIngredient) Macros() Macros {
	return q.Ingredient.MacrosFor(q.Quantity)
}

type InstructionBlock struct {
	Name  string   `json:"name" yaml:"name"`
	Steps []string `json:"steps" yaml:"steps"`
}

type Meal struct {
	ID           string
	Name         string
	Type         MealType
	Ingredients  []QuantifiedIngredient
	Instructions []InstructionBlock
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Macros sums ingredient macros without rounding the total.
func (m Meal) Macros() Macros {
	var total Macros
	for _, entry := range m.Ingredients {
		total = total.Add(entry.Macros())
	}
	return total
}

// SafeQuantity maps negative and non-finite quantities to zero.
func SafeQuantity(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

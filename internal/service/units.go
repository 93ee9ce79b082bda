package service

import (
	"fmt"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/model"
)

type unitKind string

const (
	unitKindMass   unitKind = "mass"
	unitKindVolume unitKind = "volume"
)

type unitDef struct {
	kind       unitKind
	toBaseUnit float64
}

var unitTable = map[string]unitDef{
	// mass (base = g)
	"mg":  {kind: unitKindMass, toBaseUnit: 0.001},
	"g":   {kind: unitKindMass, toBaseUnit: 1},
	"kg":  {kind: unitKindMass, toBaseUnit: 1000},
	"oz":  {kind: unitKindMass, toBaseUnit: 28.349523125},
	"lb":  {kind: unitKindMass, toBaseUnit: 453.59237},
	"lbs": {kind: unitKindMass, toBaseUnit: 453.59237},

	// volume (base = ml)
	"ml":    {kind: unitKindVolume, toBaseUnit: 1},
	"l":     {kind: unitKindVolume, toBaseUnit: 1000},
	"tsp":   {kind: unitKindVolume, toBaseUnit: 4.92892159375},
	"tbsp":  {kind: unitKindVolume, toBaseUnit: 14.78676478125},
	"cup":   {kind: unitKindVolume, toBaseUnit: 236.5882365},
	"fl-oz": {kind: unitKindVolume, toBaseUnit: 29.5735295625},
}

// ConvertQuantity converts between units of the same dimension. Units that are
// not in the table (piece, slice, ...) only convert to themselves.
func ConvertQuantity(value float64, fromUnit, toUnit string) (float64, error) {
	if value <= 0 {
		return 0, fmt.Errorf("quantity must be > 0")
	}
	if strings.EqualFold(strings.TrimSpace(fromUnit), strings.TrimSpace(toUnit)) {
		return value, nil
	}
	from, ok := resolveUnit(fromUnit)
	if !ok {
		return 0, fmt.Errorf("unsupported unit %q", fromUnit)
	}
	to, ok := resolveUnit(toUnit)
	if !ok {
		return 0, fmt.Errorf("cannot convert %s to %q", fromUnit, toUnit)
	}
	if from.kind != to.kind {
		return 0, fmt.Errorf("cannot convert %s (%s) to %s (%s)", fromUnit, from.kind, toUnit, to.kind)
	}
	return value * from.toBaseUnit / to.toBaseUnit, nil
}

// QuantityInIngredientUnit expresses value (given in unit) in the unit the
// ingredient's macros refer to. An empty unit means the ingredient's own unit.
func QuantityInIngredientUnit(ing model.Ingredient, value float64, unit string) (float64, error) {
	if strings.TrimSpace(unit) == "" {
		return value, nil
	}
	qty, err := ConvertQuantity(value, unit, ing.Unit)
	if err != nil {
		return 0, fmt.Errorf("ingredient %q: %w", ing.Name, err)
	}
	return qty, nil
}

// DisplayQuantity scales gram and millilitre totals of 1000 or more to kg and l.
func DisplayQuantity(value float64, unit string) (float64, string) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g":
		if value >= 1000 {
			return model.Round2(value / 1000), "kg"
		}
	case "ml":
		if value >= 1000 {
			return model.Round2(value / 1000), "l"
		}
	}
	return value, unit
}

func resolveUnit(unit string) (unitDef, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	def, ok := unitTable[u]
	return def, ok
}

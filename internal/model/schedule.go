package model

type SlotKind string

const (
	SlotBreakfast SlotKind = "breakfast"
	SlotLunch     SlotKind = "lunch"
	SlotSnack     SlotKind = "snack"
	SlotDinner    SlotKind = "dinner"
)

// SlotOrder is the fixed order of the four daily slots.
var SlotOrder = [4]SlotKind{SlotBreakfast, SlotLunch, SlotSnack, SlotDinner}

func ParseSlotKind(value string) (SlotKind, int, bool) {
	for i, kind := range SlotOrder {
		if string(kind) == value {
			return kind, i, true
		}
	}
	return "", -1, false
}

// Slot holds a meal reference; an empty MealID means the slot is unset.
type Slot struct {
	Kind   SlotKind `json:"slot" yaml:"slot"`
	MealID string   `json:"meal_id,omitempty" yaml:"meal_id,omitempty"`
	Time   string   `json:"time" yaml:"time"`
}

type ScheduleDay struct {
	Day      int     `json:"day" yaml:"day"`
	Slots    [4]Slot `json:"slots" yaml:"slots"`
	CheatDay bool    `json:"is_cheat_day" yaml:"is_cheat_day"`
}

const DaysPerWeek = 7

var DayNames = [DaysPerWeek]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type ShoppingItem struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Unit     string  `json:"unit" yaml:"unit"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Category string  `json:"category" yaml:"category"`
}

type ShoppingCategory struct {
	Category string         `json:"category" yaml:"category"`
	Items    []ShoppingItem `json:"items" yaml:"items"`
}

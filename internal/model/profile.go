package model

import "time"

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Profile numeric fields are nil until the user provides them.
type Profile struct {
	Age                 *int
	Sex                 Sex
	WeightKg            *float64
	HeightCm            *float64
	ActivityLevel       float64
	GoalWeightKg        *float64
	GoalMonths          *int
	MaintenanceCalories *float64
	RecommendedCalories *float64
	UpdatedAt           time.Time
}

const DefaultActivityLevel = 1.55

func DefaultProfile() Profile {
	return Profile{Sex: SexMale, ActivityLevel: DefaultActivityLevel}
}

type Supplement struct {
	ID     string
	Name   string
	Timing string
	Dosage string
	Note   string
}

type TrackerState struct {
	Day          string
	Completed    map[string]bool
	WaterMl      int
	BottleSizeMl int
}

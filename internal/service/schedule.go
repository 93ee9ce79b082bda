package service

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/saadjs/mealplan-cli/internal/logger"
	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/planner"
	"go.uber.org/zap"
)

// ErrNoMeals is returned when generation is requested with an empty catalog.
var ErrNoMeals = errors.New("no meals in the catalog; add meals before generating a schedule")

// LoadSchedule returns the canonical schedule: empty when nothing is planned,
// otherwise seven days.
func LoadSchedule(db sqlExecutor) ([]model.ScheduleDay, error) {
	rows, err := db.Query(`SELECT day, is_cheat_day FROM schedule_days ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("load schedule days: %w", err)
	}
	days := make([]model.ScheduleDay, 0, model.DaysPerWeek)
	index := map[int]int{}
	for rows.Next() {
		var day, cheat int
		if err := rows.Scan(&day, &cheat); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan schedule day: %w", err)
		}
		d := planner.EmptyDay(day)
		d.CheatDay = cheat == 1
		index[day] = len(days)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate schedule days: %w", err)
	}
	_ = rows.Close()

	slotRows, err := db.Query(`SELECT day, position, IFNULL(meal_id,''), time_label FROM schedule_slots ORDER BY day, position`)
	if err != nil {
		return nil, fmt.Errorf("load schedule slots: %w", err)
	}
	defer slotRows.Close()
	for slotRows.Next() {
		var day, pos int
		var mealID, timeLabel string
		if err := slotRows.Scan(&day, &pos, &mealID, &timeLabel); err != nil {
			return nil, fmt.Errorf("scan schedule slot: %w", err)
		}
		i, ok := index[day]
		if !ok || pos < 0 || pos >= len(model.SlotOrder) {
			continue
		}
		days[i].Slots[pos].MealID = mealID
		if timeLabel != "" {
			days[i].Slots[pos].Time = timeLabel
		}
	}
	if err := slotRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule slots: %w", err)
	}
	return planner.NormalizeSchedule(days), nil
}

// SaveSchedule replaces the stored schedule with the canonical form of days.
func SaveSchedule(db *sql.DB, days []model.ScheduleDay) error {
	return withTx(db, "save schedule", func(tx *sql.Tx) error {
		return writeSchedule(tx, days)
	})
}

func writeSchedule(db sqlExecutor, days []model.ScheduleDay) error {
	canonical := planner.NormalizeSchedule(days)
	if _, err := db.Exec(`DELETE FROM schedule_slots`); err != nil {
		return fmt.Errorf("clear schedule slots: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM schedule_days`); err != nil {
		return fmt.Errorf("clear schedule days: %w", err)
	}
	for _, day := range canonical {
		cheat := 0
		if day.CheatDay {
			cheat = 1
		}
		if _, err := db.Exec(`INSERT INTO schedule_days(day, is_cheat_day) VALUES(?, ?)`, day.Day, cheat); err != nil {
			return fmt.Errorf("insert schedule day %d: %w", day.Day, err)
		}
		for pos, slot := range day.Slots {
			var mealID any
			if slot.MealID != "" {
				mealID = slot.MealID
			}
			if _, err := db.Exec(`INSERT INTO schedule_slots(day, position, slot, meal_id, time_label) VALUES(?, ?, ?, ?, ?)`,
				day.Day, pos, string(slot.Kind), mealID, slot.Time); err != nil {
				return fmt.Errorf("insert schedule slot %d/%s: %w", day.Day, slot.Kind, err)
			}
		}
	}
	return nil
}

type SetSlotInput struct {
	Day  int
	Slot string
	// MealRef is a meal id or name; empty clears the slot.
	MealRef string
	Time    string
}

func SetSlot(db *sql.DB, in SetSlotInput) error {
	if in.Day < 0 || in.Day >= model.DaysPerWeek {
		return fmt.Errorf("day must be between 0 and %d", model.DaysPerWeek-1)
	}
	_, pos, ok := model.ParseSlotKind(strings.ToLower(strings.TrimSpace(in.Slot)))
	if !ok {
		return fmt.Errorf("invalid slot %q (expected breakfast, lunch, snack or dinner)", in.Slot)
	}
	mealID := ""
	if ref := strings.TrimSpace(in.MealRef); ref != "" && ref != "-" {
		id, err := resolveID(db, "meals", "meal", ref)
		if err != nil {
			return err
		}
		mealID = id
	}

	days, err := LoadSchedule(db)
	if err != nil {
		return err
	}
	week := planner.WorkingWeek(days)
	if week[in.Day].CheatDay && mealID != "" {
		return fmt.Errorf("%s is the cheat day; toggle it off before assigning meals", model.DayNames[in.Day])
	}
	week[in.Day].Slots[pos].MealID = mealID
	if t := strings.TrimSpace(in.Time); t != "" {
		week[in.Day].Slots[pos].Time = t
	}
	return SaveSchedule(db, week)
}

// ToggleCheatDay flips the cheat-day flag on day and reports whether it is now set.
func ToggleCheatDay(db *sql.DB, day int) (bool, error) {
	if day < 0 || day >= model.DaysPerWeek {
		return false, fmt.Errorf("day must be between 0 and %d", model.DaysPerWeek-1)
	}
	days, err := LoadSchedule(db)
	if err != nil {
		return false, err
	}
	week := planner.ToggleCheatDay(days, day)
	if err := SaveSchedule(db, week); err != nil {
		return false, err
	}
	return week[day].CheatDay, nil
}

// ClearSchedule empties every slot, keeping the cheat day.
func ClearSchedule(db *sql.DB) error {
	days, err := LoadSchedule(db)
	if err != nil {
		return err
	}
	return SaveSchedule(db, planner.ClearWeek(days))
}

type GenerateOptions struct {
	// Seed fixes the random source; 0 uses the current time.
	Seed int64
	// Rand overrides Seed when set.
	Rand planner.Rand
}

// GenerateSchedule replaces the week with an auto-generated plan built from
// the catalog and the profile's calorie target, and persists it.
func GenerateSchedule(db *sql.DB, opts GenerateOptions) (planner.GenerationResult, error) {
	meals, err := ListMeals(db)
	if err != nil {
		return planner.GenerationResult{}, err
	}
	if len(meals) == 0 {
		return planner.GenerationResult{NoMeals: true}, ErrNoMeals
	}
	profile, err := GetProfile(db)
	if err != nil {
		return planner.GenerationResult{}, err
	}
	current, err := LoadSchedule(db)
	if err != nil {
		return planner.GenerationResult{}, err
	}

	rng := opts.Rand
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	fallbackDaily := planner.DailyCalorieTarget(profile)
	if fallbackDaily <= 0 {
		fallbackDaily = planner.DefaultDailyCalories
	}
	result := planner.AutoGenerate(planner.AutoGenerateInput{
		Meals:                 meals,
		CheatDay:              planner.CheatDayIndex(current),
		WeeklyCalorieTarget:   planner.WeeklyCalorieTarget(profile),
		WeightKg:              ProfileWeight(profile),
		FallbackDailyCalories: fallbackDaily,
		Rand:                  rng,
	})
	if result.NoMeals {
		return result, ErrNoMeals
	}
	if err := SaveSchedule(db, result.Schedule); err != nil {
		return result, err
	}

	logger.Debug("schedule generated",
		zap.Int("meals", len(meals)),
		zap.Int("days", result.DaysScheduled),
		zap.Float64("daily_budget", result.DailyBudget),
		zap.Float64("total_kcal", result.TotalCalories),
	)
	if result.FallbackDays > 0 {
		logger.Warn("no in-budget combination found for some days; used lowest-calorie fallback",
			zap.Int("fallback_days", result.FallbackDays),
			zap.Float64("daily_budget", result.DailyBudget),
		)
	}
	return result, nil
}

type ScheduleSummary struct {
	Days  []model.ScheduleDay
	Meals map[string]model.Meal
	Week  planner.WeekSummary
}

func GetScheduleSummary(db sqlExecutor) (ScheduleSummary, error) {
	days, err := LoadSchedule(db)
	if err != nil {
		return ScheduleSummary{}, err
	}
	meals, err := ListMeals(db)
	if err != nil {
		return ScheduleSummary{}, err
	}
	profile, err := GetProfile(db)
	if err != nil {
		return ScheduleSummary{}, err
	}
	return ScheduleSummary{
		Days:  days,
		Meals: planner.IndexMeals(meals),
		Week:  planner.SummarizeWeek(days, meals, profile),
	}, nil
}

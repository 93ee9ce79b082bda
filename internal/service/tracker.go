package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/saadjs/mealplan-cli/internal/model"
)

const (
	DefaultBottleSizeMl = 750
	MinBottleSizeMl     = 100
	MaxBottleSizeMl     = 2000

	waterMlPerKg      = 35.0
	proteinGPerKg     = 1.6
	waterOverGoalCap  = 1000
	proteinSupplement = "protein"
)

type TrackerOptions struct {
	// Today is the local date key (YYYY-MM-DD); empty means time.Now().
	Today           string
	DefaultBottleMl int
}

func (o TrackerOptions) today() string {
	if o.Today != "" {
		return o.Today
	}
	return time.Now().Format("2006-01-02")
}

func (o TrackerOptions) defaultBottle() int {
	if o.DefaultBottleMl >= MinBottleSizeMl && o.DefaultBottleMl <= MaxBottleSizeMl {
		return o.DefaultBottleMl
	}
	return DefaultBottleSizeMl
}

type TrackerView struct {
	State          model.TrackerState
	Supplements    []model.Supplement
	WaterGoalMl    int
	ProteinGoalG   int
	CompletedCount int
	// WaterProgress is consumed/goal capped at 1.
	WaterProgress float64
	// ProgressPct counts water as one extra item next to the supplements.
	ProgressPct int
}

func GetTracker(db sqlExecutor, opts TrackerOptions) (TrackerView, error) {
	state, err := loadTrackerState(db, opts)
	if err != nil {
		return TrackerView{}, err
	}
	return buildTrackerView(db, state)
}

func buildTrackerView(db sqlExecutor, state model.TrackerState) (TrackerView, error) {
	profile, err := GetProfile(db)
	if err != nil {
		return TrackerView{}, err
	}
	supplements, err := ListSupplements(db)
	if err != nil {
		return TrackerView{}, err
	}
	weight := ProfileWeight(profile)
	view := TrackerView{
		State:        state,
		WaterGoalMl:  int(math.Round(weight * waterMlPerKg)),
		ProteinGoalG: int(math.Round(weight * proteinGPerKg)),
	}
	for i := range supplements {
		if supplements[i].ID == proteinSupplement {
			supplements[i].Dosage = fmt.Sprintf("%d g total", view.ProteinGoalG)
		}
		if state.Completed[supplements[i].ID] {
			view.CompletedCount++
		}
	}
	view.Supplements = supplements
	if view.WaterGoalMl > 0 {
		view.WaterProgress = math.Min(float64(state.WaterMl)/float64(view.WaterGoalMl), 1)
	}
	view.ProgressPct = int(math.Round((float64(view.CompletedCount) + view.WaterProgress) / float64(len(supplements)+1) * 100))
	return view, nil
}

func ListSupplements(db sqlExecutor) ([]model.Supplement, error) {
	rows, err := db.Query(`SELECT id, name, timing, dosage, note FROM supplements ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list supplements: %w", err)
	}
	defer rows.Close()
	out := make([]model.Supplement, 0)
	for rows.Next() {
		var s model.Supplement
		if err := rows.Scan(&s.ID, &s.Name, &s.Timing, &s.Dosage, &s.Note); err != nil {
			return nil, fmt.Errorf("scan supplement: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate supplements: %w", err)
	}
	return out, nil
}

// loadTrackerState returns today's state. A state stored for another day
// keeps its bottle size and starts with nothing completed and no water.
func loadTrackerState(db sqlExecutor, opts TrackerOptions) (model.TrackerState, error) {
	today := opts.today()
	state := model.TrackerState{Day: today, Completed: map[string]bool{}, BottleSizeMl: opts.defaultBottle()}
	var completedRaw string
	err := db.QueryRow(`SELECT day, completed_json, water_ml, bottle_size_ml FROM tracker_state WHERE id = 1`).
		Scan(&state.Day, &completedRaw, &state.WaterMl, &state.BottleSizeMl)
	if err == sql.ErrNoRows {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("load tracker state: %w", err)
	}
	if err := json.Unmarshal([]byte(completedRaw), &state.Completed); err != nil || state.Completed == nil {
		state.Completed = map[string]bool{}
	}
	if state.Day != today {
		state.Day = today
		state.Completed = map[string]bool{}
		state.WaterMl = 0
	}
	return state, nil
}

func saveTrackerState(db sqlExecutor, state model.TrackerState) error {
	raw, err := json.Marshal(state.Completed)
	if err != nil {
		return fmt.Errorf("encode tracker state: %w", err)
	}
	_, err = db.Exec(`
INSERT INTO tracker_state(id, day, completed_json, water_ml, bottle_size_ml)
VALUES(1, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET day=excluded.day, completed_json=excluded.completed_json, water_ml=excluded.water_ml, bottle_size_ml=excluded.bottle_size_ml
`, state.Day, string(raw), state.WaterMl, state.BottleSizeMl)
	if err != nil {
		return fmt.Errorf("save tracker state: %w", err)
	}
	return nil
}

func updateTracker(db *sql.DB, opts TrackerOptions, fn func(*model.TrackerState, TrackerView) error) (TrackerView, error) {
	state, err := loadTrackerState(db, opts)
	if err != nil {
		return TrackerView{}, err
	}
	view, err := buildTrackerView(db, state)
	if err != nil {
		return TrackerView{}, err
	}
	if err := fn(&state, view); err != nil {
		return TrackerView{}, err
	}
	if err := saveTrackerState(db, state); err != nil {
		return TrackerView{}, err
	}
	return buildTrackerView(db, state)
}

// ToggleSupplement flips today's completion for a supplement id or name.
func ToggleSupplement(db *sql.DB, opts TrackerOptions, ref string) (TrackerView, error) {
	return updateTracker(db, opts, func(state *model.TrackerState, view TrackerView) error {
		ref = strings.TrimSpace(ref)
		for _, s := range view.Supplements {
			if s.ID == ref || strings.EqualFold(s.Name, ref) {
				if state.Completed[s.ID] {
					delete(state.Completed, s.ID)
				} else {
					state.Completed[s.ID] = true
				}
				return nil
			}
		}
		return fmt.Errorf("supplement %q not found", ref)
	})
}

// AdjustWater adds (bottles > 0) or removes (bottles < 0) whole bottles. Intake
// never drops below zero or rises above the goal plus 1000 ml.
func AdjustWater(db *sql.DB, opts TrackerOptions, bottles int) (TrackerView, error) {
	if bottles == 0 {
		return TrackerView{}, fmt.Errorf("bottles must not be 0")
	}
	return updateTracker(db, opts, func(state *model.TrackerState, view TrackerView) error {
		next := state.WaterMl + bottles*state.BottleSizeMl
		if limit := view.WaterGoalMl + waterOverGoalCap; next > limit {
			next = limit
		}
		if next < 0 {
			next = 0
		}
		state.WaterMl = next
		return nil
	})
}

func SetBottleSize(db *sql.DB, opts TrackerOptions, ml int) (TrackerView, error) {
	if ml < MinBottleSizeMl || ml > MaxBottleSizeMl {
		return TrackerView{}, fmt.Errorf("bottle size must be between %d and %d ml", MinBottleSizeMl, MaxBottleSizeMl)
	}
	return updateTracker(db, opts, func(state *model.TrackerState, _ TrackerView) error {
		state.BottleSizeMl = ml
		return nil
	})
}

// ResetTracker restores today's defaults, including the bottle size.
func ResetTracker(db *sql.DB, opts TrackerOptions) (TrackerView, error) {
	state := model.TrackerState{Day: opts.today(), Completed: map[string]bool{}, BottleSizeMl: opts.defaultBottle()}
	if err := saveTrackerState(db, state); err != nil {
		return TrackerView{}, err
	}
	return buildTrackerView(db, state)
}

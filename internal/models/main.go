// Package models defines the core data structures for users, program stages,
// daily entries and the personal product catalog.
package models

// DateLayout is the layout of every calendar date stored or exchanged by the journal.
const DateLayout = "2006-01-02"

// User represents a journal owner. Users are identified by username only.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id" db:"id"`
	// Username is the case-sensitive login name.
	Username string `json:"username" db:"username"`
}

// Stage is a bounded period of a user's program, such as a diet phase.
type Stage struct {
	ID        int64  `json:"id" db:"id"`
	UserID    int64  `json:"user_id" db:"user_id"`
	StageType string `json:"stage_type" db:"stage_type"`
	StartDate string `json:"start_date" db:"start_date"`
	// EndDate is set when the stage is completed.
	EndDate       *string `json:"end_date" db:"end_date"`
	InitialWeight float64 `json:"initial_weight" db:"initial_weight"`
	Completed     bool    `json:"completed" db:"completed"`
}

// Entry is one day's recorded measurements and meals for a user within a stage.
type Entry struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	StageID     int64       `json:"stage_id"`
	EntryDate   string      `json:"entry_date"`
	DailyParams DailyParams `json:"daily_params"`
	Meals       []Meal      `json:"meals"`
}

// Product is a named food item with its calorie density, kept per user.
type Product struct {
	ID              int64   `json:"id" db:"id"`
	UserID          int64   `json:"user_id" db:"user_id"`
	Name            string  `json:"product_name" db:"product_name"`
	CaloriesPer100g float64 `json:"calories_per_100g" db:"calories_per_100g"`
}

// WeightStat is the weight-related slice of one entry's daily parameters.
type WeightStat struct {
	Date       string   `json:"date"`
	Weight     *float64 `json:"weight"`
	NextWeight *float64 `json:"next_weight"`
	LostWeight *float64 `json:"lost_weight"`
}

// WeightSummary aggregates morning weights over a window of entries.
type WeightSummary struct {
	Days   int     `json:"days"`
	First  float64 `json:"first"`
	Last   float64 `json:"last"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Change float64 `json:"change"`
}

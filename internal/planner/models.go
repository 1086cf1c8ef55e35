// Package planner builds weekly meal plans from a user's physiology and a food catalog.
//
// The package is pure: it performs no I/O beyond the single CatalogReader call and
// keeps no global state. Randomness comes from an injected *rand.Rand.
package planner

import "time"

// Slot is one of the four daily meal slots.
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
	SlotSnacks    Slot = "snacks"
)

// Slots lists meal slots in the order they are filled each day.
var Slots = [...]Slot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnacks}

func (s Slot) Valid() bool {
	switch s {
	case SlotBreakfast, SlotLunch, SlotDinner, SlotSnacks:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMaintenance Goal = "maintenance"
	GoalWeightGain  Goal = "weight_gain"
)

type DietType string

const (
	DietVeg      DietType = "veg"
	DietNonVeg   DietType = "non_veg"
	DietVegan    DietType = "vegan"
	DietKeto     DietType = "keto"
	DietPaleo    DietType = "paleo"
	DietBalanced DietType = "balanced"
)

// DietTypes lists every recognised diet tag.
var DietTypes = [...]DietType{DietVeg, DietNonVeg, DietVegan, DietKeto, DietPaleo, DietBalanced}

func (d DietType) Valid() bool {
	for _, v := range DietTypes {
		if d == v {
			return true
		}
	}
	return false
}

// Profile is the physiology and preference input for one generation.
type Profile struct {
	WeightKg      float64
	HeightCm      float64
	Age           int
	Gender        Gender
	ActivityLevel ActivityLevel
	Goal          Goal
	DietType      DietType
	// CaloriesTarget overrides the computed daily target when positive.
	CaloriesTarget int
}

// FoodItem is a catalog entry.
type FoodItem struct {
	ID        string
	Name      string
	Calories  int
	ProteinG  float64
	CarbsG    float64
	FatG      float64
	MealTypes []Slot
	DietType  DietType
}

// MealEntry is a value copy of a FoodItem taken at generation time.
type MealEntry struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein"`
	CarbsG   float64 `json:"carbs"`
	FatG     float64 `json:"fat"`
}

func entryFromFood(f FoodItem) MealEntry {
	return MealEntry{
		Name:     f.Name,
		Calories: f.Calories,
		ProteinG: f.ProteinG,
		CarbsG:   f.CarbsG,
		FatG:     f.FatG,
	}
}

type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// DailyPlan is one day of a WeeklyPlan.
type DailyPlan struct {
	Day           string               `json:"day"`
	Meals         map[Slot][]MealEntry `json:"meals"`
	TotalCalories int                  `json:"total_calories"`
	Macros        Macros               `json:"macros"`
	Description   string               `json:"description,omitempty"`
}

// WeeklyPlan holds seven DailyPlans, Monday first.
type WeeklyPlan struct {
	DailyTarget int         `json:"daily_target"`
	Days        []DailyPlan `json:"days"`
}

// Week is the generation order of days.
var Week = [...]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// DayIndex maps a date to its position in Week (Monday = 0).
func DayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

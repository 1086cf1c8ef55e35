package profiles

import (
	"fmt"
	"strings"

	"github.com/fdg312/diet-planner/internal/planner"
	"github.com/fdg312/diet-planner/internal/storage"
)

const (
	minAge            = 13
	maxAge            = 100
	maxHeightCm       = 300
	maxWeightKg       = 500
	maxNameLen        = 100
	minCaloriesTarget = 1200
	maxCaloriesTarget = 6000
)

// ValidationError: ошибка валидации конкретного поля
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func applyDefaults(p *storage.Profile) {
	if p.Gender == "" {
		p.Gender = string(planner.GenderMale)
	}
	if p.ActivityLevel == "" {
		p.ActivityLevel = string(planner.ActivityModerate)
	}
	if p.Goal == "" {
		p.Goal = string(planner.GoalMaintenance)
	}
	if p.DietType == "" {
		p.DietType = string(planner.DietBalanced)
	} else {
		p.DietType = string(planner.CanonicalDiet(p.DietType))
	}
}

func validateProfile(p storage.Profile) error {
	name := strings.TrimSpace(p.Name)
	if name == "" || len(name) > maxNameLen {
		return invalid("name", "must be 1..%d characters", maxNameLen)
	}
	if p.Age < minAge || p.Age > maxAge {
		return invalid("age", "must be between %d and %d", minAge, maxAge)
	}
	if p.HeightCm <= 0 || p.HeightCm > maxHeightCm {
		return invalid("height_cm", "must be in (0, %d]", maxHeightCm)
	}
	if p.WeightKg <= 0 || p.WeightKg > maxWeightKg {
		return invalid("weight_kg", "must be in (0, %d]", maxWeightKg)
	}
	switch planner.Gender(p.Gender) {
	case planner.GenderMale, planner.GenderFemale:
	default:
		return invalid("gender", "must be male or female")
	}
	switch planner.ActivityLevel(p.ActivityLevel) {
	case planner.ActivitySedentary, planner.ActivityLight, planner.ActivityModerate, planner.ActivityActive, planner.ActivityVeryActive:
	default:
		return invalid("activity_level", "must be one of sedentary, light, moderate, active, very_active")
	}
	switch planner.Goal(p.Goal) {
	case planner.GoalWeightLoss, planner.GoalMaintenance, planner.GoalWeightGain:
	default:
		return invalid("goal", "must be one of weight_loss, maintenance, weight_gain")
	}
	if !planner.DietType(p.DietType).Valid() {
		return invalid("diet_type", "must be one of veg, non_veg, vegan, keto, paleo, balanced")
	}
	if p.CaloriesTarget != nil && (*p.CaloriesTarget < minCaloriesTarget || *p.CaloriesTarget > maxCaloriesTarget) {
		return invalid("calories_target", "must be between %d and %d", minCaloriesTarget, maxCaloriesTarget)
	}
	return nil
}

// ToPlannerProfile maps a stored profile onto the generator input.
func ToPlannerProfile(p storage.Profile) planner.Profile {
	out := planner.Profile{
		WeightKg:      p.WeightKg,
		HeightCm:      p.HeightCm,
		Age:           p.Age,
		Gender:        planner.Gender(p.Gender),
		ActivityLevel: planner.ActivityLevel(p.ActivityLevel),
		Goal:          planner.Goal(p.Goal),
		DietType:      planner.DietType(p.DietType),
	}
	if p.CaloriesTarget != nil {
		out.CaloriesTarget = *p.CaloriesTarget
	}
	return out
}

package foods

import (
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/diet-planner/internal/planner"
)

// FoodDTO: элемент каталога в API
type FoodDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Calories  int       `json:"calories"`
	ProteinG  float64   `json:"protein_g"`
	CarbsG    float64   `json:"carbs_g"`
	FatG      float64   `json:"fat_g"`
	MealTypes []string  `json:"meal_types"`
	DietType  string    `json:"diet_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFoodsResponse is the response for GET /v1/foods.
type ListFoodsResponse struct {
	Items  []FoodDTO `json:"items"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// UpsertFoodRequest is the request body for POST /v1/foods.
type UpsertFoodRequest struct {
	ID        string   `json:"id,omitempty"` // if provided, update existing
	Name      string   `json:"name"`
	Calories  int      `json:"calories"`
	ProteinG  float64  `json:"protein_g"`
	CarbsG    float64  `json:"carbs_g"`
	FatG      float64  `json:"fat_g"`
	MealTypes []string `json:"meal_types"`
	DietType  string   `json:"diet_type"`
}

// Validate normalizes and checks the request in place.
func (r *UpsertFoodRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if len(r.Name) < 1 || len(r.Name) > 120 {
		return fmt.Errorf("name must be between 1 and 120 characters")
	}

	if r.Calories < 0 || r.Calories > 5000 {
		return fmt.Errorf("calories must be between 0 and 5000")
	}

	for field, v := range map[string]float64{"protein_g": r.ProteinG, "carbs_g": r.CarbsG, "fat_g": r.FatG} {
		if v < 0 || v > 1000 {
			return fmt.Errorf("%s must be between 0 and 1000", field)
		}
	}

	if len(r.MealTypes) == 0 {
		return fmt.Errorf("meal_types must not be empty")
	}
	seen := make(map[string]bool, len(r.MealTypes))
	mealTypes := make([]string, 0, len(r.MealTypes))
	for _, mt := range r.MealTypes {
		mt = strings.ToLower(strings.TrimSpace(mt))
		if !planner.Slot(mt).Valid() {
			return fmt.Errorf("unknown meal type %q", mt)
		}
		if !seen[mt] {
			seen[mt] = true
			mealTypes = append(mealTypes, mt)
		}
	}
	r.MealTypes = mealTypes

	if r.DietType == "" {
		r.DietType = string(planner.DietBalanced)
	}
	diet := planner.CanonicalDiet(r.DietType)
	if !diet.Valid() {
		return fmt.Errorf("unknown diet type %q", r.DietType)
	}
	r.DietType = string(diet)

	return nil
}

// Package catalog provides planner.CatalogReader implementations.
package catalog

import (
	"context"

	"github.com/fdg312/diet-planner/internal/planner"
	"github.com/fdg312/diet-planner/internal/storage"
)

// StoreReader reads the catalog from the primary storage (memory or postgres).
type StoreReader struct {
	foods storage.FoodsStorage
}

func NewStoreReader(foods storage.FoodsStorage) *StoreReader {
	return &StoreReader{foods: foods}
}

func (r *StoreReader) FetchByDietTags(ctx context.Context, tags []string) ([]planner.FoodItem, error) {
	rows, err := r.foods.ListByDietTypes(ctx, tags)
	if err != nil {
		return nil, err
	}
	items := make([]planner.FoodItem, 0, len(rows))
	for _, f := range rows {
		items = append(items, FoodItemFromStorage(f))
	}
	return items, nil
}

func FoodItemFromStorage(f storage.Food) planner.FoodItem {
	return planner.FoodItem{
		ID:        f.ID,
		Name:      f.Name,
		Calories:  f.Calories,
		ProteinG:  f.ProteinG,
		CarbsG:    f.CarbsG,
		FatG:      f.FatG,
		MealTypes: toSlots(f.MealTypes),
		DietType:  planner.DietType(f.DietType),
	}
}

func toSlots(raw []string) []planner.Slot {
	slots := make([]planner.Slot, 0, len(raw))
	for _, m := range raw {
		slots = append(slots, planner.Slot(m))
	}
	return slots
}

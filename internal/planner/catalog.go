package planner

import (
	"context"
	"fmt"
	"strings"
)

// CatalogReader is the only I/O the generator performs.
type CatalogReader interface {
	// FetchByDietTags returns every food whose diet tag is one of tags.
	FetchByDietTags(ctx context.Context, tags []string) ([]FoodItem, error)
}

// CatalogReaderFunc adapts a function to CatalogReader.
type CatalogReaderFunc func(ctx context.Context, tags []string) ([]FoodItem, error)

func (f CatalogReaderFunc) FetchByDietTags(ctx context.Context, tags []string) ([]FoodItem, error) {
	return f(ctx, tags)
}

// SlotCatalog groups eligible foods by meal slot.
type SlotCatalog map[Slot][]FoodItem

// CanonicalDiet folds spelling variants ("Non-Veg" -> "non_veg") without validating.
func CanonicalDiet(raw string) DietType {
	return DietType(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "-", "_")))
}

// NormalizeDiet is CanonicalDiet with empty or unknown input resolved to balanced.
func NormalizeDiet(raw string) DietType {
	d := CanonicalDiet(raw)
	if !d.Valid() {
		return DietBalanced
	}
	return d
}

// DietTags returns the catalog tags eligible for a preference: the preference plus balanced.
func DietTags(diet DietType) []string {
	d := NormalizeDiet(string(diet))
	if d == DietBalanced {
		return []string{string(DietBalanced)}
	}
	return []string{string(d), string(DietBalanced)}
}

// LoadCatalog fetches the foods eligible for diet and groups them per slot.
// It fails with *InsufficientDataError when any slot ends up empty.
func LoadCatalog(ctx context.Context, reader CatalogReader, diet DietType) (SlotCatalog, error) {
	items, err := reader.FetchByDietTags(ctx, DietTags(diet))
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	catalog := make(SlotCatalog, len(Slots))
	seen := make(map[Slot]map[string]struct{}, len(Slots))
	for _, item := range items {
		for _, slot := range item.MealTypes {
			if !slot.Valid() {
				continue
			}
			if seen[slot] == nil {
				seen[slot] = make(map[string]struct{})
			}
			if _, dup := seen[slot][item.ID]; dup {
				continue
			}
			seen[slot][item.ID] = struct{}{}
			catalog[slot] = append(catalog[slot], item)
		}
	}

	var missing []Slot
	for _, slot := range Slots {
		if len(catalog[slot]) == 0 {
			missing = append(missing, slot)
		}
	}
	if len(missing) > 0 {
		return nil, &InsufficientDataError{Slots: missing}
	}
	return catalog, nil
}

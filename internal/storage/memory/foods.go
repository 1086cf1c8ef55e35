package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/google/uuid"
)

type foodsStorage struct {
	mu    sync.RWMutex
	foods map[string]*storage.Food // key: id
}

func newFoodsStorage() *foodsStorage {
	return &foodsStorage{foods: make(map[string]*storage.Food)}
}

func (s *foodsStorage) List(ctx context.Context, filter storage.FoodFilter) ([]storage.Food, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queryLower := strings.ToLower(filter.Query)
	var results []storage.Food
	for _, f := range s.foods {
		if filter.DietType != "" && f.DietType != filter.DietType {
			continue
		}
		if filter.MealType != "" && !slices.Contains(f.MealTypes, filter.MealType) {
			continue
		}
		if queryLower != "" && !strings.Contains(strings.ToLower(f.Name), queryLower) {
			continue
		}
		results = append(results, cloneFood(f))
	}
	sortFoods(results)

	total := len(results)
	if filter.Offset >= total {
		return []storage.Food{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return results[filter.Offset:end], total, nil
}

func (s *foodsStorage) ListByDietTypes(ctx context.Context, dietTypes []string) ([]storage.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []storage.Food{}
	for _, f := range s.foods {
		if slices.Contains(dietTypes, f.DietType) {
			results = append(results, cloneFood(f))
		}
	}
	sortFoods(results)
	return results, nil
}

func (s *foodsStorage) Upsert(ctx context.Context, req storage.FoodUpsert) (storage.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *storage.Food
	if req.ID != "" {
		var ok bool
		if existing, ok = s.foods[req.ID]; !ok {
			return storage.Food{}, storage.ErrNotFound
		}
	}

	// Уникальность (lower(name), diet_type), как индекс в postgres
	nameLower := strings.ToLower(req.Name)
	for id, f := range s.foods {
		if id != req.ID && strings.ToLower(f.Name) == nameLower && f.DietType == req.DietType {
			return storage.Food{}, storage.ErrConflict
		}
	}

	now := time.Now().UTC()
	if existing != nil {
		existing.Name = req.Name
		existing.Calories = req.Calories
		existing.ProteinG = req.ProteinG
		existing.CarbsG = req.CarbsG
		existing.FatG = req.FatG
		existing.MealTypes = slices.Clone(req.MealTypes)
		existing.DietType = req.DietType
		existing.UpdatedAt = now
		return cloneFood(existing), nil
	}

	f := &storage.Food{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Calories:  req.Calories,
		ProteinG:  req.ProteinG,
		CarbsG:    req.CarbsG,
		FatG:      req.FatG,
		MealTypes: slices.Clone(req.MealTypes),
		DietType:  req.DietType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.foods[f.ID] = f
	return cloneFood(f), nil
}

func (s *foodsStorage) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.foods[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.foods, id)
	return nil
}

// cloneFood: копия без общего MealTypes, чтобы вызывающий не мутировал хранилище
func cloneFood(f *storage.Food) storage.Food {
	out := *f
	out.MealTypes = slices.Clone(f.MealTypes)
	return out
}

func sortFoods(foods []storage.Food) {
	sort.Slice(foods, func(i, j int) bool {
		if foods[i].Name != foods[j].Name {
			return foods[i].Name < foods[j].Name
		}
		return foods[i].ID < foods[j].ID
	})
}

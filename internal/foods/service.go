package foods

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fdg312/diet-planner/internal/planner"
	"github.com/fdg312/diet-planner/internal/storage"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

var (
	ErrInvalid  = errors.New("invalid food")
	ErrNotFound = errors.New("food not found")
	ErrConflict = errors.New("food with this name already exists for the diet type")
)

// Service handles the shared food catalog.
type Service struct {
	storage storage.FoodsStorage
}

// NewService creates a new foods service.
func NewService(storage storage.FoodsStorage) *Service {
	return &Service{storage: storage}
}

// List returns catalog items with optional filters. Limit is clamped to (0, maxLimit].
func (s *Service) List(ctx context.Context, filter storage.FoodFilter) ([]storage.Food, int, storage.FoodFilter, error) {
	if filter.Limit <= 0 || filter.Limit > maxLimit {
		filter.Limit = defaultLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.DietType != "" {
		filter.DietType = string(planner.CanonicalDiet(filter.DietType))
	}
	filter.MealType = strings.ToLower(strings.TrimSpace(filter.MealType))

	items, total, err := s.storage.List(ctx, filter)
	if err != nil {
		return nil, 0, filter, err
	}
	return items, total, filter, nil
}

// Upsert creates or updates a catalog item.
func (s *Service) Upsert(ctx context.Context, req UpsertFoodRequest) (storage.Food, error) {
	if err := req.Validate(); err != nil {
		return storage.Food{}, fmt.Errorf("%w: %s", ErrInvalid, err.Error())
	}
	if req.ID != "" && !validID(req.ID) {
		return storage.Food{}, ErrNotFound
	}

	food, err := s.storage.Upsert(ctx, storage.FoodUpsert{
		ID:        req.ID,
		Name:      req.Name,
		Calories:  req.Calories,
		ProteinG:  req.ProteinG,
		CarbsG:    req.CarbsG,
		FatG:      req.FatG,
		MealTypes: req.MealTypes,
		DietType:  req.DietType,
	})
	switch {
	case errors.Is(err, storage.ErrConflict):
		return storage.Food{}, ErrConflict
	case errors.Is(err, storage.ErrNotFound):
		return storage.Food{}, ErrNotFound
	case err != nil:
		return storage.Food{}, err
	}
	return food, nil
}

// Delete removes a catalog item. Existing plans keep their snapshot.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// validID: id записей foods всегда UUID, иное не найдётся ни в одном хранилище
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

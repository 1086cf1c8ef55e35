package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/google/uuid"
)

type mealPlansStorage struct {
	mu sync.RWMutex
	// key: "ownerUserID:profileID" -> active plan
	byOwnerProfile map[string]storage.MealPlan
}

func newMealPlansStorage() *mealPlansStorage {
	return &mealPlansStorage{byOwnerProfile: make(map[string]storage.MealPlan)}
}

func planKey(ownerUserID, profileID string) string {
	return fmt.Sprintf("%s:%s", ownerUserID, profileID)
}

func (s *mealPlansStorage) GetActive(ctx context.Context, ownerUserID string, profileID string) (storage.MealPlan, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.byOwnerProfile[planKey(ownerUserID, profileID)]
	if !ok {
		return storage.MealPlan{}, false, nil
	}
	plan.Week = slices.Clone(plan.Week)
	return plan, true, nil
}

func (s *mealPlansStorage) ReplaceActive(ctx context.Context, plan storage.MealPlan) (storage.MealPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// delete + insert под одним локом: читатели видят либо старый, либо новый план
	plan.ID = uuid.New().String()
	plan.CreatedAt = time.Now().UTC()
	plan.Week = slices.Clone(plan.Week)
	s.byOwnerProfile[planKey(plan.OwnerUserID, plan.ProfileID)] = plan

	return plan, nil
}

func (s *mealPlansStorage) DeleteActive(ctx context.Context, ownerUserID string, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byOwnerProfile, planKey(ownerUserID, profileID))
	return nil
}

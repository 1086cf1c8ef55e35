package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/google/uuid"
)

// MemoryStorage: in-memory реализация всех хранилищ (local режим и тесты)
type MemoryStorage struct {
	mu        sync.RWMutex
	profiles  map[uuid.UUID]storage.Profile
	foods     *foodsStorage
	mealPlans *mealPlansStorage
	exports   *ExportsMemoryStorage
}

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		profiles:  make(map[uuid.UUID]storage.Profile),
		foods:     newFoodsStorage(),
		mealPlans: newMealPlansStorage(),
		exports:   NewExportsMemoryStorage(),
	}
}

func (m *MemoryStorage) ListProfiles(ctx context.Context, ownerUserID string) ([]storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]storage.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		if p.OwnerUserID == ownerUserID {
			profiles = append(profiles, p)
		}
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})

	return profiles, nil
}

func (m *MemoryStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	m.profiles[profile.ID] = *profile
	return nil
}

func (m *MemoryStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.profiles[profile.ID]
	if !ok {
		return storage.ErrNotFound
	}
	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = time.Now().UTC()

	m.profiles[profile.ID] = *profile
	return nil
}

func (m *MemoryStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	p, ok := m.profiles[id]
	if !ok {
		m.mu.Unlock()
		return storage.ErrNotFound
	}
	delete(m.profiles, id)
	m.mu.Unlock()

	// каскад как в postgres (ON DELETE CASCADE)
	return m.mealPlans.DeleteActive(ctx, p.OwnerUserID, id.String())
}

func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) GetFoodsStorage() storage.FoodsStorage {
	return m.foods
}

func (m *MemoryStorage) GetMealPlansStorage() storage.MealPlansStorage {
	return m.mealPlans
}

func (m *MemoryStorage) GetExportsStorage() storage.ExportsStorage {
	return m.exports
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/google/uuid"
)

// ExportsMemoryStorage: in-memory storage для выгрузок плана
type ExportsMemoryStorage struct {
	mu      sync.RWMutex
	exports map[uuid.UUID]*storage.PlanExport
}

func NewExportsMemoryStorage() *ExportsMemoryStorage {
	return &ExportsMemoryStorage{exports: make(map[uuid.UUID]*storage.PlanExport)}
}

func (s *ExportsMemoryStorage) CreateExport(ctx context.Context, export *storage.PlanExport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if export.ID == uuid.Nil {
		export.ID = uuid.New()
	}
	export.CreatedAt = time.Now().UTC()

	cp := *export
	s.exports[export.ID] = &cp
	return nil
}

func (s *ExportsMemoryStorage) GetExport(ctx context.Context, id uuid.UUID) (*storage.PlanExport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	export, ok := s.exports[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *export
	return &cp, nil
}

func (s *ExportsMemoryStorage) CountExportsSince(ctx context.Context, ownerUserID string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.exports {
		if e.OwnerUserID == ownerUserID && !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *ExportsMemoryStorage) DeleteExport(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exports[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.exports, id)
	return nil
}

package exports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fdg312/diet-planner/internal/blob"
	"github.com/fdg312/diet-planner/internal/mealplans"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/userctx"
)

var (
	ErrInvalidFormat  = errors.New("format must be pdf or csv")
	ErrNoPlan         = errors.New("profile has no meal plan")
	ErrExportNotFound = errors.New("export not found")
	ErrLimitReached   = errors.New("daily export limit reached")
)

// PlanSource returns the caller's active plan for a profile, nil when absent.
type PlanSource interface {
	GetActive(ctx context.Context, profileID string) (*mealplans.PlanDTO, error)
}

// Service renders weekly plans to files and keeps export records
type Service struct {
	storage   storage.ExportsStorage
	plans     PlanSource
	blobStore blob.Store // nil in local mode
	maxPerDay int
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(st storage.ExportsStorage, plans PlanSource, blobStore blob.Store, maxPerDay int, logger *zap.Logger) *Service {
	return &Service{
		storage:   st,
		plans:     plans,
		blobStore: blobStore,
		maxPerDay: maxPerDay,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) localMode() bool {
	return s.blobStore == nil
}

// CreateExport renders the active plan and stores the file
func (s *Service) CreateExport(ctx context.Context, req CreateExportRequest) (*storage.PlanExport, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != FormatPDF && format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	plan, err := s.plans.GetActive(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNoPlan
	}
	profileID, err := uuid.Parse(plan.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("stored plan has bad profile id: %w", err)
	}

	owner := userctx.OwnerID(ctx)
	if s.maxPerDay > 0 {
		dayStart := s.now().UTC().Truncate(24 * time.Hour)
		n, err := s.storage.CountExportsSince(ctx, owner, dayStart)
		if err != nil {
			return nil, fmt.Errorf("failed to count exports: %w", err)
		}
		if n >= s.maxPerDay {
			return nil, ErrLimitReached
		}
	}

	data, err := Render(plan, format)
	if err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	export := &storage.PlanExport{
		ID:          uuid.New(),
		OwnerUserID: owner,
		ProfileID:   profileID,
		PlanID:      plan.ID,
		Format:      format,
		SizeBytes:   int64(len(data)),
	}

	if s.localMode() {
		export.Data = data
	} else {
		objectKey := fmt.Sprintf("exports/%s/%s/%s.%s", owner, profileID, export.ID, format)
		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentType(format)); err != nil {
			return nil, fmt.Errorf("failed to upload export: %w", err)
		}
		export.ObjectKey = &objectKey
	}

	if err := s.storage.CreateExport(ctx, export); err != nil {
		return nil, fmt.Errorf("failed to save export metadata: %w", err)
	}

	s.logger.Info("plan exported",
		zap.String("export_id", export.ID.String()),
		zap.String("format", format),
		zap.Int64("size_bytes", export.SizeBytes),
	)
	return export, nil
}

// GetExport returns the caller's export
func (s *Service) GetExport(ctx context.Context, id uuid.UUID) (*storage.PlanExport, error) {
	export, err := s.storage.GetExport(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrExportNotFound
	}
	if err != nil {
		return nil, err
	}
	if export.OwnerUserID != userctx.OwnerID(ctx) {
		return nil, ErrExportNotFound
	}
	return export, nil
}

// DownloadURL: ссылка на API в local режиме, публичная/presigned в s3
func (s *Service) DownloadURL(ctx context.Context, export *storage.PlanExport, baseURL string) (string, error) {
	if s.localMode() || export.ObjectKey == nil {
		return fmt.Sprintf("%s/v1/exports/%s/download", strings.TrimSuffix(baseURL, "/"), export.ID), nil
	}
	return s.blobStore.DownloadURL(ctx, *export.ObjectKey)
}

// Data returns the export bytes. In s3 mode redirect is the normal path; this reads through.
func (s *Service) Data(ctx context.Context, export *storage.PlanExport) ([]byte, error) {
	if export.ObjectKey == nil {
		return export.Data, nil
	}
	if s.localMode() {
		return nil, fmt.Errorf("export %s is stored in object storage, but blob store is disabled", export.ID)
	}
	return s.blobStore.GetObject(ctx, *export.ObjectKey)
}

// DeleteExport deletes the record; object removal failures are only logged
func (s *Service) DeleteExport(ctx context.Context, id uuid.UUID) error {
	export, err := s.GetExport(ctx, id)
	if err != nil {
		return err
	}

	if !s.localMode() && export.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *export.ObjectKey); err != nil {
			s.logger.Warn("failed to delete export object",
				zap.String("object_key", *export.ObjectKey),
				zap.Error(err),
			)
		}
	}

	if err := s.storage.DeleteExport(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrExportNotFound
		}
		return fmt.Errorf("failed to delete export metadata: %w", err)
	}
	return nil
}

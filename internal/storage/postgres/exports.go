package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresExportsStorage: Postgres storage для выгрузок плана
type PostgresExportsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresExportsStorage(pool *pgxpool.Pool) *PostgresExportsStorage {
	return &PostgresExportsStorage{pool: pool}
}

func (s *PostgresExportsStorage) CreateExport(ctx context.Context, export *storage.PlanExport) error {
	if export.ID == uuid.Nil {
		export.ID = uuid.New()
	}

	query := `
		INSERT INTO plan_exports (id, owner_user_id, profile_id, plan_id, format, object_key, size_bytes, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := s.pool.QueryRow(ctx, query,
		export.ID,
		export.OwnerUserID,
		export.ProfileID,
		export.PlanID,
		export.Format,
		export.ObjectKey,
		export.SizeBytes,
		export.Data,
	).Scan(&export.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create export: %w", err)
	}
	return nil
}

func (s *PostgresExportsStorage) GetExport(ctx context.Context, id uuid.UUID) (*storage.PlanExport, error) {
	query := `
		SELECT id, owner_user_id, profile_id, plan_id::text, format, object_key, size_bytes, data, created_at
		FROM plan_exports
		WHERE id = $1
	`

	var e storage.PlanExport
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.OwnerUserID,
		&e.ProfileID,
		&e.PlanID,
		&e.Format,
		&e.ObjectKey,
		&e.SizeBytes,
		&e.Data,
		&e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export: %w", err)
	}
	return &e, nil
}

func (s *PostgresExportsStorage) CountExportsSince(ctx context.Context, ownerUserID string, since time.Time) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM plan_exports WHERE owner_user_id = $1 AND created_at >= $2`,
		ownerUserID, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count exports: %w", err)
	}
	return n, nil
}

func (s *PostgresExportsStorage) DeleteExport(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM plan_exports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete export: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

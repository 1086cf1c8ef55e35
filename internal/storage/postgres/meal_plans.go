package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type mealPlansStorage struct {
	pool *pgxpool.Pool
}

func newMealPlansStorage(pool *pgxpool.Pool) *mealPlansStorage {
	return &mealPlansStorage{pool: pool}
}

func (s *mealPlansStorage) GetActive(ctx context.Context, ownerUserID string, profileID string) (storage.MealPlan, bool, error) {
	query := `
		SELECT id::text, owner_user_id, profile_id::text, daily_target_kcal, week, created_at
		FROM meal_plans
		WHERE owner_user_id = $1 AND profile_id = $2
	`

	var plan storage.MealPlan
	err := s.pool.QueryRow(ctx, query, ownerUserID, profileID).Scan(
		&plan.ID,
		&plan.OwnerUserID,
		&plan.ProfileID,
		&plan.DailyTargetKcal,
		&plan.Week,
		&plan.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.MealPlan{}, false, nil
	}
	if err != nil {
		return storage.MealPlan{}, false, fmt.Errorf("failed to get active meal plan: %w", err)
	}
	return plan, true, nil
}

// ReplaceActive: один upsert по (owner_user_id, profile_id), при гонке побеждает последняя запись
func (s *mealPlansStorage) ReplaceActive(ctx context.Context, plan storage.MealPlan) (storage.MealPlan, error) {
	plan.ID = uuid.New().String()
	query := `
		INSERT INTO meal_plans (id, owner_user_id, profile_id, daily_target_kcal, week)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_user_id, profile_id) DO UPDATE
		SET id = EXCLUDED.id,
		    daily_target_kcal = EXCLUDED.daily_target_kcal,
		    week = EXCLUDED.week,
		    created_at = now()
		RETURNING created_at
	`
	err := s.pool.QueryRow(ctx, query,
		plan.ID,
		plan.OwnerUserID,
		plan.ProfileID,
		plan.DailyTargetKcal,
		plan.Week,
	).Scan(&plan.CreatedAt)
	if err != nil {
		return storage.MealPlan{}, fmt.Errorf("failed to upsert meal plan: %w", err)
	}
	return plan, nil
}

func (s *mealPlansStorage) DeleteActive(ctx context.Context, ownerUserID string, profileID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM meal_plans WHERE owner_user_id = $1 AND profile_id = $2`,
		ownerUserID, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	return nil
}

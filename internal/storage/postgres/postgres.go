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

// PostgresStorage: Postgres реализация всех хранилищ
type PostgresStorage struct {
	pool      *pgxpool.Pool
	foods     *foodsStorage
	mealPlans *mealPlansStorage
	exports   *PostgresExportsStorage
}

// New открывает пул и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStorage{
		pool:      pool,
		foods:     newFoodsStorage(pool),
		mealPlans: newMealPlansStorage(pool),
		exports:   NewPostgresExportsStorage(pool),
	}, nil
}

const profileColumns = `id, owner_user_id, name, weight_kg, height_cm, age, gender,
	activity_level, goal, diet_type, calories_target, created_at, updated_at`

func scanProfile(row pgx.Row) (storage.Profile, error) {
	var prof storage.Profile
	err := row.Scan(
		&prof.ID,
		&prof.OwnerUserID,
		&prof.Name,
		&prof.WeightKg,
		&prof.HeightCm,
		&prof.Age,
		&prof.Gender,
		&prof.ActivityLevel,
		&prof.Goal,
		&prof.DietType,
		&prof.CaloriesTarget,
		&prof.CreatedAt,
		&prof.UpdatedAt,
	)
	return prof, err
}

func (p *PostgresStorage) ListProfiles(ctx context.Context, ownerUserID string) ([]storage.Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM profiles
		WHERE owner_user_id = $1
		ORDER BY created_at ASC`

	rows, err := p.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []storage.Profile{}
	for rows.Next() {
		prof, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, prof)
	}
	return profiles, rows.Err()
}

func (p *PostgresStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	prof, err := scanProfile(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &prof, nil
}

func (p *PostgresStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	query := `
		INSERT INTO profiles (id, owner_user_id, name, weight_kg, height_cm, age, gender,
		                      activity_level, goal, diet_type, calories_target)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := p.pool.QueryRow(ctx, query,
		profile.ID,
		profile.OwnerUserID,
		profile.Name,
		profile.WeightKg,
		profile.HeightCm,
		profile.Age,
		profile.Gender,
		profile.ActivityLevel,
		profile.Goal,
		profile.DietType,
		profile.CaloriesTarget,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (p *PostgresStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	query := `
		UPDATE profiles
		SET name = $2, weight_kg = $3, height_cm = $4, age = $5, gender = $6,
		    activity_level = $7, goal = $8, diet_type = $9, calories_target = $10,
		    updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := p.pool.QueryRow(ctx, query,
		profile.ID,
		profile.Name,
		profile.WeightKg,
		profile.HeightCm,
		profile.Age,
		profile.Gender,
		profile.ActivityLevel,
		profile.Goal,
		profile.DietType,
		profile.CaloriesTarget,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// DeleteProfile: план удаляется каскадом (FK ON DELETE CASCADE)
func (p *PostgresStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresStorage) GetFoodsStorage() storage.FoodsStorage {
	return p.foods
}

func (p *PostgresStorage) GetMealPlansStorage() storage.MealPlansStorage {
	return p.mealPlans
}

func (p *PostgresStorage) GetExportsStorage() storage.ExportsStorage {
	return p.exports
}

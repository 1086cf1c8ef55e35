package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

type foodsStorage struct {
	pool *pgxpool.Pool
}

func newFoodsStorage(pool *pgxpool.Pool) *foodsStorage {
	return &foodsStorage{pool: pool}
}

const foodColumns = `id::text, name, calories, protein_g, carbs_g, fat_g, meal_types, diet_type, created_at, updated_at`

func scanFood(row pgx.Row) (storage.Food, error) {
	var f storage.Food
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Calories,
		&f.ProteinG,
		&f.CarbsG,
		&f.FatG,
		&f.MealTypes,
		&f.DietType,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}

func collectFoods(rows pgx.Rows) ([]storage.Food, error) {
	defer rows.Close()

	foods := []storage.Food{}
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foods: %w", err)
	}
	return foods, nil
}

func (s *foodsStorage) List(ctx context.Context, filter storage.FoodFilter) ([]storage.Food, int, error) {
	var conds []string
	var args []interface{}
	if filter.Query != "" {
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
		conds = append(conds, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	if filter.DietType != "" {
		args = append(args, filter.DietType)
		conds = append(conds, fmt.Sprintf("diet_type = $%d", len(args)))
	}
	if filter.MealType != "" {
		args = append(args, filter.MealType)
		conds = append(conds, fmt.Sprintf("$%d = ANY(meal_types)", len(args)))
	}
	whereClause := ""
	if len(conds) > 0 {
		whereClause = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM foods %s", whereClause)
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count foods: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM foods
		%s
		ORDER BY name ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, foodColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list foods: %w", err)
	}
	foods, err := collectFoods(rows)
	if err != nil {
		return nil, 0, err
	}
	return foods, total, nil
}

func (s *foodsStorage) ListByDietTypes(ctx context.Context, dietTypes []string) ([]storage.Food, error) {
	query := `SELECT ` + foodColumns + `
		FROM foods
		WHERE diet_type = ANY($1)
		ORDER BY name ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, dietTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to list foods by diet: %w", err)
	}
	return collectFoods(rows)
}

func (s *foodsStorage) Upsert(ctx context.Context, req storage.FoodUpsert) (storage.Food, error) {
	var row pgx.Row
	if req.ID != "" {
		query := `
			UPDATE foods
			SET name = $1, calories = $2, protein_g = $3, carbs_g = $4, fat_g = $5,
			    meal_types = $6, diet_type = $7, updated_at = now()
			WHERE id = $8
			RETURNING ` + foodColumns
		row = s.pool.QueryRow(ctx, query,
			req.Name, req.Calories, req.ProteinG, req.CarbsG, req.FatG, req.MealTypes, req.DietType, req.ID)
	} else {
		query := `
			INSERT INTO foods (id, name, calories, protein_g, carbs_g, fat_g, meal_types, diet_type)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + foodColumns
		row = s.pool.QueryRow(ctx, query,
			req.Name, req.Calories, req.ProteinG, req.CarbsG, req.FatG, req.MealTypes, req.DietType)
	}

	f, err := scanFood(row)
	if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
		return storage.Food{}, storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return storage.Food{}, storage.ErrConflict
	}
	if err != nil {
		return storage.Food{}, fmt.Errorf("failed to upsert food: %w", err)
	}
	return f, nil
}

func (s *foodsStorage) Delete(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM foods WHERE id = $1`, id)
	if isInvalidText(err) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete food: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// isInvalidText: id не является UUID (22P02), такой строки быть не может
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound возвращается всеми реализациями, когда запись не найдена
var ErrNotFound = errors.New("not found")

// ErrConflict: нарушение уникальности (например, дубликат имени продукта)
var ErrConflict = errors.New("conflict")

// Profile: физиологический профиль пользователя, вход для генератора плана
type Profile struct {
	ID             uuid.UUID
	OwnerUserID    string // "default" при выключенной авторизации
	Name           string
	WeightKg       float64
	HeightCm       float64
	Age            int
	Gender         string
	ActivityLevel  string
	Goal           string
	DietType       string
	CaloriesTarget *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Storage: интерфейс для работы с профилями
type Storage interface {
	// ListProfiles возвращает профили владельца
	ListProfiles(ctx context.Context, ownerUserID string) ([]Profile, error)

	// GetProfile возвращает профиль по ID
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)

	// CreateProfile создаёт новый профиль
	CreateProfile(ctx context.Context, profile *Profile) error

	// UpdateProfile обновляет профиль
	UpdateProfile(ctx context.Context, profile *Profile) error

	// DeleteProfile удаляет профиль (и его план)
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	// Close закрывает соединение (для Postgres)
	Close() error
}

// Food: запись каталога продуктов (общего для всех пользователей)
type Food struct {
	ID        string
	Name      string
	Calories  int
	ProteinG  float64
	CarbsG    float64
	FatG      float64
	MealTypes []string
	DietType  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FoodUpsert struct {
	ID        string // if empty, create new
	Name      string
	Calories  int
	ProteinG  float64
	CarbsG    float64
	FatG      float64
	MealTypes []string
	DietType  string
}

// FoodFilter: параметры выборки каталога
type FoodFilter struct {
	Query    string // substring of name, case-insensitive
	DietType string
	MealType string
	Limit    int
	Offset   int
}

// FoodsStorage manages the food catalog
type FoodsStorage interface {
	// List returns catalog items matching the filter plus the total count
	List(ctx context.Context, filter FoodFilter) ([]Food, int, error)
	// ListByDietTypes returns every item tagged with one of dietTypes
	ListByDietTypes(ctx context.Context, dietTypes []string) ([]Food, error)
	// Upsert creates or updates a catalog item
	Upsert(ctx context.Context, req FoodUpsert) (Food, error)
	// Delete removes a catalog item by ID
	Delete(ctx context.Context, id string) error
}

// MealPlansStorage keeps at most one active weekly plan per (owner, profile)
type MealPlansStorage interface {
	// GetActive returns the active plan for a profile
	GetActive(ctx context.Context, ownerUserID string, profileID string) (MealPlan, bool, error)
	// ReplaceActive atomically deletes any active plan and stores the new one
	ReplaceActive(ctx context.Context, plan MealPlan) (MealPlan, error)
	// DeleteActive removes the active plan; missing plan is not an error
	DeleteActive(ctx context.Context, ownerUserID string, profileID string) error
}

// MealPlan: сохранённый недельный план; Week хранит JSON дней
type MealPlan struct {
	ID              string
	OwnerUserID     string
	ProfileID       string
	DailyTargetKcal int
	Week            []byte // JSON
	CreatedAt       time.Time
}

// ExportsStorage: хранилище выгрузок плана (PDF/CSV)
type ExportsStorage interface {
	// CreateExport сохраняет метаданные (и данные в local режиме)
	CreateExport(ctx context.Context, export *PlanExport) error

	// GetExport возвращает выгрузку по ID
	GetExport(ctx context.Context, id uuid.UUID) (*PlanExport, error)

	// CountExportsSince: сколько выгрузок владелец сделал начиная с момента since
	CountExportsSince(ctx context.Context, ownerUserID string, since time.Time) (int, error)

	// DeleteExport удаляет выгрузку
	DeleteExport(ctx context.Context, id uuid.UUID) error
}

// PlanExport: метаданные выгрузки
type PlanExport struct {
	ID          uuid.UUID
	OwnerUserID string
	ProfileID   uuid.UUID
	PlanID      string
	Format      string  // "pdf" or "csv"
	ObjectKey   *string // S3 object key (NULL in local mode)
	SizeBytes   int64
	Data        []byte // only in local mode
	CreatedAt   time.Time
}

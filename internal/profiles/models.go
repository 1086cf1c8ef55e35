package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/diet-planner/internal/planner"
)

// ProfileDTO: DTO для API
type ProfileDTO struct {
	ID             uuid.UUID `json:"id"`
	OwnerUserID    string    `json:"owner_user_id"`
	Name           string    `json:"name"`
	WeightKg       float64   `json:"weight_kg"`
	HeightCm       float64   `json:"height_cm"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	ActivityLevel  string    `json:"activity_level"`
	Goal           string    `json:"goal"`
	DietType       string    `json:"diet_type"`
	CaloriesTarget *int      `json:"calories_target,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfilesResponse: ответ для GET /v1/profiles
type ProfilesResponse struct {
	Profiles []ProfileDTO `json:"profiles"`
}

// CreateProfileRequest: запрос для POST /v1/profiles.
// Пустые enum-поля получают значения по умолчанию.
type CreateProfileRequest struct {
	Name           string  `json:"name"`
	WeightKg       float64 `json:"weight_kg"`
	HeightCm       float64 `json:"height_cm"`
	Age            int     `json:"age"`
	Gender         string  `json:"gender"`
	ActivityLevel  string  `json:"activity_level"`
	Goal           string  `json:"goal"`
	DietType       string  `json:"diet_type"`
	CaloriesTarget *int    `json:"calories_target,omitempty"`
}

// UpdateProfileRequest: частичное обновление, PATCH /v1/profiles/{id}
type UpdateProfileRequest struct {
	Name           *string  `json:"name,omitempty"`
	WeightKg       *float64 `json:"weight_kg,omitempty"`
	HeightCm       *float64 `json:"height_cm,omitempty"`
	Age            *int     `json:"age,omitempty"`
	Gender         *string  `json:"gender,omitempty"`
	ActivityLevel  *string  `json:"activity_level,omitempty"`
	Goal           *string  `json:"goal,omitempty"`
	DietType       *string  `json:"diet_type,omitempty"`
	CaloriesTarget *int     `json:"calories_target,omitempty"`
	// ClearCaloriesTarget drops the override so the computed target applies again.
	ClearCaloriesTarget bool `json:"clear_calories_target,omitempty"`
}

// TargetsResponse: GET /v1/profiles/{id}/targets
type TargetsResponse struct {
	ProfileID uuid.UUID       `json:"profile_id"`
	Targets   planner.Targets `json:"targets"`
}

// ErrorResponse: формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

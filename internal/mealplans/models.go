package mealplans

import (
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/diet-planner/internal/planner"
)

// PlanDTO: сохранённый недельный план в API
type PlanDTO struct {
	ID          string              `json:"id"`
	ProfileID   string              `json:"profile_id"`
	DailyTarget int                 `json:"daily_target"`
	Days        []planner.DailyPlan `json:"days"`
	CreatedAt   time.Time           `json:"created_at"`
}

// GenerateRequest is the request body for POST /v1/diet/generate.
type GenerateRequest struct {
	ProfileID           string `json:"profile_id"`
	IncludeDescriptions bool   `json:"include_descriptions"`
}

// PlanResponse: ответ generate и GET /v1/diet/plan; Plan == nil, если плана нет
type PlanResponse struct {
	Plan *PlanDTO `json:"plan"`
}

// TodayResponse is the response for GET /v1/diet/today.
type TodayResponse struct {
	Date     string             `json:"date"`
	DayIndex int                `json:"day_index"`
	Day      *planner.DailyPlan `json:"day"`
}

func parseProfileID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, ErrProfileIDRequired
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidProfileID
	}
	return id, nil
}

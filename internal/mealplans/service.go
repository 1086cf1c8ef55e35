package mealplans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fdg312/diet-planner/internal/ai"
	"github.com/fdg312/diet-planner/internal/planner"
	"github.com/fdg312/diet-planner/internal/profiles"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/userctx"
)

const (
	dateLayout          = "2006-01-02"
	describeConcurrency = 4
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidDate     = errors.New("invalid date format, expected YYYY-MM-DD")

	ErrProfileIDRequired = errors.New("profile_id is required")
	ErrInvalidProfileID  = errors.New("profile_id must be a UUID")
)

// ProfileLookup returns a profile only when it belongs to the caller.
type ProfileLookup interface {
	GetOwned(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
}

// Service generates and stores weekly meal plans.
type Service struct {
	storage   storage.MealPlansStorage
	profiles  ProfileLookup
	generator *planner.Generator
	describer ai.Provider
	logger    *zap.Logger
}

// NewService creates a new meal plans service. describer may be nil.
func NewService(st storage.MealPlansStorage, profiles ProfileLookup, generator *planner.Generator, describer ai.Provider, logger *zap.Logger) *Service {
	return &Service{
		storage:   st,
		profiles:  profiles,
		generator: generator,
		describer: describer,
		logger:    logger,
	}
}

// Generate builds a fresh week for the profile and replaces the stored one.
// On InsufficientData nothing is persisted.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*PlanDTO, error) {
	profile, err := s.ownedProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}

	week, err := s.generator.Generate(ctx, profiles.ToPlannerProfile(*profile))
	if err != nil {
		return nil, err
	}

	if req.IncludeDescriptions && s.describer != nil {
		s.describe(ctx, &week)
	}

	raw, err := json.Marshal(week.Days)
	if err != nil {
		return nil, fmt.Errorf("encode week: %w", err)
	}

	stored, err := s.storage.ReplaceActive(ctx, storage.MealPlan{
		OwnerUserID:     profile.OwnerUserID,
		ProfileID:       profile.ID.String(),
		DailyTargetKcal: week.DailyTarget,
		Week:            raw,
	})
	if err != nil {
		return nil, fmt.Errorf("store plan: %w", err)
	}

	s.logger.Info("meal plan generated",
		zap.String("profile_id", stored.ProfileID),
		zap.String("plan_id", stored.ID),
		zap.Int("daily_target", week.DailyTarget),
	)

	return &PlanDTO{
		ID:          stored.ID,
		ProfileID:   stored.ProfileID,
		DailyTarget: week.DailyTarget,
		Days:        week.Days,
		CreatedAt:   stored.CreatedAt,
	}, nil
}

// describe: ошибки провайдера не прерывают генерацию
func (s *Service) describe(ctx context.Context, week *planner.WeeklyPlan) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(describeConcurrency)
	for i := range week.Days {
		day := &week.Days[i]
		g.Go(func() error {
			text, err := s.describer.DescribeDay(gctx, *day)
			if err != nil {
				s.logger.Warn("day description failed", zap.String("day", day.Day), zap.Error(err))
				return nil
			}
			day.Description = text
			return nil
		})
	}
	g.Wait()
}

// GetActive returns the stored plan, or nil when the profile has none.
func (s *Service) GetActive(ctx context.Context, profileID string) (*PlanDTO, error) {
	profile, err := s.ownedProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	plan, found, err := s.storage.GetActive(ctx, profile.OwnerUserID, profile.ID.String())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return toDTO(plan)
}

// GetDay returns the planned day for the given date (Monday is index 0).
// Empty dateStr means today in UTC.
func (s *Service) GetDay(ctx context.Context, profileID, dateStr string) (*TodayResponse, error) {
	date := time.Now().UTC()
	if dateStr != "" {
		parsed, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, ErrInvalidDate
		}
		date = parsed
	}

	plan, err := s.GetActive(ctx, profileID)
	if err != nil {
		return nil, err
	}

	resp := &TodayResponse{Date: date.Format(dateLayout), DayIndex: planner.DayIndex(date)}
	if plan != nil && resp.DayIndex < len(plan.Days) {
		day := plan.Days[resp.DayIndex]
		resp.Day = &day
	}
	return resp, nil
}

// DeleteActive deletes the stored plan. Missing plan is not an error.
func (s *Service) DeleteActive(ctx context.Context, profileID string) error {
	id, err := parseProfileID(profileID)
	if err != nil {
		return err
	}
	return s.storage.DeleteActive(ctx, userctx.OwnerID(ctx), id.String())
}

func (s *Service) ownedProfile(ctx context.Context, rawID string) (*storage.Profile, error) {
	id, err := parseProfileID(rawID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetOwned(ctx, id)
	if errors.Is(err, profiles.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func toDTO(plan storage.MealPlan) (*PlanDTO, error) {
	var days []planner.DailyPlan
	if err := json.Unmarshal(plan.Week, &days); err != nil {
		return nil, fmt.Errorf("decode stored week %s: %w", plan.ID, err)
	}
	return &PlanDTO{
		ID:          plan.ID,
		ProfileID:   plan.ProfileID,
		DailyTarget: plan.DailyTargetKcal,
		Days:        days,
		CreatedAt:   plan.CreatedAt,
	}, nil
}

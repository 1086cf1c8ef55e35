package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/fdg312/diet-planner/internal/planner"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/userctx"
)

var ErrNotFound = errors.New("profile not found")

// Service содержит бизнес-логику профилей
type Service struct {
	storage storage.Storage
	planner planner.Config
}

// NewService создаёт новый сервис
func NewService(st storage.Storage, plannerCfg planner.Config) *Service {
	return &Service{storage: st, planner: plannerCfg}
}

// ListProfiles возвращает профили текущего пользователя
func (s *Service) ListProfiles(ctx context.Context) ([]ProfileDTO, error) {
	profiles, err := s.storage.ListProfiles(ctx, userctx.OwnerID(ctx))
	if err != nil {
		return nil, err
	}

	dtos := make([]ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		dtos = append(dtos, toDTO(p))
	}
	return dtos, nil
}

// GetOwned возвращает профиль, если он принадлежит текущему пользователю.
// Чужой профиль неотличим от отсутствующего.
func (s *Service) GetOwned(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	profile, err := s.storage.GetProfile(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if profile.OwnerUserID != userctx.OwnerID(ctx) {
		return nil, ErrNotFound
	}
	return profile, nil
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.GetOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*profile)
	return &dto, nil
}

func (s *Service) CreateProfile(ctx context.Context, req CreateProfileRequest) (*ProfileDTO, error) {
	profile := &storage.Profile{
		OwnerUserID:    userctx.OwnerID(ctx),
		Name:           strings.TrimSpace(req.Name),
		WeightKg:       req.WeightKg,
		HeightCm:       req.HeightCm,
		Age:            req.Age,
		Gender:         req.Gender,
		ActivityLevel:  req.ActivityLevel,
		Goal:           req.Goal,
		DietType:       req.DietType,
		CaloriesTarget: req.CaloriesTarget,
	}
	applyDefaults(profile)
	if err := validateProfile(*profile); err != nil {
		return nil, err
	}

	if err := s.storage.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	dto := toDTO(*profile)
	return &dto, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error) {
	profile, err := s.GetOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.WeightKg != nil {
		profile.WeightKg = *req.WeightKg
	}
	if req.HeightCm != nil {
		profile.HeightCm = *req.HeightCm
	}
	if req.Age != nil {
		profile.Age = *req.Age
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}
	if req.ActivityLevel != nil {
		profile.ActivityLevel = *req.ActivityLevel
	}
	if req.Goal != nil {
		profile.Goal = *req.Goal
	}
	if req.DietType != nil {
		profile.DietType = *req.DietType
	}
	if req.CaloriesTarget != nil {
		profile.CaloriesTarget = req.CaloriesTarget
	}
	if req.ClearCaloriesTarget {
		profile.CaloriesTarget = nil
	}
	applyDefaults(profile)
	if err := validateProfile(*profile); err != nil {
		return nil, err
	}

	if err := s.storage.UpdateProfile(ctx, profile); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := toDTO(*profile)
	return &dto, nil
}

// DeleteProfile удаляет профиль вместе с активным планом
func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetOwned(ctx, id); err != nil {
		return err
	}
	if err := s.storage.DeleteProfile(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Targets: дневная цель и разбивка по слотам без обращения к каталогу
func (s *Service) Targets(ctx context.Context, id uuid.UUID) (*TargetsResponse, error) {
	profile, err := s.GetOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TargetsResponse{
		ProfileID: profile.ID,
		Targets:   planner.ComputeTargets(s.planner, ToPlannerProfile(*profile)),
	}, nil
}

func toDTO(p storage.Profile) ProfileDTO {
	return ProfileDTO{
		ID:             p.ID,
		OwnerUserID:    p.OwnerUserID,
		Name:           p.Name,
		WeightKg:       p.WeightKg,
		HeightCm:       p.HeightCm,
		Age:            p.Age,
		Gender:         p.Gender,
		ActivityLevel:  p.ActivityLevel,
		Goal:           p.Goal,
		DietType:       p.DietType,
		CaloriesTarget: p.CaloriesTarget,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

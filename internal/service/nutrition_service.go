package service

import (
	"context"
	"errors"
	"fmt"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/errs"
	"rfortes/gym-studio/internal/logger"
	"rfortes/gym-studio/internal/repository"
	"rfortes/gym-studio/internal/validation"
)

// NutritionPlanService manages per-client nutrition plans.
type NutritionPlanService interface {
	Create(ctx context.Context, plan *domain.NutritionPlan) (*domain.NutritionPlan, error)
	GetByID(ctx context.Context, planID string) (*domain.NutritionPlan, error)
	GetByClient(ctx context.Context, clientID string) ([]domain.NutritionPlan, error)
	Update(ctx context.Context, planID string, update *domain.NutritionPlan) (*domain.NutritionPlan, error)
	Delete(ctx context.Context, planID string) error
}

type nutritionPlanService struct {
	plans   repository.NutritionPlanRepository
	clients repository.ClientRepository
	log     *logger.Logger
}

// NewNutritionPlanService creates a new instance of nutritionPlanService.
func NewNutritionPlanService(
	plans repository.NutritionPlanRepository,
	clients repository.ClientRepository,
	log *logger.Logger,
) NutritionPlanService {
	return &nutritionPlanService{plans: plans, clients: clients, log: log}
}

func (s *nutritionPlanService) Create(ctx context.Context, plan *domain.NutritionPlan) (*domain.NutritionPlan, error) {
	if err := validation.NutritionPlan(plan); err != nil {
		return nil, err
	}

	if _, err := s.clients.GetByID(ctx, plan.ClientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("client", plan.ClientID.Hex())
		}
		return nil, err
	}

	id, err := s.plans.Create(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("creating nutrition plan: %w", err)
	}
	plan.ID = id

	s.log.Info("nutrition plan created", "planId", id.Hex(), "clientId", plan.ClientID.Hex())
	return plan, nil
}

func (s *nutritionPlanService) GetByID(ctx context.Context, planID string) (*domain.NutritionPlan, error) {
	oid, err := parseID(planID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("nutrition plan", planID)
		}
		return nil, err
	}
	return plan, nil
}

func (s *nutritionPlanService) GetByClient(ctx context.Context, clientID string) ([]domain.NutritionPlan, error) {
	oid, err := parseID(clientID)
	if err != nil {
		return nil, err
	}
	return s.plans.GetByClientID(ctx, oid)
}

func (s *nutritionPlanService) Update(ctx context.Context, planID string, update *domain.NutritionPlan) (*domain.NutritionPlan, error) {
	oid, err := parseID(planID)
	if err != nil {
		return nil, err
	}

	existing, err := s.plans.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("nutrition plan", planID)
		}
		return nil, err
	}

	update.ID = oid
	update.ClientID = existing.ClientID
	if err := validation.NutritionPlan(update); err != nil {
		return nil, err
	}

	if err := s.plans.Update(ctx, update); err != nil {
		return nil, fmt.Errorf("updating nutrition plan: %w", err)
	}

	return s.plans.GetByID(ctx, oid)
}

func (s *nutritionPlanService) Delete(ctx context.Context, planID string) error {
	oid, err := parseID(planID)
	if err != nil {
		return err
	}
	if err := s.plans.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errs.NotFound("nutrition plan", planID)
		}
		return err
	}
	s.log.Info("nutrition plan deleted", "planId", planID)
	return nil
}

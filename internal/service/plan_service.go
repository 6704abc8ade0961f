package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/errs"
	"rfortes/gym-studio/internal/logger"
	"rfortes/gym-studio/internal/repository"
	"rfortes/gym-studio/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	planRemovalReason    = "training plan removed from the catalogue"
	planRetirementReason = "training plan retired from the catalogue"
)

// TrainingPlanService manages the plan catalogue. Plan removal and
// retirement mirror client deletion: both refuse while active contracts
// reference the plan, and both sweep the plan's non-active contracts to
// cancelled inside the same transaction.
type TrainingPlanService interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (*domain.TrainingPlan, error)
	GetByID(ctx context.Context, planID string) (*domain.TrainingPlan, error)
	List(ctx context.Context, opts repository.PlanListOptions) ([]domain.TrainingPlan, error)
	Update(ctx context.Context, planID string, update *domain.TrainingPlan) (*domain.TrainingPlan, error)
	Delete(ctx context.Context, planID string) error
	Deactivate(ctx context.Context, planID string) (*domain.TrainingPlan, error)
	Reactivate(ctx context.Context, planID string) (*domain.TrainingPlan, error)
	GetWithClients(ctx context.Context, planID string) (*domain.PlanWithClients, error)
	Stats(ctx context.Context) (*repository.PlanStats, error)
}

type trainingPlanService struct {
	plans     repository.TrainingPlanRepository
	contracts repository.ContractRepository
	tx        repository.TxRunner
	log       *logger.Logger
}

// NewTrainingPlanService creates a new instance of trainingPlanService.
func NewTrainingPlanService(
	plans repository.TrainingPlanRepository,
	contracts repository.ContractRepository,
	tx repository.TxRunner,
	log *logger.Logger,
) TrainingPlanService {
	return &trainingPlanService{
		plans:     plans,
		contracts: contracts,
		tx:        tx,
		log:       log,
	}
}

func (s *trainingPlanService) Create(ctx context.Context, plan *domain.TrainingPlan) (*domain.TrainingPlan, error) {
	plan.IsActive = true
	if err := validation.TrainingPlan(plan); err != nil {
		return nil, err
	}

	id, err := s.plans.Create(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("creating training plan: %w", err)
	}
	plan.ID = id

	s.log.Info("training plan created", "planId", id.Hex(), "name", plan.Name)
	return plan, nil
}

func (s *trainingPlanService) GetByID(ctx context.Context, planID string) (*domain.TrainingPlan, error) {
	oid, err := parseID(planID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("training plan", planID)
		}
		return nil, err
	}
	return plan, nil
}

func (s *trainingPlanService) List(ctx context.Context, opts repository.PlanListOptions) ([]domain.TrainingPlan, error) {
	return s.plans.List(ctx, opts)
}

func (s *trainingPlanService) Update(ctx context.Context, planID string, update *domain.TrainingPlan) (*domain.TrainingPlan, error) {
	oid, err := parseID(planID)
	if err != nil {
		return nil, err
	}

	existing, err := s.plans.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("training plan", planID)
		}
		return nil, err
	}

	update.ID = oid
	update.IsActive = existing.IsActive
	if err := validation.TrainingPlan(update); err != nil {
		return nil, err
	}

	// Price edits only affect future assignments. Contracts keep the
	// price that was copied onto them when they were created.
	if err := s.plans.Update(ctx, update); err != nil {
		return nil, fmt.Errorf("updating training plan: %w", err)
	}

	return s.plans.GetByID(ctx, oid)
}

// Delete removes a plan from the catalogue. Refused while any active
// contract references it; otherwise the plan's non-active contracts are
// cancelled and the plan removed, all-or-nothing.
func (s *trainingPlanService) Delete(ctx context.Context, planID string) error {
	oid, err := parseID(planID)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.plans.GetByID(txCtx, oid); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("training plan", planID)
			}
			return err
		}

		if err := s.sweepContracts(txCtx, oid, planRemovalReason); err != nil {
			return err
		}

		return s.plans.Delete(txCtx, oid)
	})
	if err != nil {
		return fmt.Errorf("deleting training plan: %w", err)
	}

	s.log.Info("training plan deleted", "planId", planID)
	return nil
}

// Deactivate retires a plan without removing its history. The same
// active-contract guard and cancellation sweep apply as for Delete.
func (s *trainingPlanService) Deactivate(ctx context.Context, planID string) (*domain.TrainingPlan, error) {
	oid, err := parseID(planID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.plans.GetByID(txCtx, oid); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("training plan", planID)
			}
			return err
		}

		if err := s.sweepContracts(txCtx, oid, planRetirementReason); err != nil {
			return err
		}

		return s.plans.SetActive(txCtx, oid, false)
	})
	if err != nil {
		return nil, fmt.Errorf("deactivating training plan: %w", err)
	}

	s.log.Info("training plan deactivated", "planId", planID)
	return s.plans.GetByID(ctx, oid)
}

func (s *trainingPlanService) Reactivate(ctx context.Context, planID string) (*domain.TrainingPlan, error) {
	oid, err := parseID(planID)
	if err != nil {
		return nil, err
	}
	if err := s.plans.SetActive(ctx, oid, true); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("training plan", planID)
		}
		return nil, err
	}
	return s.plans.GetByID(ctx, oid)
}

func (s *trainingPlanService) GetWithClients(ctx context.Context, planID string) (*domain.PlanWithClients, error) {
	oid, err := parseID(planID)
	if err != nil {
		return nil, err
	}
	result, err := s.plans.GetWithClients(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("training plan", planID)
		}
		return nil, err
	}
	return result, nil
}

func (s *trainingPlanService) Stats(ctx context.Context) (*repository.PlanStats, error) {
	return s.plans.Stats(ctx)
}

func (s *trainingPlanService) sweepContracts(ctx context.Context, planID primitive.ObjectID, reason string) error {
	active, err := s.contracts.CountActiveForPlan(ctx, planID)
	if err != nil {
		return err
	}
	if active > 0 {
		return errs.Precondition("training plan has %d active contract(s)", active)
	}

	swept, err := s.contracts.CancelAllNonActiveByPlan(ctx, planID, reason, time.Now())
	if err != nil {
		return err
	}
	if swept > 0 {
		s.log.Info("cancelled dangling contracts for plan", "planId", planID.Hex(), "count", swept)
	}
	return nil
}

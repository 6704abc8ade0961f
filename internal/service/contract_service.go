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

// ExpiryWarningWindow is the default look-ahead used when listing
// contracts that are about to run out.
const ExpiryWarningWindow = 7 * 24 * time.Hour

// ContractService is the contract workflow engine. Contracts enter the
// system only through AssignPlan and change only through Renew, Cancel
// and Complete; they are never deleted.
type ContractService interface {
	// AssignPlan creates an active contract binding a client to a plan.
	// The whole operation runs in one transaction: client must exist and
	// be active, plan must exist and be active, and the pair must not
	// already have an active contract.
	AssignPlan(ctx context.Context, clientID, planID string, startDate time.Time) (*domain.Contract, error)
	// Renew extends the contract by additionalWeeks and forces it back to
	// active. Renewing a cancelled contract fails; renewing a completed
	// one succeeds and revives it — stated policy, not an oversight.
	Renew(ctx context.Context, contractID string, additionalWeeks int) (*domain.Contract, error)
	// Cancel marks an active contract cancelled with a reason. Completed
	// and already-cancelled contracts are rejected.
	Cancel(ctx context.Context, contractID, reason string) (*domain.Contract, error)
	// Complete marks an active contract completed.
	Complete(ctx context.Context, contractID string) (*domain.Contract, error)

	GetByID(ctx context.Context, contractID string) (*domain.Contract, error)
	GetWithDetails(ctx context.Context, contractID string) (*domain.ContractWithDetails, error)
	GetByClient(ctx context.Context, clientID string) ([]domain.Contract, error)
	GetByPlan(ctx context.Context, planID string) ([]domain.Contract, error)
	ActiveContracts(ctx context.Context) ([]domain.Contract, error)
	ExpiringContracts(ctx context.Context, within time.Duration) ([]domain.Contract, error)
	ExpiredContracts(ctx context.Context) ([]domain.Contract, error)
}

type contractService struct {
	contracts repository.ContractRepository
	clients   repository.ClientRepository
	plans     repository.TrainingPlanRepository
	tx        repository.TxRunner
	log       *logger.Logger
	now       func() time.Time
}

// NewContractService creates the workflow engine.
func NewContractService(
	contracts repository.ContractRepository,
	clients repository.ClientRepository,
	plans repository.TrainingPlanRepository,
	tx repository.TxRunner,
	log *logger.Logger,
) ContractService {
	return &contractService{
		contracts: contracts,
		clients:   clients,
		plans:     plans,
		tx:        tx,
		log:       log,
		now:       time.Now,
	}
}

// AssignPlan runs the assignment workflow. All precondition reads and the
// contract insert share one transaction; a failure anywhere leaves no
// partial writes.
//
// Two concurrent assignments for the same pair can both pass the
// duplicate check before either commits; the storage engine's snapshot
// isolation is the backstop, not an application lock.
func (s *contractService) AssignPlan(ctx context.Context, clientID, planID string, startDate time.Time) (*domain.Contract, error) {
	clientOID, err := parseID(clientID)
	if err != nil {
		return nil, err
	}
	planOID, err := parseID(planID)
	if err != nil {
		return nil, err
	}
	if startDate.IsZero() {
		startDate = s.now()
	}

	var contract *domain.Contract
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		client, err := s.clients.GetByID(txCtx, clientOID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("client", clientID)
			}
			return err
		}
		if client.Status != domain.ClientActive {
			return errs.Precondition("client must be active to be assigned a plan (status is %s)", client.Status)
		}

		plan, err := s.plans.GetByID(txCtx, planOID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("training plan", planID)
			}
			return err
		}
		if !plan.IsActive {
			return errs.Precondition("plan %q must be active to be assigned", plan.Name)
		}

		active, err := s.contracts.CountActiveForPair(txCtx, clientOID, planOID)
		if err != nil {
			return err
		}
		if active > 0 {
			return errs.Precondition("client already has an active contract for this plan")
		}

		// Duration is whole weeks: 7 calendar days each.
		endDate := startDate.AddDate(0, 0, plan.DurationWeeks*7)

		candidate := &domain.Contract{
			ClientID:        clientOID,
			PlanID:          planOID,
			StartDate:       startDate,
			EndDate:         endDate,
			Price:           plan.Price, // copied now; later plan price changes never touch this contract
			Terms:           domain.DefaultContractTerms(),
			Status:          domain.ContractActive,
			PaymentSchedule: domain.PayMonthly,
		}
		if err := validation.Contract(candidate); err != nil {
			return err
		}

		id, err := s.contracts.Create(txCtx, candidate)
		if err != nil {
			return err
		}
		candidate.ID = id
		contract = candidate
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("assigning plan: %w", err)
	}

	s.log.Info("contract assigned",
		"contractId", contract.ID.Hex(),
		"clientId", clientID,
		"planId", planID,
		"endDate", contract.EndDate,
	)
	return contract, nil
}

// Renew extends a contract. The repository update carries the
// not-cancelled guard in its filter, so the status check and the write
// are one atomic step; the preceding read only exists to compute the new
// end date and produce a precise error.
func (s *contractService) Renew(ctx context.Context, contractID string, additionalWeeks int) (*domain.Contract, error) {
	oid, err := parseID(contractID)
	if err != nil {
		return nil, err
	}
	if additionalWeeks < 1 {
		return nil, fmt.Errorf("renewing contract: %w", errs.Precondition("additional weeks must be at least 1"))
	}

	contract, err := s.getContract(ctx, oid, contractID)
	if err != nil {
		return nil, fmt.Errorf("renewing contract: %w", err)
	}
	if contract.Status == domain.ContractCancelled {
		return nil, fmt.Errorf("renewing contract: %w", errs.Precondition("a cancelled contract cannot be renewed"))
	}

	newEndDate := contract.EndDate.AddDate(0, 0, additionalWeeks*7)
	ok, err := s.contracts.Renew(ctx, oid, newEndDate)
	if err != nil {
		return nil, fmt.Errorf("renewing contract: %w", err)
	}
	if !ok {
		// Lost the race against a concurrent cancellation.
		return nil, fmt.Errorf("renewing contract: %w", errs.Precondition("a cancelled contract cannot be renewed"))
	}

	s.log.Info("contract renewed", "contractId", contractID, "newEndDate", newEndDate)
	return s.getContract(ctx, oid, contractID)
}

// Cancel marks a contract cancelled. A rollback of dependent tracking
// data is a deliberate extension point left unimplemented.
func (s *contractService) Cancel(ctx context.Context, contractID, reason string) (*domain.Contract, error) {
	oid, err := parseID(contractID)
	if err != nil {
		return nil, err
	}

	contract, err := s.getContract(ctx, oid, contractID)
	if err != nil {
		return nil, fmt.Errorf("cancelling contract: %w", err)
	}
	switch contract.Status {
	case domain.ContractCancelled:
		return nil, fmt.Errorf("cancelling contract: %w", errs.Precondition("contract is already cancelled"))
	case domain.ContractCompleted:
		return nil, fmt.Errorf("cancelling contract: %w", errs.Precondition("a completed contract cannot be cancelled"))
	}

	ok, err := s.contracts.Cancel(ctx, oid, reason, s.now())
	if err != nil {
		return nil, fmt.Errorf("cancelling contract: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("cancelling contract: %w", errs.Precondition("contract is no longer in a cancellable state"))
	}

	s.log.Info("contract cancelled", "contractId", contractID, "reason", reason)
	return s.getContract(ctx, oid, contractID)
}

// Complete marks an active contract completed.
func (s *contractService) Complete(ctx context.Context, contractID string) (*domain.Contract, error) {
	oid, err := parseID(contractID)
	if err != nil {
		return nil, err
	}

	contract, err := s.getContract(ctx, oid, contractID)
	if err != nil {
		return nil, fmt.Errorf("completing contract: %w", err)
	}
	if contract.Status != domain.ContractActive {
		return nil, fmt.Errorf("completing contract: %w", errs.Precondition("only active contracts can be completed"))
	}

	ok, err := s.contracts.Complete(ctx, oid, s.now())
	if err != nil {
		return nil, fmt.Errorf("completing contract: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("completing contract: %w", errs.Precondition("only active contracts can be completed"))
	}

	s.log.Info("contract completed", "contractId", contractID)
	return s.getContract(ctx, oid, contractID)
}

func (s *contractService) GetByID(ctx context.Context, contractID string) (*domain.Contract, error) {
	oid, err := parseID(contractID)
	if err != nil {
		return nil, err
	}
	return s.getContract(ctx, oid, contractID)
}

func (s *contractService) GetWithDetails(ctx context.Context, contractID string) (*domain.ContractWithDetails, error) {
	oid, err := parseID(contractID)
	if err != nil {
		return nil, err
	}
	details, err := s.contracts.GetWithDetails(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("contract", contractID)
		}
		return nil, err
	}
	return details, nil
}

func (s *contractService) GetByClient(ctx context.Context, clientID string) ([]domain.Contract, error) {
	oid, err := parseID(clientID)
	if err != nil {
		return nil, err
	}
	return s.contracts.GetByClientID(ctx, oid)
}

func (s *contractService) GetByPlan(ctx context.Context, planID string) ([]domain.Contract, error) {
	oid, err := parseID(planID)
	if err != nil {
		return nil, err
	}
	return s.contracts.GetByPlanID(ctx, oid)
}

func (s *contractService) ActiveContracts(ctx context.Context) ([]domain.Contract, error) {
	return s.contracts.FindActive(ctx, s.now())
}

func (s *contractService) ExpiringContracts(ctx context.Context, within time.Duration) ([]domain.Contract, error) {
	if within <= 0 {
		within = ExpiryWarningWindow
	}
	return s.contracts.FindExpiring(ctx, s.now(), within)
}

func (s *contractService) ExpiredContracts(ctx context.Context) ([]domain.Contract, error) {
	return s.contracts.FindExpired(ctx, s.now())
}

func (s *contractService) getContract(ctx context.Context, oid primitive.ObjectID, raw string) (*domain.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("contract", raw)
		}
		return nil, err
	}
	return contract, nil
}

// parseID converts a hex id into an ObjectID, mapping malformed input to
// the InvalidID error kind.
func parseID(raw string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, errs.InvalidID(raw)
	}
	return oid, nil
}

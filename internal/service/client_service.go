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
)

const clientRemovalReason = "client removed from the system"

// ClientService exposes client management, including the transactional
// delete cascade the workflow engine's invariants depend on.
type ClientService interface {
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	GetByID(ctx context.Context, clientID string) (*domain.Client, error)
	List(ctx context.Context, opts repository.ClientListOptions) ([]domain.Client, error)
	Update(ctx context.Context, clientID string, update *domain.Client) (*domain.Client, error)
	// Delete removes a client. It fails if the client has any active
	// contract; otherwise every non-active contract is cancelled and the
	// client record removed, all inside one transaction.
	Delete(ctx context.Context, clientID string) error
	Deactivate(ctx context.Context, clientID string) (*domain.Client, error)
	Reactivate(ctx context.Context, clientID string) (*domain.Client, error)
	GetWithContracts(ctx context.Context, clientID string) (*domain.ClientWithContracts, error)
	Stats(ctx context.Context) (*repository.ClientStats, error)
}

type clientService struct {
	clients   repository.ClientRepository
	contracts repository.ContractRepository
	tx        repository.TxRunner
	log       *logger.Logger
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	clients repository.ClientRepository,
	contracts repository.ContractRepository,
	tx repository.TxRunner,
	log *logger.Logger,
) ClientService {
	return &clientService{
		clients:   clients,
		contracts: contracts,
		tx:        tx,
		log:       log,
	}
}

// Create validates the candidate client and enforces email and phone
// uniqueness. The pre-insert lookups are a check-then-act race: two
// concurrent creations can both pass before either insert lands. The
// unique indexes are the source of truth; these checks only exist to
// return a friendly error ahead of the raw duplicate-key one, which is
// mapped to the same ConflictError when it wins the race.
func (s *clientService) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if client.Status == "" {
		client.Status = domain.ClientActive
	}
	if err := validation.Client(client); err != nil {
		return nil, err
	}

	if _, err := s.clients.GetByEmail(ctx, client.Email); err == nil {
		return nil, errs.Conflict("a client with email %s already exists", client.Email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	if _, err := s.clients.GetByPhone(ctx, client.Phone); err == nil {
		return nil, errs.Conflict("a client with phone %s already exists", client.Phone)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	id, err := s.clients.Create(ctx, client)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, errs.Conflict("a client with this email or phone already exists")
		}
		return nil, fmt.Errorf("creating client: %w", err)
	}
	client.ID = id

	s.log.Info("client created", "clientId", id.Hex(), "email", client.Email)
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, clientID string) (*domain.Client, error) {
	oid, err := parseID(clientID)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("client", clientID)
		}
		return nil, err
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context, opts repository.ClientListOptions) ([]domain.Client, error) {
	return s.clients.List(ctx, opts)
}

// Update applies editable fields, re-checking uniqueness whenever email
// or phone changes.
func (s *clientService) Update(ctx context.Context, clientID string, update *domain.Client) (*domain.Client, error) {
	oid, err := parseID(clientID)
	if err != nil {
		return nil, err
	}

	existing, err := s.clients.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("client", clientID)
		}
		return nil, err
	}

	if update.Email != existing.Email {
		if _, err := s.clients.GetByEmail(ctx, update.Email); err == nil {
			return nil, errs.Conflict("a client with email %s already exists", update.Email)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("updating client: %w", err)
		}
	}
	if update.Phone != existing.Phone {
		if _, err := s.clients.GetByPhone(ctx, update.Phone); err == nil {
			return nil, errs.Conflict("a client with phone %s already exists", update.Phone)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("updating client: %w", err)
		}
	}

	update.ID = oid
	if update.Status == "" {
		update.Status = existing.Status
	}
	if err := validation.Client(update); err != nil {
		return nil, err
	}

	if err := s.clients.Update(ctx, update); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, errs.Conflict("a client with this email or phone already exists")
		}
		return nil, fmt.Errorf("updating client: %w", err)
	}

	return s.clients.GetByID(ctx, oid)
}

// Delete runs the deletion cascade in one transaction: refuse when any
// active contract exists, otherwise cancel the client's non-active
// contracts and remove the record. If the final delete fails, the
// cancellations roll back with it.
func (s *clientService) Delete(ctx context.Context, clientID string) error {
	oid, err := parseID(clientID)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.clients.GetByID(txCtx, oid); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errs.NotFound("client", clientID)
			}
			return err
		}

		active, err := s.contracts.CountActiveForClient(txCtx, oid)
		if err != nil {
			return err
		}
		if active > 0 {
			return errs.Precondition("client has %d active contract(s) and cannot be deleted", active)
		}

		swept, err := s.contracts.CancelAllNonActiveByClient(txCtx, oid, clientRemovalReason, time.Now())
		if err != nil {
			return err
		}
		if swept > 0 {
			s.log.Info("cancelled dangling contracts for client", "clientId", clientID, "count", swept)
		}

		return s.clients.Delete(txCtx, oid)
	})
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}

	s.log.Info("client deleted", "clientId", clientID)
	return nil
}

func (s *clientService) Deactivate(ctx context.Context, clientID string) (*domain.Client, error) {
	return s.setStatus(ctx, clientID, domain.ClientInactive)
}

func (s *clientService) Reactivate(ctx context.Context, clientID string) (*domain.Client, error) {
	return s.setStatus(ctx, clientID, domain.ClientActive)
}

func (s *clientService) setStatus(ctx context.Context, clientID string, status domain.ClientStatus) (*domain.Client, error) {
	oid, err := parseID(clientID)
	if err != nil {
		return nil, err
	}
	if err := s.clients.UpdateStatus(ctx, oid, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("client", clientID)
		}
		return nil, err
	}
	return s.clients.GetByID(ctx, oid)
}

func (s *clientService) GetWithContracts(ctx context.Context, clientID string) (*domain.ClientWithContracts, error) {
	oid, err := parseID(clientID)
	if err != nil {
		return nil, err
	}
	result, err := s.clients.GetWithContracts(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("client", clientID)
		}
		return nil, err
	}
	return result, nil
}

func (s *clientService) Stats(ctx context.Context) (*repository.ClientStats, error) {
	return s.clients.Stats(ctx)
}

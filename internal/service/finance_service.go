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

// FinanceService records bookkeeping entries and serves aggregate
// summaries. Records are append-only logs, not a reconciled ledger.
type FinanceService interface {
	Record(ctx context.Context, record *domain.FinancialRecord) (*domain.FinancialRecord, error)
	GetByID(ctx context.Context, recordID string) (*domain.FinancialRecord, error)
	List(ctx context.Context, filter repository.FinancialFilter) ([]domain.FinancialRecord, error)
	Summary(ctx context.Context, filter repository.FinancialFilter) (*repository.FinancialSummary, error)
}

type financeService struct {
	records repository.FinancialRecordRepository
	clients repository.ClientRepository
	log     *logger.Logger
}

// NewFinanceService creates a new instance of financeService.
func NewFinanceService(
	records repository.FinancialRecordRepository,
	clients repository.ClientRepository,
	log *logger.Logger,
) FinanceService {
	return &financeService{records: records, clients: clients, log: log}
}

func (s *financeService) Record(ctx context.Context, record *domain.FinancialRecord) (*domain.FinancialRecord, error) {
	if record.Date.IsZero() {
		record.Date = time.Now()
	}
	if record.PaymentMethod == "" {
		record.PaymentMethod = domain.PayCash
	}
	if err := validation.FinancialRecord(record); err != nil {
		return nil, err
	}

	if record.ClientID != nil {
		if _, err := s.clients.GetByID(ctx, *record.ClientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, errs.NotFound("client", record.ClientID.Hex())
			}
			return nil, err
		}
	}

	id, err := s.records.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("recording financial entry: %w", err)
	}
	record.ID = id

	s.log.Info("financial record created",
		"recordId", id.Hex(), "type", record.Type, "amount", record.Amount)
	return record, nil
}

func (s *financeService) GetByID(ctx context.Context, recordID string) (*domain.FinancialRecord, error) {
	oid, err := parseID(recordID)
	if err != nil {
		return nil, err
	}
	record, err := s.records.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound("financial record", recordID)
		}
		return nil, err
	}
	return record, nil
}

func (s *financeService) List(ctx context.Context, filter repository.FinancialFilter) ([]domain.FinancialRecord, error) {
	return s.records.List(ctx, filter)
}

func (s *financeService) Summary(ctx context.Context, filter repository.FinancialFilter) (*repository.FinancialSummary, error) {
	return s.records.Summary(ctx, filter)
}

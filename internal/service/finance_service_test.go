package service

import (
	"context"
	"testing"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/errs"
	"rfortes/gym-studio/internal/logger"
	"rfortes/gym-studio/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubFinancialRepo struct {
	records map[primitive.ObjectID]*domain.FinancialRecord
}

func newStubFinancialRepo() *stubFinancialRepo {
	return &stubFinancialRepo{records: make(map[primitive.ObjectID]*domain.FinancialRecord)}
}

func (s *stubFinancialRepo) Create(_ context.Context, record *domain.FinancialRecord) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	copied := *record
	copied.ID = id
	s.records[id] = &copied
	return id, nil
}

func (s *stubFinancialRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.FinancialRecord, error) {
	record, ok := s.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *stubFinancialRepo) List(_ context.Context, _ repository.FinancialFilter) ([]domain.FinancialRecord, error) {
	out := make([]domain.FinancialRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, *record)
	}
	return out, nil
}

func (s *stubFinancialRepo) Summary(_ context.Context, _ repository.FinancialFilter) (*repository.FinancialSummary, error) {
	summary := &repository.FinancialSummary{}
	for _, record := range s.records {
		switch record.Type {
		case domain.RecordIncome:
			summary.Income += record.Amount
		case domain.RecordExpense:
			summary.Expense += record.Amount
		}
	}
	summary.Balance = summary.Income - summary.Expense
	return summary, nil
}

func newFinanceFixture() (*stubFinancialRepo, *stubClientRepo, FinanceService) {
	records := newStubFinancialRepo()
	clients := newStubClientRepo()
	svc := NewFinanceService(records, clients, logger.NewNop())
	return records, clients, svc
}

func TestRecordDefaultsPaymentMethodToCash(t *testing.T) {
	_, _, svc := newFinanceFixture()

	record, err := svc.Record(context.Background(), &domain.FinancialRecord{
		Type:     domain.RecordIncome,
		Category: "membership",
		Amount:   120,
	})
	if err != nil {
		t.Fatalf("Record() unexpected error: %v", err)
	}
	if record.PaymentMethod != domain.PayCash {
		t.Fatalf("expected cash default, got %s", record.PaymentMethod)
	}
	if record.Date.IsZero() {
		t.Fatalf("expected a default date")
	}
}

func TestRecordKeepsExplicitPaymentMethod(t *testing.T) {
	_, _, svc := newFinanceFixture()

	record, err := svc.Record(context.Background(), &domain.FinancialRecord{
		Type:          domain.RecordExpense,
		Category:      "equipment",
		Amount:        450,
		PaymentMethod: domain.PayTransfer,
	})
	if err != nil {
		t.Fatalf("Record() unexpected error: %v", err)
	}
	if record.PaymentMethod != domain.PayTransfer {
		t.Fatalf("expected transfer to survive, got %s", record.PaymentMethod)
	}
}

func TestRecordRejectsUnknownPaymentMethod(t *testing.T) {
	_, _, svc := newFinanceFixture()

	_, err := svc.Record(context.Background(), &domain.FinancialRecord{
		Type:          domain.RecordIncome,
		Category:      "membership",
		Amount:        120,
		PaymentMethod: domain.PaymentMethod("crypto"),
	})
	if !errs.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordRejectsUnknownClient(t *testing.T) {
	_, _, svc := newFinanceFixture()

	missing := primitive.NewObjectID()
	_, err := svc.Record(context.Background(), &domain.FinancialRecord{
		Type:     domain.RecordIncome,
		Category: "membership",
		Amount:   120,
		ClientID: &missing,
	})
	if !errs.IsNotFound(err) {
		t.Fatalf("expected not found for unknown client, got %v", err)
	}
}

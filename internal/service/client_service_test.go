package service

import (
	"context"
	"errors"
	"testing"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/errs"
	"rfortes/gym-studio/internal/logger"
	"rfortes/gym-studio/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newClientFixture() (*stubClientRepo, *stubContractRepo, *stubTxRunner, ClientService) {
	clients := newStubClientRepo()
	contracts := newStubContractRepo()
	tx := &stubTxRunner{repos: []snapshotter{clients, contracts}}
	svc := NewClientService(clients, contracts, tx, logger.NewNop())
	return clients, contracts, tx, svc
}

func TestCreateClientDefaultsToActive(t *testing.T) {
	_, _, _, svc := newClientFixture()

	client, err := svc.Create(context.Background(), activeTestClient())
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if client.Status != domain.ClientActive {
		t.Fatalf("expected active status, got %s", client.Status)
	}
	if client.ID.IsZero() {
		t.Fatalf("expected a generated client ID")
	}
}

func TestCreateClientRejectsDuplicates(t *testing.T) {
	clients, _, _, svc := newClientFixture()
	clients.add(activeTestClient())

	duplicateEmail := activeTestClient()
	duplicateEmail.Phone = "+34699888777"
	if _, err := svc.Create(context.Background(), duplicateEmail); !errs.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}

	duplicatePhone := activeTestClient()
	duplicatePhone.Email = "other@example.com"
	if _, err := svc.Create(context.Background(), duplicatePhone); !errs.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate phone, got %v", err)
	}
}

func TestCreateClientAggregatesViolations(t *testing.T) {
	_, _, _, svc := newClientFixture()

	_, err := svc.Create(context.Background(), &domain.Client{
		FirstName: "A",
		Email:     "nonsense",
		Phone:     "12",
		Gender:    "unknown",
	})

	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Violations) < 4 {
		t.Fatalf("expected all violations collected, got %v", ve.Violations)
	}
}

func TestDeleteClientBlockedByActiveContract(t *testing.T) {
	clients, contracts, _, svc := newClientFixture()
	clientID := clients.add(activeTestClient())
	contracts.add(&domain.Contract{
		ClientID: clientID,
		PlanID:   primitive.NewObjectID(),
		Status:   domain.ContractActive,
	})

	err := svc.Delete(context.Background(), clientID.Hex())
	if !errs.IsPrecondition(err) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if _, err := clients.GetByID(context.Background(), clientID); err != nil {
		t.Fatalf("expected client to survive the refused delete: %v", err)
	}
}

func TestDeleteClientSweepsNonActiveContracts(t *testing.T) {
	clients, contracts, tx, svc := newClientFixture()
	clientID := clients.add(activeTestClient())
	completedID := contracts.add(&domain.Contract{
		ClientID: clientID,
		PlanID:   primitive.NewObjectID(),
		Status:   domain.ContractCompleted,
	})

	if err := svc.Delete(context.Background(), clientID.Hex()); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if tx.calls != 1 {
		t.Fatalf("expected the delete to run in one transaction, got %d", tx.calls)
	}

	swept, err := contracts.GetByID(context.Background(), completedID)
	if err != nil {
		t.Fatalf("contract lookup failed: %v", err)
	}
	if swept.Status != domain.ContractCancelled {
		t.Fatalf("expected swept contract to be cancelled, got %s", swept.Status)
	}
	if _, err := clients.GetByID(context.Background(), clientID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected client removed, got %v", err)
	}
}

func TestDeleteClientAbortsTransactionOnFailure(t *testing.T) {
	clients, contracts, tx, svc := newClientFixture()
	clientID := clients.add(activeTestClient())
	completedID := contracts.add(&domain.Contract{
		ClientID: clientID,
		PlanID:   primitive.NewObjectID(),
		Status:   domain.ContractCompleted,
	})
	clients.deleteErr = errors.New("write conflict")

	if err := svc.Delete(context.Background(), clientID.Hex()); err == nil {
		t.Fatalf("expected the delete failure to propagate")
	}
	if !tx.rolledBack {
		t.Fatalf("expected the transaction to abort")
	}

	// The abort must undo the contract sweep, not just the delete.
	swept, err := contracts.GetByID(context.Background(), completedID)
	if err != nil {
		t.Fatalf("contract lookup failed: %v", err)
	}
	if swept.Status != domain.ContractCompleted {
		t.Fatalf("expected the sweep cancellation rolled back, got %s", swept.Status)
	}
	if swept.CancellationReason != "" {
		t.Fatalf("expected no cancellation reason after rollback")
	}
	if _, err := clients.GetByID(context.Background(), clientID); err != nil {
		t.Fatalf("expected client to survive the aborted delete, got %v", err)
	}
}

func TestDeleteClientNotFound(t *testing.T) {
	_, _, _, svc := newClientFixture()
	if err := svc.Delete(context.Background(), primitive.NewObjectID().Hex()); !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateClientChecksUniquenessOnChange(t *testing.T) {
	clients, _, _, svc := newClientFixture()
	first := activeTestClient()
	clients.add(first)

	second := activeTestClient()
	second.Email = "bruno@example.com"
	second.Phone = "+34699888777"
	secondID := clients.add(second)

	update := activeTestClient()
	update.Phone = "+34699888777" // keeps second's phone, takes first's email
	if _, err := svc.Update(context.Background(), secondID.Hex(), update); !errs.IsConflict(err) {
		t.Fatalf("expected conflict when taking another client's email, got %v", err)
	}
}

func TestDeactivateAndReactivateClient(t *testing.T) {
	clients, _, _, svc := newClientFixture()
	clientID := clients.add(activeTestClient())

	client, err := svc.Deactivate(context.Background(), clientID.Hex())
	if err != nil {
		t.Fatalf("Deactivate() unexpected error: %v", err)
	}
	if client.Status != domain.ClientInactive {
		t.Fatalf("expected inactive status, got %s", client.Status)
	}

	client, err = svc.Reactivate(context.Background(), clientID.Hex())
	if err != nil {
		t.Fatalf("Reactivate() unexpected error: %v", err)
	}
	if client.Status != domain.ClientActive {
		t.Fatalf("expected active status, got %s", client.Status)
	}
}

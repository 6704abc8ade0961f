package service

import (
	"context"
	"testing"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/errs"
	"rfortes/gym-studio/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newContractFixture() (*stubContractRepo, *stubClientRepo, *stubPlanRepo, *stubTxRunner, ContractService) {
	contracts := newStubContractRepo()
	clients := newStubClientRepo()
	plans := newStubPlanRepo()
	tx := &stubTxRunner{repos: []snapshotter{contracts, clients, plans}}
	svc := NewContractService(contracts, clients, plans, tx, logger.NewNop())
	return contracts, clients, plans, tx, svc
}

func TestAssignPlanCreatesActiveContract(t *testing.T) {
	_, clients, plans, _, svc := newContractFixture()
	clientID := clients.add(activeTestClient())
	planID := plans.add(activeTestPlan(4, 100))
	start := mustDay(t, "2024-01-01")

	contract, err := svc.AssignPlan(context.Background(), clientID.Hex(), planID.Hex(), start)
	if err != nil {
		t.Fatalf("AssignPlan() unexpected error: %v", err)
	}

	if contract.Status != domain.ContractActive {
		t.Fatalf("expected active status, got %s", contract.Status)
	}
	if want := mustDay(t, "2024-01-29"); !contract.EndDate.Equal(want) {
		t.Fatalf("expected end date %s, got %s", want, contract.EndDate)
	}
	if contract.Price != 100 {
		t.Fatalf("expected price 100 copied from plan, got %v", contract.Price)
	}
	if len(contract.Terms) == 0 {
		t.Fatalf("expected default terms on the contract")
	}
	if contract.PaymentSchedule != domain.PayMonthly {
		t.Fatalf("expected monthly payment schedule, got %s", contract.PaymentSchedule)
	}
	if contract.ID.IsZero() {
		t.Fatalf("expected a generated contract ID")
	}
}

func TestAssignPlanPriceSnapshotSurvivesPlanEdit(t *testing.T) {
	_, clients, plans, _, svc := newContractFixture()
	clientID := clients.add(activeTestClient())
	plan := activeTestPlan(4, 100)
	planID := plans.add(plan)

	contract, err := svc.AssignPlan(context.Background(), clientID.Hex(), planID.Hex(), mustDay(t, "2024-01-01"))
	if err != nil {
		t.Fatalf("AssignPlan() unexpected error: %v", err)
	}

	plan.Price = 250

	got, err := svc.GetByID(context.Background(), contract.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID() unexpected error: %v", err)
	}
	if got.Price != 100 {
		t.Fatalf("expected contract price to stay 100 after plan edit, got %v", got.Price)
	}
}

func TestAssignPlanPreconditions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, contracts *stubContractRepo, clients *stubClientRepo, plans *stubPlanRepo) (clientID, planID string)
	}{
		{
			name: "inactive client",
			setup: func(t *testing.T, _ *stubContractRepo, clients *stubClientRepo, plans *stubPlanRepo) (string, string) {
				client := activeTestClient()
				client.Status = domain.ClientInactive
				return clients.add(client).Hex(), plans.add(activeTestPlan(4, 100)).Hex()
			},
		},
		{
			name: "inactive plan",
			setup: func(t *testing.T, _ *stubContractRepo, clients *stubClientRepo, plans *stubPlanRepo) (string, string) {
				plan := activeTestPlan(4, 100)
				plan.IsActive = false
				return clients.add(activeTestClient()).Hex(), plans.add(plan).Hex()
			},
		},
		{
			name: "duplicate active contract for the pair",
			setup: func(t *testing.T, contracts *stubContractRepo, clients *stubClientRepo, plans *stubPlanRepo) (string, string) {
				clientID := clients.add(activeTestClient())
				planID := plans.add(activeTestPlan(4, 100))
				contracts.add(&domain.Contract{
					ClientID: clientID,
					PlanID:   planID,
					Status:   domain.ContractActive,
				})
				return clientID.Hex(), planID.Hex()
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			contracts, clients, plans, _, svc := newContractFixture()
			clientID, planID := testCase.setup(t, contracts, clients, plans)

			_, err := svc.AssignPlan(context.Background(), clientID, planID, mustDay(t, "2024-01-01"))
			if !errs.IsPrecondition(err) {
				t.Fatalf("expected precondition error, got %v", err)
			}
		})
	}
}

func TestAssignPlanAllowsNewContractAfterCancellation(t *testing.T) {
	contracts, clients, plans, _, svc := newContractFixture()
	clientID := clients.add(activeTestClient())
	planID := plans.add(activeTestPlan(4, 100))
	contracts.add(&domain.Contract{
		ClientID: clientID,
		PlanID:   planID,
		Status:   domain.ContractCancelled,
	})

	if _, err := svc.AssignPlan(context.Background(), clientID.Hex(), planID.Hex(), mustDay(t, "2024-01-01")); err != nil {
		t.Fatalf("expected cancelled contract not to block a new assignment, got %v", err)
	}
}

func TestAssignPlanUnknownIDs(t *testing.T) {
	_, clients, plans, _, svc := newContractFixture()
	clientID := clients.add(activeTestClient())
	planID := plans.add(activeTestPlan(4, 100))

	_, err := svc.AssignPlan(context.Background(), primitive.NewObjectID().Hex(), planID.Hex(), time.Time{})
	if !errs.IsNotFound(err) {
		t.Fatalf("expected not found for unknown client, got %v", err)
	}

	_, err = svc.AssignPlan(context.Background(), clientID.Hex(), primitive.NewObjectID().Hex(), time.Time{})
	if !errs.IsNotFound(err) {
		t.Fatalf("expected not found for unknown plan, got %v", err)
	}

	_, err = svc.AssignPlan(context.Background(), "not-a-hex-id", planID.Hex(), time.Time{})
	if !errs.IsInvalidID(err) {
		t.Fatalf("expected invalid id error, got %v", err)
	}
}

func TestRenewExtendsEndDate(t *testing.T) {
	contracts, _, _, _, svc := newContractFixture()
	id := contracts.add(&domain.Contract{
		ClientID:  primitive.NewObjectID(),
		PlanID:    primitive.NewObjectID(),
		StartDate: mustDay(t, "2024-01-01"),
		EndDate:   mustDay(t, "2024-01-29"),
		Status:    domain.ContractActive,
	})

	contract, err := svc.Renew(context.Background(), id.Hex(), 2)
	if err != nil {
		t.Fatalf("Renew() unexpected error: %v", err)
	}
	if want := mustDay(t, "2024-02-12"); !contract.EndDate.Equal(want) {
		t.Fatalf("expected end date %s, got %s", want, contract.EndDate)
	}
	if contract.Status != domain.ContractActive {
		t.Fatalf("expected active status after renewal, got %s", contract.Status)
	}
}

func TestRenewRevivesCompletedContract(t *testing.T) {
	contracts, _, _, _, svc := newContractFixture()
	completedAt := mustDay(t, "2024-01-29")
	id := contracts.add(&domain.Contract{
		ClientID:       primitive.NewObjectID(),
		PlanID:         primitive.NewObjectID(),
		StartDate:      mustDay(t, "2024-01-01"),
		EndDate:        mustDay(t, "2024-01-29"),
		Status:         domain.ContractCompleted,
		CompletionDate: &completedAt,
	})

	contract, err := svc.Renew(context.Background(), id.Hex(), 4)
	if err != nil {
		t.Fatalf("Renew() unexpected error: %v", err)
	}
	if contract.Status != domain.ContractActive {
		t.Fatalf("expected completed contract to come back active, got %s", contract.Status)
	}
	if want := mustDay(t, "2024-02-26"); !contract.EndDate.Equal(want) {
		t.Fatalf("expected end date %s, got %s", want, contract.EndDate)
	}
}

func TestRenewRejectsCancelledContract(t *testing.T) {
	contracts, _, _, _, svc := newContractFixture()
	id := contracts.add(&domain.Contract{
		ClientID: primitive.NewObjectID(),
		PlanID:   primitive.NewObjectID(),
		EndDate:  mustDay(t, "2024-01-29"),
		Status:   domain.ContractCancelled,
	})

	_, err := svc.Renew(context.Background(), id.Hex(), 2)
	if !errs.IsPrecondition(err) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestRenewRejectsNonPositiveWeeks(t *testing.T) {
	contracts, _, _, _, svc := newContractFixture()
	id := contracts.add(&domain.Contract{
		ClientID: primitive.NewObjectID(),
		PlanID:   primitive.NewObjectID(),
		EndDate:  mustDay(t, "2024-01-29"),
		Status:   domain.ContractActive,
	})

	for _, weeks := range []int{0, -3} {
		if _, err := svc.Renew(context.Background(), id.Hex(), weeks); !errs.IsPrecondition(err) {
			t.Fatalf("expected precondition error for %d weeks, got %v", weeks, err)
		}
	}
}

func TestCancelRecordsReasonAndDate(t *testing.T) {
	contracts, _, _, _, svc := newContractFixture()
	id := contracts.add(&domain.Contract{
		ClientID: primitive.NewObjectID(),
		PlanID:   primitive.NewObjectID(),
		EndDate:  mustDay(t, "2024-06-01"),
		Status:   domain.ContractActive,
	})

	contract, err := svc.Cancel(context.Background(), id.Hex(), "moving abroad")
	if err != nil {
		t.Fatalf("Cancel() unexpected error: %v", err)
	}
	if contract.Status != domain.ContractCancelled {
		t.Fatalf("expected cancelled status, got %s", contract.Status)
	}
	if contract.CancellationReason != "moving abroad" {
		t.Fatalf("expected cancellation reason recorded, got %q", contract.CancellationReason)
	}
	if contract.CancellationDate == nil {
		t.Fatalf("expected cancellation date recorded")
	}
}

func TestCancelRejectsTerminalStates(t *testing.T) {
	for _, status := range []domain.ContractStatus{domain.ContractCancelled, domain.ContractCompleted} {
		t.Run(string(status), func(t *testing.T) {
			contracts, _, _, _, svc := newContractFixture()
			id := contracts.add(&domain.Contract{
				ClientID: primitive.NewObjectID(),
				PlanID:   primitive.NewObjectID(),
				EndDate:  mustDay(t, "2024-06-01"),
				Status:   status,
			})

			if _, err := svc.Cancel(context.Background(), id.Hex(), "any"); !errs.IsPrecondition(err) {
				t.Fatalf("expected precondition error, got %v", err)
			}
		})
	}
}

func TestCompleteOnlyFromActive(t *testing.T) {
	contracts, _, _, _, svc := newContractFixture()
	activeID := contracts.add(&domain.Contract{
		ClientID: primitive.NewObjectID(),
		PlanID:   primitive.NewObjectID(),
		EndDate:  mustDay(t, "2024-06-01"),
		Status:   domain.ContractActive,
	})

	contract, err := svc.Complete(context.Background(), activeID.Hex())
	if err != nil {
		t.Fatalf("Complete() unexpected error: %v", err)
	}
	if contract.Status != domain.ContractCompleted {
		t.Fatalf("expected completed status, got %s", contract.Status)
	}
	if contract.CompletionDate == nil {
		t.Fatalf("expected completion date recorded")
	}

	cancelledID := contracts.add(&domain.Contract{
		ClientID: primitive.NewObjectID(),
		PlanID:   primitive.NewObjectID(),
		EndDate:  mustDay(t, "2024-06-01"),
		Status:   domain.ContractCancelled,
	})
	if _, err := svc.Complete(context.Background(), cancelledID.Hex()); !errs.IsPrecondition(err) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	_, _, _, _, svc := newContractFixture()
	if _, err := svc.GetByID(context.Background(), primitive.NewObjectID().Hex()); !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "zzz"); !errs.IsInvalidID(err) {
		t.Fatalf("expected invalid id, got %v", err)
	}
}

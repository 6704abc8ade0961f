package service

import (
	"context"
	"testing"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The stubs below are in-memory stand-ins for the Mongo repositories.
// The contract stub reproduces the guarded transition semantics of the
// real one: each status change checks its allowed source states and
// reports whether a document matched.

type stubClientRepo struct {
	clients   map[primitive.ObjectID]*domain.Client
	deleted   []primitive.ObjectID
	deleteErr error
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[primitive.ObjectID]*domain.Client)}
}

func (s *stubClientRepo) add(client *domain.Client) primitive.ObjectID {
	if client.ID.IsZero() {
		client.ID = primitive.NewObjectID()
	}
	s.clients[client.ID] = client
	return client.ID
}

func (s *stubClientRepo) snapshot() func() {
	saved := make(map[primitive.ObjectID]domain.Client, len(s.clients))
	for id, client := range s.clients {
		saved[id] = *client
	}
	deleted := append([]primitive.ObjectID(nil), s.deleted...)
	return func() {
		s.clients = make(map[primitive.ObjectID]*domain.Client, len(saved))
		for id, client := range saved {
			copied := client
			s.clients[id] = &copied
		}
		s.deleted = deleted
	}
}

func (s *stubClientRepo) Create(_ context.Context, client *domain.Client) (primitive.ObjectID, error) {
	for _, existing := range s.clients {
		if existing.Email == client.Email || existing.Phone == client.Phone {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	return s.add(client), nil
}

func (s *stubClientRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Client, error) {
	client, ok := s.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *client
	return &copied, nil
}

func (s *stubClientRepo) GetByEmail(_ context.Context, email string) (*domain.Client, error) {
	for _, client := range s.clients {
		if client.Email == email {
			copied := *client
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubClientRepo) GetByPhone(_ context.Context, phone string) (*domain.Client, error) {
	for _, client := range s.clients {
		if client.Phone == phone {
			copied := *client
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubClientRepo) List(context.Context, repository.ClientListOptions) ([]domain.Client, error) {
	result := make([]domain.Client, 0, len(s.clients))
	for _, client := range s.clients {
		result = append(result, *client)
	}
	return result, nil
}

func (s *stubClientRepo) Update(_ context.Context, client *domain.Client) error {
	if _, ok := s.clients[client.ID]; !ok {
		return repository.ErrNotFound
	}
	s.clients[client.ID] = client
	return nil
}

func (s *stubClientRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.ClientStatus) error {
	client, ok := s.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	client.Status = status
	return nil
}

func (s *stubClientRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.clients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.clients, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubClientRepo) GetWithContracts(_ context.Context, id primitive.ObjectID) (*domain.ClientWithContracts, error) {
	client, ok := s.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.ClientWithContracts{Client: *client}, nil
}

func (s *stubClientRepo) Stats(context.Context) (*repository.ClientStats, error) {
	stats := &repository.ClientStats{Total: int64(len(s.clients))}
	for _, client := range s.clients {
		switch client.Status {
		case domain.ClientActive:
			stats.Active++
		case domain.ClientInactive:
			stats.Inactive++
		case domain.ClientSuspended:
			stats.Suspended++
		}
	}
	return stats, nil
}

type stubPlanRepo struct {
	plans   map[primitive.ObjectID]*domain.TrainingPlan
	deleted []primitive.ObjectID
}

func newStubPlanRepo() *stubPlanRepo {
	return &stubPlanRepo{plans: make(map[primitive.ObjectID]*domain.TrainingPlan)}
}

func (s *stubPlanRepo) add(plan *domain.TrainingPlan) primitive.ObjectID {
	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	s.plans[plan.ID] = plan
	return plan.ID
}

func (s *stubPlanRepo) snapshot() func() {
	saved := make(map[primitive.ObjectID]domain.TrainingPlan, len(s.plans))
	for id, plan := range s.plans {
		saved[id] = *plan
	}
	deleted := append([]primitive.ObjectID(nil), s.deleted...)
	return func() {
		s.plans = make(map[primitive.ObjectID]*domain.TrainingPlan, len(saved))
		for id, plan := range saved {
			copied := plan
			s.plans[id] = &copied
		}
		s.deleted = deleted
	}
}

func (s *stubPlanRepo) Create(_ context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	return s.add(plan), nil
}

func (s *stubPlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, ok := s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *plan
	return &copied, nil
}

func (s *stubPlanRepo) List(context.Context, repository.PlanListOptions) ([]domain.TrainingPlan, error) {
	result := make([]domain.TrainingPlan, 0, len(s.plans))
	for _, plan := range s.plans {
		result = append(result, *plan)
	}
	return result, nil
}

func (s *stubPlanRepo) Update(_ context.Context, plan *domain.TrainingPlan) error {
	if _, ok := s.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	s.plans[plan.ID] = plan
	return nil
}

func (s *stubPlanRepo) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	plan, ok := s.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	plan.IsActive = active
	return nil
}

func (s *stubPlanRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.plans, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubPlanRepo) GetWithClients(_ context.Context, id primitive.ObjectID) (*domain.PlanWithClients, error) {
	plan, ok := s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.PlanWithClients{TrainingPlan: *plan}, nil
}

func (s *stubPlanRepo) Stats(context.Context) (*repository.PlanStats, error) {
	stats := &repository.PlanStats{Total: int64(len(s.plans))}
	for _, plan := range s.plans {
		if plan.IsActive {
			stats.Active++
		}
	}
	return stats, nil
}

type stubContractRepo struct {
	contracts map[primitive.ObjectID]*domain.Contract
	createErr error
	sweepErr  error
}

func newStubContractRepo() *stubContractRepo {
	return &stubContractRepo{contracts: make(map[primitive.ObjectID]*domain.Contract)}
}

func (s *stubContractRepo) add(contract *domain.Contract) primitive.ObjectID {
	if contract.ID.IsZero() {
		contract.ID = primitive.NewObjectID()
	}
	s.contracts[contract.ID] = contract
	return contract.ID
}

func (s *stubContractRepo) snapshot() func() {
	saved := make(map[primitive.ObjectID]domain.Contract, len(s.contracts))
	for id, contract := range s.contracts {
		saved[id] = *contract
	}
	return func() {
		s.contracts = make(map[primitive.ObjectID]*domain.Contract, len(saved))
		for id, contract := range saved {
			copied := contract
			s.contracts[id] = &copied
		}
	}
}

func (s *stubContractRepo) Create(_ context.Context, contract *domain.Contract) (primitive.ObjectID, error) {
	if s.createErr != nil {
		return primitive.NilObjectID, s.createErr
	}
	return s.add(contract), nil
}

func (s *stubContractRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Contract, error) {
	contract, ok := s.contracts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *contract
	return &copied, nil
}

func (s *stubContractRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.Contract, error) {
	var result []domain.Contract
	for _, contract := range s.contracts {
		if contract.ClientID == clientID {
			result = append(result, *contract)
		}
	}
	return result, nil
}

func (s *stubContractRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.Contract, error) {
	var result []domain.Contract
	for _, contract := range s.contracts {
		if contract.PlanID == planID {
			result = append(result, *contract)
		}
	}
	return result, nil
}

func (s *stubContractRepo) CountActiveForPair(_ context.Context, clientID, planID primitive.ObjectID) (int64, error) {
	var count int64
	for _, contract := range s.contracts {
		if contract.ClientID == clientID && contract.PlanID == planID && contract.Status == domain.ContractActive {
			count++
		}
	}
	return count, nil
}

func (s *stubContractRepo) CountActiveForClient(_ context.Context, clientID primitive.ObjectID) (int64, error) {
	var count int64
	for _, contract := range s.contracts {
		if contract.ClientID == clientID && contract.Status == domain.ContractActive {
			count++
		}
	}
	return count, nil
}

func (s *stubContractRepo) CountActiveForPlan(_ context.Context, planID primitive.ObjectID) (int64, error) {
	var count int64
	for _, contract := range s.contracts {
		if contract.PlanID == planID && contract.Status == domain.ContractActive {
			count++
		}
	}
	return count, nil
}

func (s *stubContractRepo) Renew(_ context.Context, id primitive.ObjectID, newEndDate time.Time) (bool, error) {
	contract, ok := s.contracts[id]
	if !ok || contract.Status == domain.ContractCancelled {
		return false, nil
	}
	contract.EndDate = newEndDate
	contract.Status = domain.ContractActive
	contract.CompletionDate = nil
	return true, nil
}

func (s *stubContractRepo) Cancel(_ context.Context, id primitive.ObjectID, reason string, at time.Time) (bool, error) {
	contract, ok := s.contracts[id]
	if !ok || contract.Status == domain.ContractCancelled || contract.Status == domain.ContractCompleted {
		return false, nil
	}
	contract.Status = domain.ContractCancelled
	contract.CancellationReason = reason
	contract.CancellationDate = &at
	return true, nil
}

func (s *stubContractRepo) Complete(_ context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	contract, ok := s.contracts[id]
	if !ok || contract.Status != domain.ContractActive {
		return false, nil
	}
	contract.Status = domain.ContractCompleted
	contract.CompletionDate = &at
	return true, nil
}

func (s *stubContractRepo) CancelAllNonActiveByClient(_ context.Context, clientID primitive.ObjectID, reason string, at time.Time) (int64, error) {
	if s.sweepErr != nil {
		return 0, s.sweepErr
	}
	var swept int64
	for _, contract := range s.contracts {
		if contract.ClientID == clientID && contract.Status != domain.ContractActive {
			contract.Status = domain.ContractCancelled
			contract.CancellationReason = reason
			contract.CancellationDate = &at
			swept++
		}
	}
	return swept, nil
}

func (s *stubContractRepo) CancelAllNonActiveByPlan(_ context.Context, planID primitive.ObjectID, reason string, at time.Time) (int64, error) {
	if s.sweepErr != nil {
		return 0, s.sweepErr
	}
	var swept int64
	for _, contract := range s.contracts {
		if contract.PlanID == planID && contract.Status != domain.ContractActive {
			contract.Status = domain.ContractCancelled
			contract.CancellationReason = reason
			contract.CancellationDate = &at
			swept++
		}
	}
	return swept, nil
}

func (s *stubContractRepo) FindActive(_ context.Context, _ time.Time) ([]domain.Contract, error) {
	var result []domain.Contract
	for _, contract := range s.contracts {
		if contract.Status == domain.ContractActive {
			result = append(result, *contract)
		}
	}
	return result, nil
}

func (s *stubContractRepo) FindExpiring(_ context.Context, now time.Time, within time.Duration) ([]domain.Contract, error) {
	var result []domain.Contract
	cutoff := now.Add(within)
	for _, contract := range s.contracts {
		if contract.Status == domain.ContractActive && contract.EndDate.After(now) && !contract.EndDate.After(cutoff) {
			result = append(result, *contract)
		}
	}
	return result, nil
}

func (s *stubContractRepo) FindExpired(_ context.Context, now time.Time) ([]domain.Contract, error) {
	var result []domain.Contract
	for _, contract := range s.contracts {
		if contract.Status == domain.ContractActive && contract.EndDate.Before(now) {
			result = append(result, *contract)
		}
	}
	return result, nil
}

func (s *stubContractRepo) GetWithDetails(_ context.Context, id primitive.ObjectID) (*domain.ContractWithDetails, error) {
	contract, ok := s.contracts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.ContractWithDetails{Contract: *contract}, nil
}

// snapshotter captures a stub repo's state and hands back a restore
// closure, so the tx runner can undo writes on abort.
type snapshotter interface {
	snapshot() func()
}

// stubTxRunner runs the callback directly. When the callback fails it
// restores every registered repo to its pre-transaction state, mirroring
// the all-or-nothing behavior of the real runner.
type stubTxRunner struct {
	repos      []snapshotter
	calls      int
	rolledBack bool
}

func (s *stubTxRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.calls++
	restores := make([]func(), 0, len(s.repos))
	for _, repo := range s.repos {
		restores = append(restores, repo.snapshot())
	}
	if err := fn(ctx); err != nil {
		s.rolledBack = true
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// --- shared fixtures ---

func mustDay(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parsing day %q: %v", value, err)
	}
	return day
}

func activeTestClient() *domain.Client {
	return &domain.Client{
		FirstName: "Ana",
		LastName:  "Silva",
		Email:     "ana.silva@example.com",
		Phone:     "+34611222333",
		BirthDate: time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC),
		Gender:    "female",
		EmergencyContact: domain.EmergencyContact{
			Name:  "Jo Silva",
			Phone: "+34611222334",
		},
		Status: domain.ClientActive,
	}
}

func activeTestPlan(weeks int, price float64) *domain.TrainingPlan {
	return &domain.TrainingPlan{
		Name:          "Strength Foundation",
		Description:   "Basic strength program",
		DurationWeeks: weeks,
		Level:         domain.LevelBeginner,
		Price:         price,
		IsActive:      true,
	}
}

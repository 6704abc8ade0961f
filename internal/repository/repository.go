package repository

import (
	"context"
	"time"

	"rfortes/gym-studio/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxRunner runs a function inside one storage transaction. The callback
// receives a session-scoped context; every repository call made with
// that context joins the transaction. On normal return the transaction
// commits, on error it aborts — and the session is released on every
// exit path either way.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ClientListOptions narrows client listings.
type ClientListOptions struct {
	Status string
	Search string
	Limit  int64
	Skip   int64
}

// ClientStats is the status breakdown of the clients collection.
type ClientStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Inactive  int64 `json:"inactive"`
	Suspended int64 `json:"suspended"`
}

// ClientRepository defines the interface for interacting with client data.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Client, error)
	List(ctx context.Context, opts ClientListOptions) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ClientStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetWithContracts(ctx context.Context, id primitive.ObjectID) (*domain.ClientWithContracts, error)
	Stats(ctx context.Context) (*ClientStats, error)
}

// PlanListOptions narrows training plan listings.
type PlanListOptions struct {
	Level    string
	Active   *bool
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Limit    int64
	Skip     int64
}

// PlanStats is the aggregate view of the training plan catalogue.
type PlanStats struct {
	Total        int64   `json:"total"`
	Active       int64   `json:"active"`
	AveragePrice float64 `json:"averagePrice"`
}

// TrainingPlanRepository defines the interface for interacting with plan data.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	List(ctx context.Context, opts PlanListOptions) ([]domain.TrainingPlan, error)
	Update(ctx context.Context, plan *domain.TrainingPlan) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetWithClients(ctx context.Context, id primitive.ObjectID) (*domain.PlanWithClients, error)
	Stats(ctx context.Context) (*PlanStats, error)
}

// ContractRepository defines the interface for interacting with contract
// data. The status-changing methods carry their allowed source states in
// the update filter, so each transition is atomic with respect to the
// read-modify-write of status: the returned bool is false when no
// document in an allowed state matched.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Contract, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Contract, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Contract, error)
	CountActiveForPair(ctx context.Context, clientID, planID primitive.ObjectID) (int64, error)
	CountActiveForClient(ctx context.Context, clientID primitive.ObjectID) (int64, error)
	CountActiveForPlan(ctx context.Context, planID primitive.ObjectID) (int64, error)

	// Renew extends the end date and forces status back to active.
	// Matches any non-cancelled contract.
	Renew(ctx context.Context, id primitive.ObjectID, newEndDate time.Time) (bool, error)
	// Cancel transitions to cancelled, recording reason and timestamp.
	// Matches neither cancelled nor completed contracts.
	Cancel(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) (bool, error)
	// Complete transitions an active contract to completed.
	Complete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)

	// The cascade sweeps used by client/plan deletion: every contract of
	// the owner that is not currently active is marked cancelled.
	CancelAllNonActiveByClient(ctx context.Context, clientID primitive.ObjectID, reason string, at time.Time) (int64, error)
	CancelAllNonActiveByPlan(ctx context.Context, planID primitive.ObjectID, reason string, at time.Time) (int64, error)

	FindActive(ctx context.Context, now time.Time) ([]domain.Contract, error)
	FindExpiring(ctx context.Context, now time.Time, within time.Duration) ([]domain.Contract, error)
	FindExpired(ctx context.Context, now time.Time) ([]domain.Contract, error)
	GetWithDetails(ctx context.Context, id primitive.ObjectID) (*domain.ContractWithDetails, error)
}

// NutritionPlanRepository defines the interface for nutrition plan data.
type NutritionPlanRepository interface {
	Create(ctx context.Context, plan *domain.NutritionPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.NutritionPlan, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.NutritionPlan, error)
	Update(ctx context.Context, plan *domain.NutritionPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PhysicalTrackingRepository defines the interface for tracking data.
type PhysicalTrackingRepository interface {
	Create(ctx context.Context, record *domain.PhysicalTracking) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PhysicalTracking, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.PhysicalTracking, error)
	Update(ctx context.Context, record *domain.PhysicalTracking) error
	AddPhoto(ctx context.Context, id primitive.ObjectID, photo domain.ProgressPhoto) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// FinancialFilter narrows financial record listings.
type FinancialFilter struct {
	Type     string
	ClientID *primitive.ObjectID
	From     *time.Time
	To       *time.Time
}

// FinancialSummary is the aggregate income/expense view.
type FinancialSummary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// FinancialRecordRepository defines the interface for financial data.
type FinancialRecordRepository interface {
	Create(ctx context.Context, record *domain.FinancialRecord) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FinancialRecord, error)
	List(ctx context.Context, filter FinancialFilter) ([]domain.FinancialRecord, error)
	Summary(ctx context.Context, filter FinancialFilter) (*FinancialSummary, error)
}

// StaffRepository defines the interface for staff account data.
type StaffRepository interface {
	Create(ctx context.Context, user *domain.StaffUser) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.StaffUser, error)
}

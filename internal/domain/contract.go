package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContractStatus type for the contract lifecycle
type ContractStatus string

const (
	ContractActive    ContractStatus = "active"
	ContractCompleted ContractStatus = "completed"
	ContractCancelled ContractStatus = "cancelled"
)

// PaymentSchedule type for how the contract price is collected
type PaymentSchedule string

const (
	PayMonthly PaymentSchedule = "monthly"
	PayWeekly  PaymentSchedule = "weekly"
	PayFull    PaymentSchedule = "full"
)

// Contract binds one client to one training plan for [StartDate, EndDate).
// Contracts are created only through the assignment workflow, mutated
// only through renew/cancel/complete, and never physically deleted:
// cancelled and completed are terminal logical states.
//
// Price is copied from the plan at assignment time; later plan price
// changes never affect an existing contract.
type Contract struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID           primitive.ObjectID `bson:"clientId" json:"clientId"`
	PlanID             primitive.ObjectID `bson:"planId" json:"planId"`
	StartDate          time.Time          `bson:"startDate" json:"startDate"`
	EndDate            time.Time          `bson:"endDate" json:"endDate"`
	Price              float64            `bson:"price" json:"price"`
	Terms              []string           `bson:"terms" json:"terms"`
	Status             ContractStatus     `bson:"status" json:"status"`
	PaymentSchedule    PaymentSchedule    `bson:"paymentSchedule" json:"paymentSchedule"`
	CancellationReason string             `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CancellationDate   *time.Time         `bson:"cancellationDate,omitempty" json:"cancellationDate,omitempty"`
	CompletionDate     *time.Time         `bson:"completionDate,omitempty" json:"completionDate,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultContractTerms is the boilerplate attached to a contract when no
// explicit terms are supplied.
func DefaultContractTerms() []string {
	return []string{
		"The client commits to attending the scheduled sessions regularly.",
		"Payment is due on time according to the agreed schedule.",
		"The gym reserves the right to cancel the contract on breach of terms.",
		"Cancellations must be notified at least 48 hours in advance.",
		"The client must disclose any relevant medical condition.",
		"The gym is not liable for injuries caused by misuse of equipment.",
	}
}

// IsCurrent reports whether the contract is active and now falls inside
// its date range.
func (c *Contract) IsCurrent() bool {
	now := time.Now()
	return c.Status == ContractActive && !now.Before(c.StartDate) && !now.After(c.EndDate)
}

func (c *Contract) IsExpired() bool {
	return time.Now().After(c.EndDate)
}

// DaysRemaining returns the number of days until EndDate, rounded up.
// Negative for expired contracts.
func (c *Contract) DaysRemaining() int {
	remaining := time.Until(c.EndDate)
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

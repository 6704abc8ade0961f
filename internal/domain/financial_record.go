package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordType type for financial record direction
type RecordType string

const (
	RecordIncome  RecordType = "income"
	RecordExpense RecordType = "expense"
)

// PaymentMethod type for how money moved
type PaymentMethod string

const (
	PayCash     PaymentMethod = "cash"
	PayCard     PaymentMethod = "card"
	PayTransfer PaymentMethod = "transfer"
)

// FinancialRecord is a flat bookkeeping entry. These are logs, not a
// reconciled ledger: nothing downstream balances or settles them.
type FinancialRecord struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Type          RecordType          `bson:"type" json:"type"`
	Category      string              `bson:"category" json:"category"`
	Amount        float64             `bson:"amount" json:"amount"`
	Description   string              `bson:"description,omitempty" json:"description,omitempty"`
	Date          time.Time           `bson:"date" json:"date"`
	ClientID      *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	ContractID    *primitive.ObjectID `bson:"contractId,omitempty" json:"contractId,omitempty"`
	PaymentMethod PaymentMethod       `bson:"paymentMethod" json:"paymentMethod"`
	Reference     string              `bson:"reference,omitempty" json:"reference,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

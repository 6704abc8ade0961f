package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressPhoto is metadata for a photo stored in object storage. The
// file itself lives in S3 under ObjectKey; only the key is persisted.
type ProgressPhoto struct {
	ID          primitive.ObjectID `bson:"id" json:"id"`
	ObjectKey   string             `bson:"objectKey" json:"objectKey"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}

// PhysicalTracking is one measurement snapshot for a client under a
// contract: weight, composition and tape measurements. It references
// (clientId, contractId) but carries no back-pressure on the contract
// lifecycle.
type PhysicalTracking struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID     primitive.ObjectID `bson:"clientId" json:"clientId"`
	ContractID   primitive.ObjectID `bson:"contractId" json:"contractId"`
	Date         time.Time          `bson:"date" json:"date"`
	Weight       *float64           `bson:"weight,omitempty" json:"weight,omitempty"`         // kg, (0, 300]
	BodyFat      *float64           `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"`       // percent, [0, 50]
	MuscleMass   *float64           `bson:"muscleMass,omitempty" json:"muscleMass,omitempty"` // percent, [0, 100]
	Measurements map[string]float64 `bson:"measurements,omitempty" json:"measurements,omitempty"`
	Photos       []ProgressPhoto    `bson:"photos,omitempty" json:"photos,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

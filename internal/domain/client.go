package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientStatus type for the client lifecycle
type ClientStatus string

const (
	ClientActive    ClientStatus = "active"
	ClientInactive  ClientStatus = "inactive"
	ClientSuspended ClientStatus = "suspended"
)

// EmergencyContact is the person to call when something goes wrong on
// the gym floor. Name and phone are both required.
type EmergencyContact struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
}

// Client represents a gym member. Email and phone are unique across the
// collection (enforced by indexes, see repository/mongo). A client with
// an active contract cannot be deleted.
type Client struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName         string             `bson:"firstName" json:"firstName"`
	LastName          string             `bson:"lastName" json:"lastName"`
	Email             string             `bson:"email" json:"email"`
	Phone             string             `bson:"phone" json:"phone"`
	BirthDate         time.Time          `bson:"birthDate" json:"birthDate"`
	Gender            string             `bson:"gender" json:"gender"` // male, female, other
	EmergencyContact  EmergencyContact   `bson:"emergencyContact" json:"emergencyContact"`
	MedicalConditions []string           `bson:"medicalConditions,omitempty" json:"medicalConditions,omitempty"`
	Goals             []string           `bson:"goals,omitempty" json:"goals,omitempty"`
	Status            ClientStatus       `bson:"status" json:"status"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (c *Client) FullName() string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}

// Age computes the client's age in full years as of now.
func (c *Client) Age() int {
	now := time.Now()
	age := now.Year() - c.BirthDate.Year()
	if now.Month() < c.BirthDate.Month() ||
		(now.Month() == c.BirthDate.Month() && now.Day() < c.BirthDate.Day()) {
		age--
	}
	return age
}

func (c *Client) IsActive() bool {
	return c.Status == ClientActive
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StaffRole type to distinguish staff permissions
type StaffRole string

const (
	RoleAdmin StaffRole = "admin"
	RoleCoach StaffRole = "coach"
)

// StaffUser is a gym employee account used to authenticate against the
// API. Clients themselves never log in.
type StaffUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // never expose via JSON
	Role         StaffRole          `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *StaffUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanLevel type for training plan difficulty
type PlanLevel string

const (
	LevelBeginner     PlanLevel = "beginner"
	LevelIntermediate PlanLevel = "intermediate"
	LevelAdvanced     PlanLevel = "advanced"
)

// DefaultRestSeconds is used when an exercise entry has no rest time.
const DefaultRestSeconds = 60

// PlanExercise is one exercise entry inside a training plan.
type PlanExercise struct {
	ID           primitive.ObjectID `bson:"id" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Sets         int                `bson:"sets" json:"sets"`
	Reps         int                `bson:"reps" json:"reps"`
	Weight       *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	RestSeconds  int                `bson:"restSeconds" json:"restSeconds"`
	Instructions string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
}

// TrainingPlan is a sellable program: duration in whole weeks, a price
// and a level. A plan with an active contract cannot be deleted or
// deactivated.
type TrainingPlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	DurationWeeks int                `bson:"duration" json:"duration"` // whole weeks, 1..52
	Level         PlanLevel          `bson:"level" json:"level"`
	Goals         []string           `bson:"goals,omitempty" json:"goals,omitempty"`
	Exercises     []PlanExercise     `bson:"exercises,omitempty" json:"exercises,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Macros is the macronutrient split of a nutrition plan, in percent.
// When set, the three values must sum to 100.
type Macros struct {
	Protein int `bson:"protein" json:"protein"`
	Carbs   int `bson:"carbs" json:"carbs"`
	Fats    int `bson:"fats" json:"fats"`
}

// Food is a single item inside a meal.
type Food struct {
	Name     string  `bson:"name" json:"name"`
	Quantity string  `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Calories float64 `bson:"calories,omitempty" json:"calories,omitempty"`
}

// Meal groups foods under a named slot (breakfast, lunch, ...).
type Meal struct {
	ID            primitive.ObjectID `bson:"id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Time          string             `bson:"time,omitempty" json:"time,omitempty"`
	Foods         []Food             `bson:"foods" json:"foods"`
	TotalCalories float64            `bson:"totalCalories" json:"totalCalories"`
}

// NutritionPlan is a diet attached to a client under a contract. It
// references (clientId, contractId) but carries no back-pressure on the
// contract lifecycle.
type NutritionPlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	ContractID    primitive.ObjectID `bson:"contractId" json:"contractId"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	DailyCalories float64            `bson:"dailyCalories" json:"dailyCalories"` // 800..5000
	Macros        *Macros            `bson:"macros,omitempty" json:"macros,omitempty"`
	Meals         []Meal             `bson:"meals,omitempty" json:"meals,omitempty"`
	Restrictions  []string           `bson:"restrictions,omitempty" json:"restrictions,omitempty"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MealCalories sums the per-food calories of a meal.
func MealCalories(foods []Food) float64 {
	var total float64
	for _, f := range foods {
		total += f.Calories
	}
	return total
}

// Package validation holds pure per-entity validators. Each validator
// checks every rule and returns a single errs.ValidationError carrying
// all violations at once, so callers never see a partial report.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/errs"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{10,15}$`)
)

// Client validates a candidate client.
func Client(c *domain.Client) error {
	var violations []string

	if len(strings.TrimSpace(c.FirstName)) < 2 {
		violations = append(violations, "first name must be at least 2 characters")
	}
	if len(strings.TrimSpace(c.LastName)) < 2 {
		violations = append(violations, "last name must be at least 2 characters")
	}
	if !emailPattern.MatchString(c.Email) {
		violations = append(violations, "email is invalid")
	}
	if !phonePattern.MatchString(c.Phone) {
		violations = append(violations, "phone is invalid")
	}
	if c.BirthDate.IsZero() {
		violations = append(violations, "birth date is required")
	} else if age := ageAt(c.BirthDate, time.Now()); age < 16 || age > 100 {
		violations = append(violations, "age must be between 16 and 100")
	}
	switch c.Gender {
	case "male", "female", "other":
	default:
		violations = append(violations, "gender must be male, female or other")
	}
	if c.EmergencyContact.Name == "" || c.EmergencyContact.Phone == "" {
		violations = append(violations, "emergency contact name and phone are required")
	}
	switch c.Status {
	case domain.ClientActive, domain.ClientInactive, domain.ClientSuspended:
	default:
		violations = append(violations, "status must be active, inactive or suspended")
	}

	return errs.NewValidation("client", violations)
}

// TrainingPlan validates a candidate training plan.
func TrainingPlan(p *domain.TrainingPlan) error {
	var violations []string

	if len(strings.TrimSpace(p.Name)) < 3 {
		violations = append(violations, "plan name must be at least 3 characters")
	}
	if len(strings.TrimSpace(p.Description)) < 10 {
		violations = append(violations, "description must be at least 10 characters")
	}
	if p.DurationWeeks < 1 || p.DurationWeeks > 52 {
		violations = append(violations, "duration must be between 1 and 52 weeks")
	}
	switch p.Level {
	case domain.LevelBeginner, domain.LevelIntermediate, domain.LevelAdvanced:
	default:
		violations = append(violations, "level must be beginner, intermediate or advanced")
	}
	if p.Price <= 0 {
		violations = append(violations, "price must be greater than 0")
	}
	for i, ex := range p.Exercises {
		if ex.Name == "" || ex.Sets <= 0 || ex.Reps <= 0 {
			violations = append(violations, "exercise "+strconv.Itoa(i+1)+" needs a name, sets and reps")
		}
	}

	return errs.NewValidation("training plan", violations)
}

// Contract validates a candidate contract. The workflow engine builds
// contracts itself, so this is a consistency net rather than an input
// filter.
func Contract(c *domain.Contract) error {
	var violations []string

	if c.ClientID.IsZero() {
		violations = append(violations, "client id is required")
	}
	if c.PlanID.IsZero() {
		violations = append(violations, "plan id is required")
	}
	if c.StartDate.IsZero() {
		violations = append(violations, "start date is required")
	}
	if c.EndDate.IsZero() {
		violations = append(violations, "end date is required")
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && !c.StartDate.Before(c.EndDate) {
		violations = append(violations, "start date must be before end date")
	}
	if c.Price <= 0 {
		violations = append(violations, "price must be greater than 0")
	}
	switch c.Status {
	case domain.ContractActive, domain.ContractCompleted, domain.ContractCancelled:
	default:
		violations = append(violations, "status must be active, completed or cancelled")
	}
	switch c.PaymentSchedule {
	case domain.PayMonthly, domain.PayWeekly, domain.PayFull:
	default:
		violations = append(violations, "payment schedule must be monthly, weekly or full")
	}

	return errs.NewValidation("contract", violations)
}

// NutritionPlan validates a candidate nutrition plan.
func NutritionPlan(p *domain.NutritionPlan) error {
	var violations []string

	if p.ClientID.IsZero() {
		violations = append(violations, "client id is required")
	}
	if p.ContractID.IsZero() {
		violations = append(violations, "contract id is required")
	}
	if len(strings.TrimSpace(p.Name)) < 3 {
		violations = append(violations, "plan name must be at least 3 characters")
	}
	if p.DailyCalories < 800 || p.DailyCalories > 5000 {
		violations = append(violations, "daily calories must be between 800 and 5000")
	}
	if p.Macros != nil && p.Macros.Protein+p.Macros.Carbs+p.Macros.Fats != 100 {
		violations = append(violations, "macros must sum to 100 percent")
	}
	for i, meal := range p.Meals {
		if meal.Name == "" || len(meal.Foods) == 0 {
			violations = append(violations, "meal "+strconv.Itoa(i+1)+" needs a name and at least one food")
		}
	}

	return errs.NewValidation("nutrition plan", violations)
}

// PhysicalTracking validates a candidate tracking record.
func PhysicalTracking(t *domain.PhysicalTracking) error {
	var violations []string

	if t.ClientID.IsZero() {
		violations = append(violations, "client id is required")
	}
	if t.ContractID.IsZero() {
		violations = append(violations, "contract id is required")
	}
	if t.Date.IsZero() {
		violations = append(violations, "date is required")
	}
	if t.Weight != nil && (*t.Weight <= 0 || *t.Weight > 300) {
		violations = append(violations, "weight must be between 0 and 300 kg")
	}
	if t.BodyFat != nil && (*t.BodyFat < 0 || *t.BodyFat > 50) {
		violations = append(violations, "body fat must be between 0 and 50 percent")
	}
	if t.MuscleMass != nil && (*t.MuscleMass < 0 || *t.MuscleMass > 100) {
		violations = append(violations, "muscle mass must be between 0 and 100 percent")
	}
	for part, value := range t.Measurements {
		if part == "" || value <= 0 {
			violations = append(violations, "measurements must have a body part and a positive value")
			break
		}
	}

	return errs.NewValidation("physical tracking", violations)
}

// FinancialRecord validates a candidate financial record.
func FinancialRecord(r *domain.FinancialRecord) error {
	var violations []string

	switch r.Type {
	case domain.RecordIncome, domain.RecordExpense:
	default:
		violations = append(violations, "type must be income or expense")
	}
	if len(strings.TrimSpace(r.Category)) < 2 {
		violations = append(violations, "category must be at least 2 characters")
	}
	if r.Amount <= 0 {
		violations = append(violations, "amount must be greater than 0")
	}
	if r.Date.IsZero() {
		violations = append(violations, "date is required")
	}
	switch r.PaymentMethod {
	case domain.PayCash, domain.PayCard, domain.PayTransfer:
	default:
		violations = append(violations, "payment method must be cash, card or transfer")
	}

	return errs.NewValidation("financial record", violations)
}

func ageAt(birth, at time.Time) int {
	age := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		age--
	}
	return age
}


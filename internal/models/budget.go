package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Budget is the persisted monthly budget document. Uniqueness per
// (user, month, year) is not enforced; duplicate budgets for the same
// period are allowed until product says otherwise.
type Budget struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	User          primitive.ObjectID `bson:"user"`
	Month         int                `bson:"month"`
	Year          int                `bson:"year"`
	MonthlyGoal   float64            `bson:"monthlyGoal"`
	SavingsTarget float64            `bson:"savingsTarget"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// BudgetRecord is the transport-safe view of a Budget.
type BudgetRecord struct {
	ID            string    `json:"id"`
	User          string    `json:"user"`
	Month         int       `json:"month"`
	Year          int       `json:"year"`
	MonthlyGoal   float64   `json:"monthlyGoal"`
	SavingsTarget float64   `json:"savingsTarget"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (b *Budget) Record() BudgetRecord {
	return BudgetRecord{
		ID:            b.ID.Hex(),
		User:          b.User.Hex(),
		Month:         b.Month,
		Year:          b.Year,
		MonthlyGoal:   b.MonthlyGoal,
		SavingsTarget: b.SavingsTarget,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction kinds. A document whose type is neither contributes to no
// summary bucket.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is the persisted income/expense document.
type Transaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Type      string             `bson:"type"`
	Category  string             `bson:"category"`
	Amount    float64            `bson:"amount"`
	Date      time.Time          `bson:"date"`
	Note      string             `bson:"note,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// TransactionRecord is the transport-safe view of a Transaction.
type TransactionRecord struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Date      time.Time `json:"date"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Transaction) Record() TransactionRecord {
	return TransactionRecord{
		ID:        t.ID.Hex(),
		User:      t.User.Hex(),
		Type:      t.Type,
		Category:  t.Category,
		Amount:    t.Amount,
		Date:      t.Date,
		Note:      t.Note,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// Summary aggregates transaction amounts by kind.
type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

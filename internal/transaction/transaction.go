package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a single income or expense record.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"` // Currency units, always > 0
	Type        Type            `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"` // UTC midnight; time of day carries no meaning
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

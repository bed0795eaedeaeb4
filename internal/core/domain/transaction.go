package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a money movement.
type TransactionType string

const (
	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"
)

// Transaction is a single posted money movement. Transactions are append-only:
// once a posting succeeds, the record is never mutated.
//
// INCOME requires ToAccountID only, EXPENSE requires FromAccountID only,
// TRANSFER requires both (and they must differ).
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary key (UUID)
	UserID          string          `json:"userID"`        // FK -> users.user_id
	Amount          decimal.Decimal `json:"amount"`        // Positive, minimum 0.01
	Currency        Currency        `json:"currency"`      // Must match every touched account
	TransactionType TransactionType `json:"transactionType"`
	FromAccountID   *string         `json:"fromAccountID"` // Nullable FK -> accounts.account_id
	ToAccountID     *string         `json:"toAccountID"`   // Nullable FK -> accounts.account_id
	CategoryID      *string         `json:"categoryID"`    // Nullable FK -> categories.category_id
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transactionDate"`
	CreatedAt       time.Time       `json:"createdAt"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors the transaction_type column values.
type TransactionType string

// Transaction represents a row of the transactions table. Rows are
// append-only; there is no updated_at column.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	UserID          string          `db:"user_id"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	TransactionType TransactionType `db:"transaction_type"`
	FromAccountID   *string         `db:"from_account_id"`
	ToAccountID     *string         `db:"to_account_id"`
	CategoryID      *string         `db:"category_id"`
	Description     string          `db:"description"`
	TransactionDate time.Time       `db:"transaction_date"`
	CreatedAt       time.Time       `db:"created_at"`
}

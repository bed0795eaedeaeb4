package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors the account_type column values.
type AccountType string

// Account represents a row of the accounts table.
type Account struct {
	AccountID     string          `db:"account_id"`
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	AccountType   AccountType     `db:"account_type"`
	CurrencyCode  string          `db:"currency_code"`
	Balance       decimal.Decimal `db:"balance"`
	AccountNumber string          `db:"account_number"`
	BankName      string          `db:"bank_name"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}

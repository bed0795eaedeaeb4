package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringRule represents a row of the recurring_rules table.
type RecurringRule struct {
	RuleID          string          `db:"rule_id"`
	UserID          string          `db:"user_id"`
	AccountID       string          `db:"account_id"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	TransactionType TransactionType `db:"transaction_type"`
	Frequency       string          `db:"frequency"`
	Description     string          `db:"description"`
	StartDate       time.Time       `db:"start_date"`
	EndDate         *time.Time      `db:"end_date"`
	NextRunDate     time.Time       `db:"next_run_date"`
	CategoryID      *string         `db:"category_id"`
	IsActive        bool            `db:"is_active"`
	AuditFields
}

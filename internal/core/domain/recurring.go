package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringFrequency defines how often a recurring rule fires.
type RecurringFrequency string

const (
	Daily     RecurringFrequency = "DAILY"
	Weekly    RecurringFrequency = "WEEKLY"
	Biweekly  RecurringFrequency = "BIWEEKLY"
	Monthly   RecurringFrequency = "MONTHLY"
	Quarterly RecurringFrequency = "QUARTERLY"
	Yearly    RecurringFrequency = "YEARLY"
)

// Next computes the occurrence that follows the given date. Month and year
// frequencies use calendar arithmetic, preserving the day-of-month semantics
// of time.AddDate.
func (f RecurringFrequency) Next(from time.Time) time.Time {
	switch f {
	case Daily:
		return from.AddDate(0, 0, 1)
	case Weekly:
		return from.AddDate(0, 0, 7)
	case Biweekly:
		return from.AddDate(0, 0, 14)
	case Monthly:
		return from.AddDate(0, 1, 0)
	case Quarterly:
		return from.AddDate(0, 3, 0)
	case Yearly:
		return from.AddDate(1, 0, 0)
	}
	return from
}

// IsValid reports whether f belongs to the supported frequency set.
func (f RecurringFrequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Biweekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// RecurringRule is a template from which the scheduler materializes
// transactions. The rule is stored separately from the transactions it emits,
// so editing a rule never rewrites history.
//
// Only INCOME and EXPENSE rules are supported for automated posting.
type RecurringRule struct {
	RuleID          string             `json:"ruleID"` // Primary key (UUID)
	UserID          string             `json:"userID"`
	AccountID       string             `json:"accountID"`
	Amount          decimal.Decimal    `json:"amount"`
	Currency        Currency           `json:"currency"`
	TransactionType TransactionType    `json:"transactionType"`
	Frequency       RecurringFrequency `json:"frequency"`
	Description     string             `json:"description"`
	StartDate       time.Time          `json:"startDate"`
	EndDate         *time.Time         `json:"endDate"` // nil = runs forever
	NextRunDate     time.Time          `json:"nextRunDate"`
	CategoryID      *string            `json:"categoryID"`
	IsActive        bool               `json:"isActive"`
	AuditFields
}

// RuleRunResult records the outcome of processing one due rule in a batch.
// The batch never aborts on a single rule; callers inspect the collected
// results to decide on logging or alerting.
type RuleRunResult struct {
	RuleID        string
	TransactionID string // set when the derived transaction posted successfully
	Err           error  // nil on success
}

package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies an account. The set is closed; credit-bearing types
// are the only ones allowed to carry a negative balance.
type AccountType string

const (
	Checking   AccountType = "CHECKING"
	Savings    AccountType = "SAVINGS"
	CreditCard AccountType = "CREDIT_CARD"
	Cash       AccountType = "CASH"
	Investment AccountType = "INVESTMENT"
)

// IsCreditBearing reports whether the account type may go negative after a posting.
func (t AccountType) IsCreditBearing() bool {
	return t == CreditCard
}

// Account represents a financial account within the core domain.
// Ownership is one-directional: the account holds a reference to its owner,
// transactions hold references to accounts. There are no back-references.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary key (UUID)
	UserID        string          `json:"userID"`        // FK -> users.user_id (NON-NULL)
	Name          string          `json:"name"`          // User-defined name
	AccountType   AccountType     `json:"accountType"`   // CHECKING, SAVINGS, etc.
	Currency      Currency        `json:"currency"`      // Closed currency set
	Balance       decimal.Decimal `json:"balance"`       // Persisted balance, 2 fractional digits
	AccountNumber string          `json:"accountNumber"` // 8-digit human-facing number, unique
	BankName      string          `json:"bankName"`      // Nullable
	IsActive      bool            `json:"isActive"`      // Soft-delete flag
	AuditFields
}

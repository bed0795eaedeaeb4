package dto

import (
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name          string             `json:"name" binding:"required"`
	AccountType   domain.AccountType `json:"accountType" binding:"required,oneof=CHECKING SAVINGS CREDIT_CARD CASH INVESTMENT"`
	Currency      domain.Currency    `json:"currency" binding:"omitempty,oneof=USD INR EUR GBP JPY CAD AUD CHF"` // Defaults to the owner's default currency
	AccountNumber string             `json:"accountNumber" binding:"omitempty,len=8,numeric"`                   // Generated when absent
	BankName      string             `json:"bankName"`
	// InitialBalance defaults to zero. Pointer distinguishes "absent" from "0".
	InitialBalance *decimal.Decimal `json:"initialBalance"`
}

// UpdateAccountRequest defines the fields allowed for updating an account.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateAccountRequest struct {
	Name     *string `json:"name"`
	BankName *string `json:"bankName"`
}

// UpdateBalanceRequest carries a low-level balance correction.
type UpdateBalanceRequest struct {
	Balance decimal.Decimal `json:"balance" binding:"required"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	UserID        string             `json:"userID"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	Currency      domain.Currency    `json:"currency"`
	Balance       decimal.Decimal    `json:"balance"`
	AccountNumber string             `json:"accountNumber"`
	BankName      string             `json:"bankName,omitempty"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		UserID:        acc.UserID,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		Currency:      acc.Currency,
		Balance:       acc.Balance,
		AccountNumber: acc.AccountNumber,
		BankName:      acc.BankName,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.UpdatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts to response DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// BalanceSummaryResponse reports per-currency totals across active accounts.
type BalanceSummaryResponse struct {
	Balances map[domain.Currency]decimal.Decimal `json:"balances"`
}

package dto

import (
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is the posting draft accepted by the ledger engine.
type CreateTransactionRequest struct {
	Amount          decimal.Decimal        `json:"amount" binding:"required,dgte=0.01"`
	Currency        domain.Currency        `json:"currency" binding:"required,oneof=USD INR EUR GBP JPY CAD AUD CHF"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	FromAccountID   *string                `json:"fromAccountID"`
	ToAccountID     *string                `json:"toAccountID"`
	CategoryID      *string                `json:"categoryID"`
	Description     string                 `json:"description"`
	// TransactionDate defaults to the posting time when absent.
	TransactionDate *time.Time `json:"transactionDate"`
}

// TransactionResponse defines the data returned for a posted transaction.
type TransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	UserID          string                 `json:"userID"`
	Amount          decimal.Decimal        `json:"amount"`
	Currency        domain.Currency        `json:"currency"`
	TransactionType domain.TransactionType `json:"transactionType"`
	FromAccountID   *string                `json:"fromAccountID,omitempty"`
	ToAccountID     *string                `json:"toAccountID,omitempty"`
	CategoryID      *string                `json:"categoryID,omitempty"`
	Description     string                 `json:"description"`
	TransactionDate time.Time              `json:"transactionDate"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		UserID:          txn.UserID,
		Amount:          txn.Amount,
		Currency:        txn.Currency,
		TransactionType: txn.TransactionType,
		FromAccountID:   txn.FromAccountID,
		ToAccountID:     txn.ToAccountID,
		CategoryID:      txn.CategoryID,
		Description:     txn.Description,
		TransactionDate: txn.TransactionDate,
		CreatedAt:       txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions to DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams holds query parameters for listing account transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions with its cursor.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// DateRangeParams holds query parameters for date-bounded listings.
type DateRangeParams struct {
	StartDate time.Time `form:"startDate" time_format:"2006-01-02" binding:"required"`
	EndDate   time.Time `form:"endDate" time_format:"2006-01-02" binding:"required"`
}

// CategoryExpenseResponse reports the expense total for one category.
type CategoryExpenseResponse struct {
	CategoryID string          `json:"categoryID"`
	Total      decimal.Decimal `json:"total"`
}

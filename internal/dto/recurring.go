package dto

import (
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecurringRuleRequest defines the data needed to create a recurring rule.
// Dates are calendar dates in YYYY-MM-DD form; only INCOME and EXPENSE rules
// are accepted for automated posting.
type CreateRecurringRuleRequest struct {
	AccountID       string                    `json:"accountID" binding:"required"`
	Amount          decimal.Decimal           `json:"amount" binding:"required,dgte=0.01"`
	Currency        domain.Currency           `json:"currency" binding:"required,oneof=USD INR EUR GBP JPY CAD AUD CHF"`
	TransactionType domain.TransactionType    `json:"transactionType" binding:"required,oneof=INCOME EXPENSE"`
	Frequency       domain.RecurringFrequency `json:"frequency" binding:"required,oneof=DAILY WEEKLY BIWEEKLY MONTHLY QUARTERLY YEARLY"`
	Description     string                    `json:"description" binding:"required"`
	StartDate       string                    `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate         *string                   `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	CategoryID      *string                   `json:"categoryID"`
}

// UpdateRecurringRuleRequest covers the future-only fields a rule owner may
// edit. Past-emitted transactions are never rewritten.
type UpdateRecurringRuleRequest struct {
	Description *string                    `json:"description"`
	Amount      *decimal.Decimal           `json:"amount"`
	Frequency   *domain.RecurringFrequency `json:"frequency" binding:"omitempty,oneof=DAILY WEEKLY BIWEEKLY MONTHLY QUARTERLY YEARLY"`
	EndDate     *string                    `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	CategoryID  *string                    `json:"categoryID"`
}

// RecurringRuleResponse defines the data returned for a recurring rule.
type RecurringRuleResponse struct {
	RuleID          string                    `json:"ruleID"`
	UserID          string                    `json:"userID"`
	AccountID       string                    `json:"accountID"`
	Amount          decimal.Decimal           `json:"amount"`
	Currency        domain.Currency           `json:"currency"`
	TransactionType domain.TransactionType    `json:"transactionType"`
	Frequency       domain.RecurringFrequency `json:"frequency"`
	Description     string                    `json:"description"`
	StartDate       string                    `json:"startDate"`
	EndDate         *string                   `json:"endDate,omitempty"`
	NextRunDate     string                    `json:"nextRunDate"`
	CategoryID      *string                   `json:"categoryID,omitempty"`
	IsActive        bool                      `json:"isActive"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
}

// ToRecurringRuleResponse converts a domain.RecurringRule to its response DTO.
func ToRecurringRuleResponse(rule *domain.RecurringRule) RecurringRuleResponse {
	resp := RecurringRuleResponse{
		RuleID:          rule.RuleID,
		UserID:          rule.UserID,
		AccountID:       rule.AccountID,
		Amount:          rule.Amount,
		Currency:        rule.Currency,
		TransactionType: rule.TransactionType,
		Frequency:       rule.Frequency,
		Description:     rule.Description,
		StartDate:       rule.StartDate.Format(time.DateOnly),
		NextRunDate:     rule.NextRunDate.Format(time.DateOnly),
		CategoryID:      rule.CategoryID,
		IsActive:        rule.IsActive,
		CreatedAt:       rule.CreatedAt,
		UpdatedAt:       rule.UpdatedAt,
	}
	if rule.EndDate != nil {
		end := rule.EndDate.Format(time.DateOnly)
		resp.EndDate = &end
	}
	return resp
}

// ToRecurringRuleResponses converts a slice of rules to response DTOs.
func ToRecurringRuleResponses(rules []domain.RecurringRule) []RecurringRuleResponse {
	res := make([]RecurringRuleResponse, len(rules))
	for i := range rules {
		res[i] = ToRecurringRuleResponse(&rules[i])
	}
	return res
}

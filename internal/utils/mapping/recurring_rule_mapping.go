package mapping

import (
	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/epsilon-fin/epsilon_backend/internal/models"
)

// ToModelRecurringRule converts a domain RecurringRule to a model RecurringRule
func ToModelRecurringRule(d domain.RecurringRule) models.RecurringRule {
	return models.RecurringRule{
		RuleID:          d.RuleID,
		UserID:          d.UserID,
		AccountID:       d.AccountID,
		Amount:          d.Amount,
		CurrencyCode:    string(d.Currency),
		TransactionType: models.TransactionType(d.TransactionType),
		Frequency:       string(d.Frequency),
		Description:     d.Description,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		NextRunDate:     d.NextRunDate,
		CategoryID:      d.CategoryID,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecurringRule converts a model RecurringRule to a domain RecurringRule
func ToDomainRecurringRule(m models.RecurringRule) domain.RecurringRule {
	return domain.RecurringRule{
		RuleID:          m.RuleID,
		UserID:          m.UserID,
		AccountID:       m.AccountID,
		Amount:          m.Amount,
		Currency:        domain.Currency(m.CurrencyCode),
		TransactionType: domain.TransactionType(m.TransactionType),
		Frequency:       domain.RecurringFrequency(m.Frequency),
		Description:     m.Description,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		NextRunDate:     m.NextRunDate,
		CategoryID:      m.CategoryID,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRecurringRuleSlice converts a slice of model RecurringRules to a slice of domain RecurringRules
func ToDomainRecurringRuleSlice(ms []models.RecurringRule) []domain.RecurringRule {
	ds := make([]domain.RecurringRule, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRecurringRule(m)
	}
	return ds
}

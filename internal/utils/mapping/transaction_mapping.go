package mapping

import (
	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/epsilon-fin/epsilon_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		UserID:          d.UserID,
		Amount:          d.Amount,
		CurrencyCode:    string(d.Currency),
		TransactionType: models.TransactionType(d.TransactionType),
		FromAccountID:   d.FromAccountID,
		ToAccountID:     d.ToAccountID,
		CategoryID:      d.CategoryID,
		Description:     d.Description,
		TransactionDate: d.TransactionDate,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		UserID:          m.UserID,
		Amount:          m.Amount,
		Currency:        domain.Currency(m.CurrencyCode),
		TransactionType: domain.TransactionType(m.TransactionType),
		FromAccountID:   m.FromAccountID,
		ToAccountID:     m.ToAccountID,
		CategoryID:      m.CategoryID,
		Description:     m.Description,
		TransactionDate: m.TransactionDate,
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

package mapping

import (
	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/epsilon-fin/epsilon_backend/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:          d.UserID,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		DefaultCurrency: string(d.DefaultCurrency),
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:          m.UserID,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		DefaultCurrency: domain.Currency(m.DefaultCurrency),
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}

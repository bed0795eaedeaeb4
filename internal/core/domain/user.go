package domain

// User is the owner of accounts, categories and recurring rules.
type User struct {
	UserID          string   `json:"userID"` // Primary key (UUID)
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"` // Unique
	PasswordHash    string   `json:"-"`     // bcrypt hash, never serialized
	DefaultCurrency Currency `json:"defaultCurrency"`
	IsActive        bool     `json:"isActive"`
	AuditFields
}

package models

// User represents a row of the users table.
type User struct {
	UserID          string `db:"user_id"`
	FirstName       string `db:"first_name"`
	LastName        string `db:"last_name"`
	Email           string `db:"email"`
	PasswordHash    string `db:"password_hash"`
	DefaultCurrency string `db:"default_currency"`
	IsActive        bool   `db:"is_active"`
	AuditFields
}

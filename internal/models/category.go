package models

// Category represents a row of the categories table.
type Category struct {
	CategoryID  string `db:"category_id"`
	UserID      string `db:"user_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	ColorCode   string `db:"color_code"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}

package domain

// Category is a per-user label for transactions and recurring rules.
// Category names are unique within a user.
type Category struct {
	CategoryID  string `json:"categoryID"` // Primary key (UUID)
	UserID      string `json:"userID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ColorCode   string `json:"colorCode"` // Display hint, e.g. "#FF8800"
	IsActive    bool   `json:"isActive"`
	AuditFields
}

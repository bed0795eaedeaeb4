package domain

import "time"

// AuditFields holds the standard timestamps carried by mutable domain entities.
// Transactions are append-only and track CreatedAt on their own.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

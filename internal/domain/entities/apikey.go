package entities

import "time"

// APIKey is a per-user credential for an external service, keyed by service
// name. A user holds at most one key per service; saving again replaces the
// stored value and reactivates the key.
type APIKey struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ServiceName string    `json:"service_name"`
	Key         string    `json:"api_key"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

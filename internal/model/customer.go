package model

import "time"

// Customer is upserted by normalized phone at intake; the stored name is
// corrected when the caller supplies a different one.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"` // digits only
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

package entity

import "time"

// CustomerProfile caches the provider-side customer record for a platform
// user. At most one profile exists per (UserID, Mode).
type CustomerProfile struct {
	ID     uint64
	UserID string

	// Mode is "test" or "live"; test and live provider accounts hold
	// disjoint customer records.
	Mode string

	CustomerID  string
	SavedCardID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

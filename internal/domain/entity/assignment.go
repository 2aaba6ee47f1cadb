package entity

import "time"

// Assignment vincula un vendedor con una sede.
// Code identifica el linaje del puesto: una transferencia conserva el código.
type Assignment struct {
	ID         int64
	Code       string
	UserID     int64
	LocationID int64
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

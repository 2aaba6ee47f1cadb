package dto

import "time"

// CreateAssignmentRequest alta de asignación vendedor ↔ sede.
type CreateAssignmentRequest struct {
	UserID     int64 `json:"user_id" validate:"required,gt=0"`
	LocationID int64 `json:"location_id" validate:"required,gt=0"`
}

// UpdateAssignmentStatusRequest activa o desactiva una asignación.
type UpdateAssignmentStatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// TransferAssignmentRequest transfiere el puesto a otro vendedor.
type TransferAssignmentRequest struct {
	NewSalespersonID int64 `json:"new_salesperson_id" validate:"required,gt=0"`
}

// AssignmentResponse salida de una asignación, con nombres resueltos cuando se conocen.
type AssignmentResponse struct {
	ID           int64     `json:"id"`
	Code         string    `json:"assignment_code"`
	UserID       int64     `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	LocationID   int64     `json:"location_id"`
	LocationName string    `json:"location_name,omitempty"`
	Active       bool      `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

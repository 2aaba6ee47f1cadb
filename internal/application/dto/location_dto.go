package dto

import "time"

// LocationRequest alta o renombrado de sede.
type LocationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=150"`
}

// LocationResponse salida de una sede.
type LocationResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

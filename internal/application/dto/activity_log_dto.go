package dto

import "time"

// ActivityLogFilter filtros de GET /api/activity-logs.
type ActivityLogFilter struct {
	UserID    *int64
	LogType   string `validate:"omitempty,oneof=AUTH CUSTOMER ASSIGNMENT USER_MGMT LOCATION"`
	Activity  string
	StartDate *time.Time
	EndDate   *time.Time
	PageRequest
}

// ActivityLogResponse salida de una entrada de auditoría.
type ActivityLogResponse struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id"`
	Activity  string    `json:"activity"`
	LogType   string    `json:"log_type"`
	EntityID  *int64    `json:"entity_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

package entity

import "time"

// LogType clasifica una entrada de auditoría.
type LogType string

const (
	LogTypeAuth       LogType = "AUTH"
	LogTypeCustomer   LogType = "CUSTOMER"
	LogTypeAssignment LogType = "ASSIGNMENT"
	LogTypeUserMgmt   LogType = "USER_MGMT"
	LogTypeLocation   LogType = "LOCATION"
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t LogType) Valid() bool {
	switch t {
	case LogTypeAuth, LogTypeCustomer, LogTypeAssignment, LogTypeUserMgmt, LogTypeLocation:
		return true
	}
	return false
}

// ActivityLog es una entrada inmutable de auditoría.
// UserID es nil cuando no se pudo resolver el actor (p. ej. login con email inexistente).
// EntityID apunta al registro afectado (cliente, asignación, usuario o sede).
type ActivityLog struct {
	ID        int64
	UserID    *int64
	Activity  string
	Type      LogType
	EntityID  *int64
	CreatedAt time.Time
}

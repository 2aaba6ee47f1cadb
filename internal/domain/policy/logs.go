package policy

import (
	"slices"

	"github.com/jhoicas/salestrack-api/internal/domain/entity"
)

// LogScope restringe las entradas de auditoría visibles.
// ActorLocationID filtra por la sede del usuario que generó la entrada.
type LogScope struct {
	Types           []entity.LogType
	UserID          *int64
	ActorLocationID *int64
}

// AllowsType indica si el tipo de log es visible (Types vacío = todos).
func (s LogScope) AllowsType(t entity.LogType) bool {
	return len(s.Types) == 0 || slices.Contains(s.Types, t)
}

// Allows evalúa una entrada concreta; author es el usuario que la generó (puede ser nil).
func (s LogScope) Allows(l *entity.ActivityLog, author *entity.User) bool {
	if l == nil || !s.AllowsType(l.Type) {
		return false
	}
	if s.UserID != nil && (l.UserID == nil || *l.UserID != *s.UserID) {
		return false
	}
	if s.ActorLocationID != nil && !author.InLocation(*s.ActorLocationID) {
		return false
	}
	return true
}

// LogReadScope reproduce la tabla de visibilidad de la auditoría por rol.
func LogReadScope(a Actor) (LogScope, error) {
	switch a.Role {
	case entity.RoleSuperAdmin:
		return LogScope{}, nil
	case entity.RoleLocationManager:
		return LogScope{
			Types:           []entity.LogType{entity.LogTypeAssignment, entity.LogTypeCustomer, entity.LogTypeLocation},
			ActorLocationID: ptr(a.LocationID),
		}, nil
	case entity.RoleSalesperson:
		return LogScope{
			Types:  []entity.LogType{entity.LogTypeCustomer, entity.LogTypeAuth},
			UserID: ptr(a.UserID),
		}, nil
	}
	return LogScope{}, unknownRole(a)
}

// AuthorizeUserLogs valida la consulta del historial de un usuario concreto.
func AuthorizeUserLogs(a Actor, target *entity.User) error {
	switch a.Role {
	case entity.RoleSuperAdmin:
		return nil
	case entity.RoleLocationManager:
		if !target.InLocation(a.LocationID) {
			return forbidden("el usuario pertenece a otra sede")
		}
		return nil
	case entity.RoleSalesperson:
		if target == nil || target.ID != a.UserID {
			return forbidden("sólo puede consultar su propio historial")
		}
		return nil
	}
	return unknownRole(a)
}

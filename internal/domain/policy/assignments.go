package policy

import "github.com/jhoicas/salestrack-api/internal/domain/entity"

// AssignmentScope restringe las asignaciones visibles.
type AssignmentScope struct {
	LocationID *int64
	UserID     *int64
}

// Allows indica si la asignación cae dentro del alcance.
func (s AssignmentScope) Allows(asg *entity.Assignment) bool {
	if asg == nil {
		return false
	}
	if s.LocationID != nil && asg.LocationID != *s.LocationID {
		return false
	}
	if s.UserID != nil && asg.UserID != *s.UserID {
		return false
	}
	return true
}

// AssignmentReadScope: gerente su sede, vendedor sus propias asignaciones.
func AssignmentReadScope(a Actor) (AssignmentScope, error) {
	switch a.Role {
	case entity.RoleSuperAdmin:
		return AssignmentScope{}, nil
	case entity.RoleLocationManager:
		return AssignmentScope{LocationID: ptr(a.LocationID)}, nil
	case entity.RoleSalesperson:
		return AssignmentScope{UserID: ptr(a.UserID)}, nil
	}
	return AssignmentScope{}, unknownRole(a)
}

// AuthorizeAssignmentRead valida la lectura individual de una asignación.
func AuthorizeAssignmentRead(a Actor, asg *entity.Assignment) error {
	scope, err := AssignmentReadScope(a)
	if err != nil {
		return err
	}
	if !scope.Allows(asg) {
		return forbidden("la asignación está fuera de su alcance")
	}
	return nil
}

// AuthorizeAssignmentWrite cubre crear, activar/desactivar, transferir y eliminar
// asignaciones en la sede dada.
func AuthorizeAssignmentWrite(a Actor, locationID int64) error {
	switch a.Role {
	case entity.RoleSuperAdmin:
		return nil
	case entity.RoleLocationManager:
		if locationID != a.LocationID {
			return forbidden("sólo puede gestionar asignaciones de su sede")
		}
		return nil
	case entity.RoleSalesperson:
		return forbidden("un vendedor sólo puede consultar sus asignaciones")
	}
	return unknownRole(a)
}

package policy

import "github.com/jhoicas/salestrack-api/internal/domain/entity"

// AuthorizeLocationWrite: crear, renombrar y eliminar sedes es exclusivo de super-admin.
func AuthorizeLocationWrite(a Actor) error {
	switch a.Role {
	case entity.RoleSuperAdmin:
		return nil
	case entity.RoleLocationManager, entity.RoleSalesperson:
		return forbidden("sólo super-admin puede gestionar sedes")
	}
	return unknownRole(a)
}

package policy

import "github.com/jhoicas/salestrack-api/internal/domain/entity"

// UserScope restringe las cuentas visibles.
type UserScope struct {
	LocationID *int64
	UserID     *int64
}

// Allows indica si el usuario cae dentro del alcance.
func (s UserScope) Allows(u *entity.User) bool {
	if u == nil {
		return false
	}
	if s.LocationID != nil && !u.InLocation(*s.LocationID) {
		return false
	}
	if s.UserID != nil && u.ID != *s.UserID {
		return false
	}
	return true
}

// UserReadScope: el gerente ve las cuentas de su sede; el vendedor sólo la suya.
func UserReadScope(a Actor) (UserScope, error) {
	switch a.Role {
	case entity.RoleSuperAdmin:
		return UserScope{}, nil
	case entity.RoleLocationManager:
		return UserScope{LocationID: ptr(a.LocationID)}, nil
	case entity.RoleSalesperson:
		return UserScope{UserID: ptr(a.UserID)}, nil
	}
	return UserScope{}, unknownRole(a)
}

// AuthorizeUserRead valida la lectura individual de una cuenta.
func AuthorizeUserRead(a Actor, u *entity.User) error {
	if u != nil && u.ID == a.UserID {
		return nil
	}
	scope, err := UserReadScope(a)
	if err != nil {
		return err
	}
	if !scope.Allows(u) {
		return forbidden("la cuenta está fuera de su alcance")
	}
	return nil
}

// AuthorizeUserCreate: sólo super-admin crea cuentas.
func AuthorizeUserCreate(a Actor) error {
	switch a.Role {
	case entity.RoleSuperAdmin:
		return nil
	case entity.RoleLocationManager, entity.RoleSalesperson:
		return forbidden("sólo super-admin puede crear usuarios")
	}
	return unknownRole(a)
}

// AuthorizeUserUpdate: super-admin modifica cualquier cuenta; el resto sólo la propia
// y sin tocar campos privilegiados (rol, sede).
func AuthorizeUserUpdate(a Actor, target *entity.User, privileged bool) error {
	switch a.Role {
	case entity.RoleSuperAdmin:
		return nil
	case entity.RoleLocationManager, entity.RoleSalesperson:
		if target == nil || target.ID != a.UserID {
			return forbidden("sólo puede modificar su propia cuenta")
		}
		if privileged {
			return forbidden("no puede cambiar su rol ni su sede")
		}
		return nil
	}
	return unknownRole(a)
}

// AuthorizeUserDelete: borrado (individual o masivo) reservado a super-admin.
// Nadie puede eliminar su propia cuenta: la entrada de auditoría la referencia.
func AuthorizeUserDelete(a Actor, targetIDs ...int64) error {
	switch a.Role {
	case entity.RoleSuperAdmin:
		for _, id := range targetIDs {
			if id == a.UserID {
				return forbidden("no puede eliminar su propia cuenta")
			}
		}
		return nil
	case entity.RoleLocationManager, entity.RoleSalesperson:
		return forbidden("sólo super-admin puede eliminar usuarios")
	}
	return unknownRole(a)
}

// AuthorizePasswordChange: la propia cuenta, o cualquiera para super-admin.
func AuthorizePasswordChange(a Actor, targetID int64) error {
	switch a.Role {
	case entity.RoleSuperAdmin:
		return nil
	case entity.RoleLocationManager, entity.RoleSalesperson:
		if targetID != a.UserID {
			return forbidden("sólo puede cambiar su propia contraseña")
		}
		return nil
	}
	return unknownRole(a)
}

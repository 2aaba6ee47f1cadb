// Package policy concentra las reglas de autorización por rol y sede.
// Es puro: no accede a la base de datos; los servicios cargan las entidades
// y le preguntan qué alcance (scope) aplicar o si la acción está permitida.
package policy

import (
	"fmt"

	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
)

// Actor es la identidad autenticada que ejecuta una operación.
// LocationID es 0 para super-admin.
type Actor struct {
	UserID     int64
	Role       entity.Role
	LocationID int64
}

// Validate rechaza identidades incompletas antes de evaluar cualquier regla.
func (a Actor) Validate() error {
	if a.UserID <= 0 || !a.Role.Valid() {
		return domain.ErrUnauthenticated
	}
	if a.Role.Scoped() && a.LocationID <= 0 {
		return fmt.Errorf("%w: el rol %s requiere una sede", domain.ErrForbidden, a.Role)
	}
	return nil
}

// IsSuperAdmin indica si el actor no tiene restricciones de alcance.
func (a Actor) IsSuperAdmin() bool { return a.Role == entity.RoleSuperAdmin }

// ID devuelve un puntero al id del actor para atribuir entradas de auditoría.
func (a Actor) ID() *int64 {
	id := a.UserID
	return &id
}

func ptr(v int64) *int64 { return &v }

func forbidden(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrForbidden, reason)
}

func unknownRole(a Actor) error {
	return fmt.Errorf("%w: rol %q", domain.ErrUnauthenticated, a.Role)
}

package entity

import (
	"fmt"
	"strings"
)

// Role es el rol cerrado de un usuario. No es editable en tiempo de ejecución.
type Role string

const (
	RoleSuperAdmin      Role = "super-admin"
	RoleLocationManager Role = "location-manager"
	RoleSalesperson     Role = "salesperson"
)

// Identificadores numéricos de la tabla roles.
const (
	RoleIDSuperAdmin      = 1
	RoleIDLocationManager = 2
	RoleIDSalesperson     = 3
)

// Valid indica si el rol pertenece al conjunto cerrado.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleLocationManager, RoleSalesperson:
		return true
	}
	return false
}

// ID devuelve el role_id persistido (0 si el rol no es válido).
func (r Role) ID() int {
	switch r {
	case RoleSuperAdmin:
		return RoleIDSuperAdmin
	case RoleLocationManager:
		return RoleIDLocationManager
	case RoleSalesperson:
		return RoleIDSalesperson
	}
	return 0
}

// Scoped indica si el rol está limitado a una sede.
func (r Role) Scoped() bool {
	return r == RoleLocationManager || r == RoleSalesperson
}

// ParseRole acepta el nombre del rol sin distinguir mayúsculas.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("rol desconocido %q", s)
	}
	return r, nil
}

// RoleFromID traduce un role_id de la base de datos.
func RoleFromID(id int) (Role, error) {
	switch id {
	case RoleIDSuperAdmin:
		return RoleSuperAdmin, nil
	case RoleIDLocationManager:
		return RoleLocationManager, nil
	case RoleIDSalesperson:
		return RoleSalesperson, nil
	}
	return "", fmt.Errorf("role_id desconocido %d", id)
}

package entity

import "time"

// User representa una cuenta del sistema.
// LocationID es nil sólo para super-admin (sin sede).
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	LocationID   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InLocation indica si el usuario pertenece a la sede dada.
func (u *User) InLocation(locationID int64) bool {
	return u != nil && u.LocationID != nil && *u.LocationID == locationID
}

// IsSalesperson indica si el usuario tiene rol de vendedor.
func (u *User) IsSalesperson() bool {
	return u != nil && u.Role == RoleSalesperson
}

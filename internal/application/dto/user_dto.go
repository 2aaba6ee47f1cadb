package dto

import (
	"strings"
	"time"
)

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Role       string `json:"role" validate:"required,oneof=super-admin location-manager salesperson"`
	LocationID *int64 `json:"location_id" validate:"omitempty,gt=0"`
}

// Normalize recorta espacios y pasa el email a minúsculas antes de validar.
func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
}

// UpdateUserRequest parche parcial: sólo se aplican los campos presentes.
// Role y LocationID son campos privilegiados (sólo super-admin).
type UpdateUserRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Role       *string `json:"role" validate:"omitempty,oneof=super-admin location-manager salesperson"`
	LocationID *int64  `json:"location_id" validate:"omitempty,gt=0"`
}

// Normalize recorta nombre y email presentes en el parche.
func (r *UpdateUserRequest) Normalize() {
	r.Name = trimPtr(r.Name)
	if r.Email != nil {
		e := NormalizeEmail(*r.Email)
		r.Email = &e
	}
}

// ChangePasswordRequest cambio de contraseña con verificación de la actual.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// DeleteUsersRequest borrado masivo.
type DeleteUsersRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

// DeleteUsersResponse resultado del borrado masivo.
type DeleteUsersResponse struct {
	Deleted int64    `json:"deleted"`
	Emails  []string `json:"emails"`
}

// UserFilter filtros de GET /api/users (getUsersByLocationAndRole).
type UserFilter struct {
	LocationID *int64
	Role       string `validate:"omitempty,oneof=super-admin location-manager salesperson"`
	Name       string
	PageRequest
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	RoleID     int       `json:"role_id"`
	LocationID *int64    `json:"location_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Normalize deja el email en su forma canónica.
func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

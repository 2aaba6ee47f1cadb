package repository

import (
	"context"
	"errors"

	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
)

// ErrCodeTaken indica que el código candidato ya existe; el llamador reintenta con otro.
var ErrCodeTaken = errors.New("assignment code already in use")

// AssignmentFilter combina alcance y filtros opcionales.
type AssignmentFilter struct {
	Scope      policy.AssignmentScope
	LocationID *int64
	UserID     *int64
	Code       *string
	Active     *bool
	// NewestFirst ordena por created_at descendente en lugar de por código.
	NewestFirst bool
}

// AssignmentRepository define el puerto de persistencia para asignaciones.
type AssignmentRepository interface {
	// Create inserta una asignación que abre un linaje nuevo.
	// Devuelve ErrCodeTaken si el código ya existe en cualquier fila y
	// domain.ErrDuplicateAssignment si ya hay una activa para (user_id, location_id).
	Create(ctx context.Context, a *entity.Assignment) error
	// Continue inserta una asignación que hereda el código de otra (transferencia).
	Continue(ctx context.Context, a *entity.Assignment) error
	GetByID(ctx context.Context, id int64) (*entity.Assignment, error)
	FindActive(ctx context.Context, userID, locationID int64) (*entity.Assignment, error)
	// SetActive devuelve domain.ErrDuplicateAssignment o domain.ErrConflict si la
	// activación choca con los índices únicos parciales.
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	// List ordena por código descendente (o por fecha, ver NewestFirst) y luego por id descendente.
	List(ctx context.Context, filter AssignmentFilter) ([]*entity.Assignment, error)
}

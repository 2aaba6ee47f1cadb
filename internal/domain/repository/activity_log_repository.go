package repository

import (
	"context"
	"time"

	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
)

// ActivityLogFilter combina el alcance de auditoría con filtros opcionales.
type ActivityLogFilter struct {
	Scope     policy.LogScope
	UserID    *int64
	Type      *entity.LogType
	// EntityIDs vacío = cualquier entidad.
	EntityIDs []int64
	Activity  string // subcadena, sin distinguir mayúsculas
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// ActivityLogRepository es de sólo inserción: no existe Update ni Delete.
type ActivityLogRepository interface {
	Append(ctx context.Context, l *entity.ActivityLog) error
	GetByID(ctx context.Context, id int64) (*entity.ActivityLog, error)
	// List devuelve las entradas más recientes primero.
	List(ctx context.Context, filter ActivityLogFilter) ([]*entity.ActivityLog, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/salestrack-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para sedes.
type LocationRepository interface {
	Create(ctx context.Context, loc *entity.Location) error
	GetByID(ctx context.Context, id int64) (*entity.Location, error)
	List(ctx context.Context) ([]*entity.Location, error)
	Update(ctx context.Context, loc *entity.Location) error
	// Delete devuelve domain.ErrConflict si la sede sigue referenciada.
	Delete(ctx context.Context, id int64) error
}

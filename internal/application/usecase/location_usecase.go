package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/application/ports"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
	"github.com/jhoicas/salestrack-api/pkg/validator"
)

// LocationUseCase casos de uso CRUD para sedes.
type LocationUseCase struct {
	repos ports.Repos
	tx    ports.TxRunner
	audit *activity.Service
	now   func() time.Time
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repos ports.Repos, tx ports.TxRunner, audit *activity.Service) *LocationUseCase {
	return &LocationUseCase{repos: repos, tx: tx, audit: audit, now: time.Now}
}

// Create crea una nueva sede.
func (uc *LocationUseCase) Create(ctx context.Context, actor policy.Actor, in dto.LocationRequest) (*dto.LocationResponse, error) {
	if err := uc.authorize(actor, in); err != nil {
		return nil, err
	}
	var loc *entity.Location
	var entry *entity.ActivityLog
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		now := uc.now().UTC()
		loc = &entity.Location{Name: strings.TrimSpace(in.Name), CreatedAt: now, UpdatedAt: now}
		if err := r.Locations.Create(ctx, loc); err != nil {
			return err
		}
		var err error
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeLocation,
			EntityID: &loc.ID,
			Activity: fmt.Sprintf("Created location %s", loc.Name),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Publish(ctx, entry)
	out := dto.FromLocation(loc)
	return &out, nil
}

// Rename cambia el nombre de una sede.
func (uc *LocationUseCase) Rename(ctx context.Context, actor policy.Actor, id int64, in dto.LocationRequest) (*dto.LocationResponse, error) {
	if err := uc.authorize(actor, in); err != nil {
		return nil, err
	}
	var loc *entity.Location
	var entry *entity.ActivityLog
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		var err error
		if loc, err = requireLocation(ctx, r, id); err != nil {
			return err
		}
		old := loc.Name
		loc.Name = strings.TrimSpace(in.Name)
		loc.UpdatedAt = uc.now().UTC()
		if err := r.Locations.Update(ctx, loc); err != nil {
			return err
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeLocation,
			EntityID: &loc.ID,
			Activity: fmt.Sprintf("Renamed location %s to %s", old, loc.Name),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Publish(ctx, entry)
	out := dto.FromLocation(loc)
	return &out, nil
}

// Delete elimina una sede sin referencias (domain.ErrConflict si las tiene).
func (uc *LocationUseCase) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := policy.AuthorizeLocationWrite(actor); err != nil {
		return err
	}
	var entry *entity.ActivityLog
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		loc, err := requireLocation(ctx, r, id)
		if err != nil {
			return err
		}
		if err := r.Locations.Delete(ctx, loc.ID); err != nil {
			return err
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeLocation,
			EntityID: &loc.ID,
			Activity: fmt.Sprintf("Deleted location %s", loc.Name),
		})
		return err
	})
	if err != nil {
		return err
	}
	uc.audit.Publish(ctx, entry)
	return nil
}

// List devuelve todas las sedes ordenadas por id.
func (uc *LocationUseCase) List(ctx context.Context, actor policy.Actor) ([]dto.LocationResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	locs, err := uc.repos.Locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	out := make([]dto.LocationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, dto.FromLocation(l))
	}
	return out, nil
}

// GetByID obtiene una sede.
func (uc *LocationUseCase) GetByID(ctx context.Context, actor policy.Actor, id int64) (*dto.LocationResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	loc, err := requireLocation(ctx, uc.repos, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromLocation(loc)
	return &out, nil
}

func (uc *LocationUseCase) authorize(actor policy.Actor, in dto.LocationRequest) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := policy.AuthorizeLocationWrite(actor); err != nil {
		return err
	}
	return validator.Struct(in)
}

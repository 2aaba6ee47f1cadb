// Package assignments gestiona las asignaciones vendedor ↔ sede: unicidad de la
// asignación activa, generación del código de linaje y transferencias.
package assignments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/application/ports"
	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/assignment"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
	"github.com/jhoicas/salestrack-api/internal/domain/repository"
	"github.com/jhoicas/salestrack-api/pkg/validator"
)

// UseCase casos de uso de asignaciones.
type UseCase struct {
	repos ports.Repos
	tx    ports.TxRunner
	audit *activity.Service
	now   func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos ports.Repos, tx ports.TxRunner, audit *activity.Service) *UseCase {
	return &UseCase{repos: repos, tx: tx, audit: audit, now: time.Now}
}

// CreateAssignment asigna un vendedor a una sede con un código de linaje nuevo.
func (uc *UseCase) CreateAssignment(ctx context.Context, actor policy.Actor, in dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	if err := policy.AuthorizeAssignmentWrite(actor, in.LocationID); err != nil {
		return nil, err
	}

	var out dto.AssignmentResponse
	var entry *entity.ActivityLog
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		loc, err := getLocation(ctx, r, in.LocationID)
		if err != nil {
			return err
		}
		user, err := getSalesperson(ctx, r, in.UserID)
		if err != nil {
			return err
		}
		active, err := r.Assignments.FindActive(ctx, user.ID, loc.ID)
		if err != nil {
			return fmt.Errorf("find active assignment: %w", err)
		}
		if active != nil {
			return fmt.Errorf("%w: %s en %s", domain.ErrDuplicateAssignment, user.Name, loc.Name)
		}

		now := uc.now().UTC()
		a := &entity.Assignment{UserID: user.ID, LocationID: loc.ID, Active: true, CreatedAt: now, UpdatedAt: now}
		if err := insertWithFreshCode(ctx, r, a, now.Year()); err != nil {
			return err
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeAssignment,
			EntityID: &a.ID,
			Activity: fmt.Sprintf("Assigned salesperson %s to location %s (code %s)", user.Name, loc.Name, a.Code),
		})
		out = withNames(a, user, loc)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Publish(ctx, entry)
	return &out, nil
}

// insertWithFreshCode prueba códigos candidatos hasta encontrar uno libre.
// La unicidad la garantiza la base de datos; aquí sólo se reintenta.
func insertWithFreshCode(ctx context.Context, r ports.Repos, a *entity.Assignment, year int) error {
	for attempt := 0; attempt < assignment.MaxCodeAttempts; attempt++ {
		a.Code = assignment.Code(year, a.LocationID, a.UserID, attempt)
		err := r.Assignments.Create(ctx, a)
		if errors.Is(err, repository.ErrCodeTaken) {
			continue
		}
		if err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("%w: no hay códigos de asignación libres para la sede %d", domain.ErrConflict, a.LocationID)
}

// UpdateAssignmentStatus activa o desactiva una asignación.
func (uc *UseCase) UpdateAssignmentStatus(ctx context.Context, actor policy.Actor, id int64, in dto.UpdateAssignmentStatusRequest) (*dto.AssignmentResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	activate := *in.Active

	var out dto.AssignmentResponse
	var entry *entity.ActivityLog
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		a, err := getAssignment(ctx, r, id)
		if err != nil {
			return err
		}
		if err := policy.AuthorizeAssignmentWrite(actor, a.LocationID); err != nil {
			return err
		}
		if activate && !a.Active {
			if err := ensureActivatable(ctx, r, a); err != nil {
				return err
			}
		}
		if err := r.Assignments.SetActive(ctx, a.ID, activate); err != nil {
			return err
		}
		a.Active = activate
		a.UpdatedAt = uc.now().UTC()

		user, loc, err := names(ctx, r, a)
		if err != nil {
			return err
		}
		verb := "Deactivated"
		if activate {
			verb = "Activated"
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeAssignment,
			EntityID: &a.ID,
			Activity: fmt.Sprintf("%s assignment %s for %s at %s", verb, a.Code, user.Name, loc.Name),
		})
		out = withNames(a, user, loc)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Publish(ctx, entry)
	return &out, nil
}

// ensureActivatable comprueba los dos invariantes de la asignación activa:
// un solo (vendedor, sede) activo y un solo puesto activo por código.
func ensureActivatable(ctx context.Context, r ports.Repos, a *entity.Assignment) error {
	active, err := r.Assignments.FindActive(ctx, a.UserID, a.LocationID)
	if err != nil {
		return fmt.Errorf("find active assignment: %w", err)
	}
	if active != nil && active.ID != a.ID {
		return fmt.Errorf("%w: asignación %d", domain.ErrDuplicateAssignment, active.ID)
	}
	yes := true
	sameCode, err := r.Assignments.List(ctx, repository.AssignmentFilter{Code: &a.Code, Active: &yes})
	if err != nil {
		return fmt.Errorf("list assignments by code: %w", err)
	}
	for _, other := range sameCode {
		if other.ID != a.ID {
			return fmt.Errorf("%w: el código %s ya tiene un puesto activo", domain.ErrConflict, a.Code)
		}
	}
	return nil
}

// TransferAssignment desactiva la asignación origen y crea otra activa para el nuevo
// vendedor en la misma sede, conservando el código de linaje.
func (uc *UseCase) TransferAssignment(ctx context.Context, actor policy.Actor, id int64, in dto.TransferAssignmentRequest) (*dto.AssignmentResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	var out dto.AssignmentResponse
	var entry *entity.ActivityLog
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		src, err := getAssignment(ctx, r, id)
		if err != nil {
			return err
		}
		if err := policy.AuthorizeAssignmentWrite(actor, src.LocationID); err != nil {
			return err
		}
		if !src.Active {
			return fmt.Errorf("%w: la asignación %d no está activa", domain.ErrConflict, src.ID)
		}
		next, err := getSalesperson(ctx, r, in.NewSalespersonID)
		if err != nil {
			return err
		}
		if next.ID == src.UserID {
			return fmt.Errorf("%w: el vendedor ya ocupa el puesto", domain.ErrConflict)
		}
		active, err := r.Assignments.FindActive(ctx, next.ID, src.LocationID)
		if err != nil {
			return fmt.Errorf("find active assignment: %w", err)
		}
		if active != nil {
			return fmt.Errorf("%w: asignación %d", domain.ErrDuplicateAssignment, active.ID)
		}
		prev, loc, err := names(ctx, r, src)
		if err != nil {
			return err
		}

		if err := r.Assignments.SetActive(ctx, src.ID, false); err != nil {
			return err
		}
		now := uc.now().UTC()
		dst := &entity.Assignment{
			Code:       src.Code,
			UserID:     next.ID,
			LocationID: src.LocationID,
			Active:     true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.Assignments.Continue(ctx, dst); err != nil {
			return err
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeAssignment,
			EntityID: &dst.ID,
			Activity: fmt.Sprintf("Transferred assignment %s at %s from %s to %s", src.Code, loc.Name, prev.Name, next.Name),
		})
		out = withNames(dst, next, loc)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Publish(ctx, entry)
	return &out, nil
}

// DeleteAssignment elimina la fila. La auditoría se escribe antes porque necesita sus datos.
func (uc *UseCase) DeleteAssignment(ctx context.Context, actor policy.Actor, id int64) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	var entry *entity.ActivityLog
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		a, err := getAssignment(ctx, r, id)
		if err != nil {
			return err
		}
		if err := policy.AuthorizeAssignmentWrite(actor, a.LocationID); err != nil {
			return err
		}
		user, loc, err := names(ctx, r, a)
		if err != nil {
			return err
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeAssignment,
			EntityID: &a.ID,
			Activity: fmt.Sprintf("Deleted assignment %s of %s at %s", a.Code, user.Name, loc.Name),
		})
		if err != nil {
			return err
		}
		return r.Assignments.Delete(ctx, a.ID)
	})
	if err != nil {
		return err
	}
	uc.audit.Publish(ctx, entry)
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func getAssignment(ctx context.Context, r ports.Repos, id int64) (*entity.Assignment, error) {
	a, err := r.Assignments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: asignación %d", domain.ErrNotFound, id)
	}
	return a, nil
}

func getLocation(ctx context.Context, r ports.Repos, id int64) (*entity.Location, error) {
	loc, err := r.Locations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: sede %d", domain.ErrNotFound, id)
	}
	return loc, nil
}

func getSalesperson(ctx context.Context, r ports.Repos, id int64) (*entity.User, error) {
	u, err := r.Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !u.IsSalesperson() {
		return nil, fmt.Errorf("%w: el usuario %d no es vendedor", domain.ErrInvalidSalesperson, id)
	}
	return u, nil
}

// names carga explícitamente vendedor y sede para los textos de auditoría.
func names(ctx context.Context, r ports.Repos, a *entity.Assignment) (*entity.User, *entity.Location, error) {
	user, err := r.Users.GetByID(ctx, a.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		user = &entity.User{ID: a.UserID, Name: fmt.Sprintf("#%d", a.UserID)}
	}
	loc, err := getLocation(ctx, r, a.LocationID)
	if err != nil {
		return nil, nil, err
	}
	return user, loc, nil
}

func withNames(a *entity.Assignment, u *entity.User, l *entity.Location) dto.AssignmentResponse {
	out := dto.FromAssignment(a)
	if u != nil {
		out.UserName = u.Name
	}
	if l != nil {
		out.LocationName = l.Name
	}
	return out
}

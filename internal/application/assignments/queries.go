package assignments

import (
	"context"
	"fmt"

	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
	"github.com/jhoicas/salestrack-api/internal/domain/repository"
)

// GetLocationSalespeople lista las asignaciones activas de una sede.
func (uc *UseCase) GetLocationSalespeople(ctx context.Context, actor policy.Actor, locationID int64) ([]dto.AssignmentResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if _, err := getLocation(ctx, uc.repos, locationID); err != nil {
		return nil, err
	}
	yes := true
	return uc.list(ctx, actor, repository.AssignmentFilter{LocationID: &locationID, Active: &yes})
}

// GetSalespersonLocations lista las sedes donde el vendedor tiene asignación activa.
func (uc *UseCase) GetSalespersonLocations(ctx context.Context, actor policy.Actor, userID int64) ([]dto.AssignmentResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	yes := true
	return uc.list(ctx, actor, repository.AssignmentFilter{UserID: &userID, Active: &yes})
}

// GetAssignmentHistory lista asignaciones activas e inactivas, más recientes primero.
func (uc *UseCase) GetAssignmentHistory(ctx context.Context, actor policy.Actor, locationID, userID *int64) ([]dto.AssignmentResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	return uc.list(ctx, actor, repository.AssignmentFilter{LocationID: locationID, UserID: userID, NewestFirst: true})
}

// GetAssignment devuelve una asignación si está dentro del alcance del actor.
func (uc *UseCase) GetAssignment(ctx context.Context, actor policy.Actor, id int64) (*dto.AssignmentResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	a, err := getAssignment(ctx, uc.repos, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeAssignmentRead(actor, a); err != nil {
		return nil, err
	}
	user, loc, err := names(ctx, uc.repos, a)
	if err != nil {
		return nil, err
	}
	out := withNames(a, user, loc)
	return &out, nil
}

// GetAssignmentLogs devuelve la auditoría del linaje de la asignación: todas las
// filas que comparten su código, de modo que una transferencia aparece tanto en
// el origen como en el destino.
func (uc *UseCase) GetAssignmentLogs(ctx context.Context, actor policy.Actor, id int64) ([]dto.ActivityLogResponse, error) {
	a, err := uc.GetAssignment(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	lineage, err := uc.repos.Assignments.List(ctx, repository.AssignmentFilter{Code: &a.Code})
	if err != nil {
		return nil, fmt.Errorf("list assignment lineage: %w", err)
	}
	ids := []int64{id}
	for _, row := range lineage {
		if row.ID != id {
			ids = append(ids, row.ID)
		}
	}
	return uc.audit.EntityLogs(ctx, entity.LogTypeAssignment, ids...)
}

// list aplica el alcance del actor y completa nombres de vendedor y sede.
func (uc *UseCase) list(ctx context.Context, actor policy.Actor, f repository.AssignmentFilter) ([]dto.AssignmentResponse, error) {
	scope, err := policy.AssignmentReadScope(actor)
	if err != nil {
		return nil, err
	}
	f.Scope = scope
	rows, err := uc.repos.Assignments.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	if len(rows) == 0 {
		return []dto.AssignmentResponse{}, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, a := range rows {
		ids = append(ids, a.UserID)
	}
	users, err := uc.repos.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	byID := make(map[int64]*entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	locs, err := uc.repos.Locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	locByID := make(map[int64]*entity.Location, len(locs))
	for _, l := range locs {
		locByID[l.ID] = l
	}

	out := make([]dto.AssignmentResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, withNames(a, byID[a.UserID], locByID[a.LocationID]))
	}
	return out, nil
}

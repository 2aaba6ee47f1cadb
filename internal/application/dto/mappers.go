package dto

import "github.com/jhoicas/salestrack-api/internal/domain/entity"

// FromUser convierte la entidad a su salida pública (sin hash).
func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		RoleID:     u.Role.ID(),
		LocationID: u.LocationID,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// FromLocation convierte una sede.
func FromLocation(l *entity.Location) LocationResponse {
	return LocationResponse{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt}
}

// FromCustomer convierte un cliente.
func FromCustomer(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		LocationID:    c.LocationID,
		SalespersonID: c.SalespersonID,
		VisitDate:     c.VisitDate,
		Status:        string(c.Status),
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// FromAssignment convierte una asignación; los nombres se completan en el caso de uso.
func FromAssignment(a *entity.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:         a.ID,
		Code:       a.Code,
		UserID:     a.UserID,
		LocationID: a.LocationID,
		Active:     a.Active,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// FromActivityLog convierte una entrada de auditoría.
func FromActivityLog(l *entity.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Activity:  l.Activity,
		LogType:   string(l.Type),
		EntityID:  l.EntityID,
		CreatedAt: l.CreatedAt,
	}
}

// FromActivityLogs convierte un listado.
func FromActivityLogs(logs []*entity.ActivityLog) []ActivityLogResponse {
	out := make([]ActivityLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, FromActivityLog(l))
	}
	return out
}

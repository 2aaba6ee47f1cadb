package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
)

const maxReportRows = 1000

// CustomerReport genera el PDF del listado de clientes visible para el actor.
// Los nombres de sede y vendedor se cargan explícitamente antes de renderizar.
func (uc *UseCase) CustomerReport(ctx context.Context, actor policy.Actor, in dto.CustomerFilter) ([]byte, error) {
	if uc.report == nil {
		return nil, errors.New("customer report generator not configured")
	}
	f, err := uc.filter(actor, in)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = maxReportRows, 0
	list, err := uc.repos.Customers.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	userIDs := make([]int64, 0, len(list)+1)
	userIDs = append(userIDs, actor.UserID)
	for _, c := range list {
		userIDs = append(userIDs, c.SalespersonID)
	}
	users, err := uc.repos.Users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	userNames := make(map[int64]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Name
	}
	locs, err := uc.repos.Locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	locNames := make(map[int64]string, len(locs))
	for _, l := range locs {
		locNames[l.ID] = l.Name
	}

	report := dto.CustomerReport{
		Title:       "Reporte de clientes",
		GeneratedBy: userNames[actor.UserID],
		GeneratedAt: uc.now(),
		Rows:        make([]dto.CustomerReportRow, 0, len(list)),
	}
	for _, c := range list {
		report.Rows = append(report.Rows, reportRow(c, locNames[c.LocationID], userNames[c.SalespersonID]))
	}
	return uc.report.GenerateCustomerReport(ctx, report)
}

func reportRow(c *entity.Customer, location, salesperson string) dto.CustomerReportRow {
	return dto.CustomerReportRow{
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Location:    location,
		Salesperson: salesperson,
		VisitDate:   c.VisitDate,
		Status:      string(c.Status),
	}
}

// Package analytics contiene el tablero de seguimiento comercial, siempre
// acotado al alcance del actor.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
	"github.com/jhoicas/salestrack-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen del día para el actor.
type DashboardUseCase struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres consultas en paralelo, todas con el alcance del actor:
//  1. CustomerStats          → totales por estado y tasa de cierre
//  2. VisitsBetween(hoy)     → citas de hoy
//  3. ActiveSalespeople      → vendedores con asignación activa
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor policy.Actor) (*dto.DashboardSummaryDTO, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	customerScope, err := policy.CustomerReadScope(actor)
	if err != nil {
		return nil, err
	}
	assignmentScope, err := policy.AssignmentReadScope(actor)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)

	type statsResult struct {
		stats *repository.CustomerStats
		err   error
	}
	type countResult struct {
		n   int64
		err error
	}

	statsCh := make(chan statsResult, 1)
	visitsCh := make(chan countResult, 1)
	sellersCh := make(chan countResult, 1)

	go func() {
		s, err := uc.repo.CustomerStats(ctx, customerScope)
		statsCh <- statsResult{s, err}
	}()
	go func() {
		n, err := uc.repo.VisitsBetween(ctx, customerScope, todayStart, todayEnd)
		visitsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.repo.ActiveSalespeople(ctx, assignmentScope)
		sellersCh <- countResult{n, err}
	}()

	stats := <-statsCh
	visits := <-visitsCh
	sellers := <-sellersCh

	if stats.err != nil {
		return nil, fmt.Errorf("dashboard: clientes por estado: %w", stats.err)
	}
	if visits.err != nil {
		return nil, fmt.Errorf("dashboard: citas de hoy: %w", visits.err)
	}
	if sellers.err != nil {
		return nil, fmt.Errorf("dashboard: vendedores activos: %w", sellers.err)
	}

	return &dto.DashboardSummaryDTO{
		TotalCustomers:    stats.stats.Total,
		Pending:           stats.stats.Pending,
		Ongoing:           stats.stats.Ongoing,
		Completed:         stats.stats.Completed,
		Cancelled:         stats.stats.Cancelled,
		CompletionRate:    stats.stats.CompletionRate.Round(2),
		TodayAppointments: visits.n,
		ActiveSalespeople: sellers.n,
		DateLabel:         dayLabel(now),
	}, nil
}

// dayLabel devuelve una etiqueta legible del día, ej: "19 de octubre de 2026".
func dayLabel(t time.Time) string {
	months := [...]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}

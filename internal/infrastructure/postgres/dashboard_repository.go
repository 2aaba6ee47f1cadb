package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salestrack-api/internal/domain/policy"
	"github.com/jhoicas/salestrack-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el tablero.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador del tablero.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

// CustomerStats cuenta clientes por estado dentro del alcance.
// La tasa de cierre se calcula en NUMERIC y se protege contra división por cero.
func (r *DashboardRepo) CustomerStats(ctx context.Context, scope policy.CustomerScope) (*repository.CustomerStats, error) {
	b := psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status = 'pending')",
		"COUNT(*) FILTER (WHERE status = 'ongoing')",
		"COUNT(*) FILTER (WHERE status = 'completed')",
		"COUNT(*) FILTER (WHERE status = 'cancelled')",
		"COALESCE(ROUND(COUNT(*) FILTER (WHERE status = 'completed') * 100.0 / NULLIF(COUNT(*), 0), 2), 0)::NUMERIC",
	).From("customers")
	query, args, err := scopeCustomers(b, scope.LocationID, scope.SalespersonID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("dashboard.CustomerStats build: %w", err)
	}

	s := &repository.CustomerStats{CompletionRate: decimal.Zero}
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&s.Total, &s.Pending, &s.Ongoing, &s.Completed, &s.Cancelled, &s.CompletionRate)
	if err != nil {
		return nil, fmt.Errorf("dashboard.CustomerStats: %w", err)
	}
	return s, nil
}

// VisitsBetween cuenta clientes con visit_date en [from, to).
func (r *DashboardRepo) VisitsBetween(ctx context.Context, scope policy.CustomerScope, from, to time.Time) (int64, error) {
	b := psql.Select("COUNT(*)").From("customers").
		Where("visit_date >= ? AND visit_date < ?", from, to)
	query, args, err := scopeCustomers(b, scope.LocationID, scope.SalespersonID).ToSql()
	if err != nil {
		return 0, fmt.Errorf("dashboard.VisitsBetween build: %w", err)
	}
	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("dashboard.VisitsBetween: %w", err)
	}
	return n, nil
}

// ActiveSalespeople cuenta vendedores distintos con asignación activa.
func (r *DashboardRepo) ActiveSalespeople(ctx context.Context, scope policy.AssignmentScope) (int64, error) {
	b := psql.Select("COUNT(DISTINCT user_id)").From("assignments").Where("status")
	query, args, err := scopeAssignments(b, scope.LocationID, scope.UserID).ToSql()
	if err != nil {
		return 0, fmt.Errorf("dashboard.ActiveSalespeople build: %w", err)
	}
	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("dashboard.ActiveSalespeople: %w", err)
	}
	return n, nil
}

package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/salestrack-api/internal/domain/policy"
)

// CustomerStats resultado crudo del conteo de clientes por estado.
type CustomerStats struct {
	Total          int64
	Pending        int64
	Ongoing        int64
	Completed      int64
	Cancelled      int64
	CompletionRate decimal.Decimal // porcentaje completados / total, 2 decimales
}

// DashboardRepository agrupa las consultas read-only del tablero.
type DashboardRepository interface {
	CustomerStats(ctx context.Context, scope policy.CustomerScope) (*CustomerStats, error)
	// VisitsBetween cuenta clientes con visit_date en [from, to).
	VisitsBetween(ctx context.Context, scope policy.CustomerScope, from, to time.Time) (int64, error)
	// ActiveSalespeople cuenta vendedores distintos con asignación activa.
	ActiveSalespeople(ctx context.Context, scope policy.AssignmentScope) (int64, error)
}

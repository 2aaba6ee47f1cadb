package repository

import (
	"context"
	"time"

	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
)

// Columnas por las que se permite ordenar clientes.
var CustomerSortFields = map[string]struct{}{
	"name":       {},
	"email":      {},
	"visit_date": {},
	"status":     {},
	"created_at": {},
	"updated_at": {},
}

// DefaultCustomerSort es el orden por defecto (created_at desc).
const DefaultCustomerSort = "created_at"

// CustomerFilter: Scope viene del motor de políticas y se aplica siempre (AND).
type CustomerFilter struct {
	Scope         policy.CustomerScope
	Search        string // nombre, email o teléfono
	Name          string
	Status        *entity.CustomerStatus
	LocationID    *int64
	SalespersonID *int64
	VisitDateFrom *time.Time
	VisitDateTo   *time.Time
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	SortBy        string
	SortAsc       bool
	Limit         int
	Offset        int
}

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	Update(ctx context.Context, c *entity.Customer) error
	List(ctx context.Context, filter CustomerFilter) ([]*entity.Customer, error)
	Count(ctx context.Context, filter CustomerFilter) (int64, error)
}

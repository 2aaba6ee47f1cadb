package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = "id, name, email, phone, location_id, salesperson_id, visit_date, status, notes, created_at, updated_at"

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var status string
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.LocationID, &c.SalespersonID,
		&c.VisitDate, &status, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Status = entity.CustomerStatus(status)
	return &c, nil
}

func mapCustomerWriteErr(op string, c *entity.Customer, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, c.Email)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: sede o vendedor inexistente (%s)", domain.ErrConflict, constraintName(err))
	}
	return fmt.Errorf("%s customer: %w", op, err)
}

// Create persiste un nuevo cliente y asigna su ID.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (name, email, phone, location_id, salesperson_id, visit_date, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		c.Name, c.Email, c.Phone, c.LocationID, c.SalespersonID, c.VisitDate, string(c.Status), c.Notes,
		c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return mapCustomerWriteErr("insert", c, err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByEmail obtiene un cliente por email, sin distinguir mayúsculas.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by email: %w", err)
	}
	return c, nil
}

// Update persiste todos los campos editables.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, email = $3, phone = $4, location_id = $5, salesperson_id = $6,
			visit_date = $7, status = $8, notes = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.LocationID, c.SalespersonID, c.VisitDate, string(c.Status), c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return mapCustomerWriteErr("update", c, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cliente %d", domain.ErrNotFound, c.ID)
	}
	return nil
}

// List devuelve una página de clientes según el filtro.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	sortBy := repository.DefaultCustomerSort
	if _, ok := repository.CustomerSortFields[f.SortBy]; ok {
		sortBy = f.SortBy
	}
	dir := "DESC"
	if f.SortAsc {
		dir = "ASC"
	}
	b := customerWhere(psql.Select(customerColumns).From("customers"), f).
		OrderBy(sortBy+" "+dir, "id DESC")

	query, args, err := page(b, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build customers query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Count cuenta los clientes que cumplen el filtro (ignora orden y paginación).
func (r *CustomerRepo) Count(ctx context.Context, f repository.CustomerFilter) (int64, error) {
	query, args, err := customerWhere(psql.Select("COUNT(*)").From("customers"), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build customers count: %w", err)
	}
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

// customerWhere combina (AND) el alcance del actor con los filtros del usuario.
func customerWhere(b sq.SelectBuilder, f repository.CustomerFilter) sq.SelectBuilder {
	b = scopeCustomers(b, f.Scope.LocationID, f.Scope.SalespersonID)
	if f.Search != "" {
		like := containsPattern(f.Search)
		b = b.Where(sq.Or{sq.ILike{"name": like}, sq.ILike{"email": like}, sq.ILike{"phone": like}})
	}
	if f.Name != "" {
		b = b.Where(sq.ILike{"name": containsPattern(f.Name)})
	}
	if f.Status != nil {
		b = b.Where(sq.Eq{"status": string(*f.Status)})
	}
	if f.LocationID != nil {
		b = b.Where(sq.Eq{"location_id": *f.LocationID})
	}
	if f.SalespersonID != nil {
		b = b.Where(sq.Eq{"salesperson_id": *f.SalespersonID})
	}
	if f.VisitDateFrom != nil {
		b = b.Where(sq.GtOrEq{"visit_date": *f.VisitDateFrom})
	}
	if f.VisitDateTo != nil {
		b = b.Where(sq.LtOrEq{"visit_date": *f.VisitDateTo})
	}
	if f.CreatedFrom != nil {
		b = b.Where(sq.GtOrEq{"created_at": *f.CreatedFrom})
	}
	if f.CreatedTo != nil {
		b = b.Where(sq.LtOrEq{"created_at": *f.CreatedTo})
	}
	return b
}

func scopeCustomers(b sq.SelectBuilder, locationID, salespersonID *int64) sq.SelectBuilder {
	if locationID != nil {
		b = b.Where(sq.Eq{"location_id": *locationID})
	}
	if salespersonID != nil {
		b = b.Where(sq.Eq{"salesperson_id": *salespersonID})
	}
	return b
}

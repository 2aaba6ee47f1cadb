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

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

const (
	assignmentColumns = "id, assignment_code, user_id, location_id, status, created_at, updated_at"

	activePairIndex = "assignments_active_pair_key"
)

// AssignmentRepo implementación de AssignmentRepository.
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador.
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

func scanAssignment(row pgx.Row) (*entity.Assignment, error) {
	var a entity.Assignment
	if err := row.Scan(&a.ID, &a.Code, &a.UserID, &a.LocationID, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserta sólo si el código no existe en ninguna fila. Las colisiones no
// lanzan 23505 (ON CONFLICT DO NOTHING) para no abortar la transacción del reintento.
func (r *AssignmentRepo) Create(ctx context.Context, a *entity.Assignment) error {
	query := `
		INSERT INTO assignments (assignment_code, user_id, location_id, status, created_at, updated_at)
		SELECT $1::text, $2::bigint, $3::bigint, $4::boolean, $5::timestamptz, $6::timestamptz
		WHERE NOT EXISTS (SELECT 1 FROM assignments WHERE assignment_code = $1::text)
		ON CONFLICT DO NOTHING
		RETURNING id`
	err := r.q.QueryRow(ctx, query, a.Code, a.UserID, a.LocationID, a.Active, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return mapAssignmentWriteErr("insert", err)
	}
	if a.Active {
		active, ferr := r.FindActive(ctx, a.UserID, a.LocationID)
		if ferr != nil {
			return ferr
		}
		if active != nil {
			return fmt.Errorf("%w: asignación %d", domain.ErrDuplicateAssignment, active.ID)
		}
	}
	return repository.ErrCodeTaken
}

// Continue inserta la fila que hereda un código existente (transferencia).
func (r *AssignmentRepo) Continue(ctx context.Context, a *entity.Assignment) error {
	query := `
		INSERT INTO assignments (assignment_code, user_id, location_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
		RETURNING id`
	err := r.q.QueryRow(ctx, query, a.Code, a.UserID, a.LocationID, a.Active, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return mapAssignmentWriteErr("insert", err)
	}
	active, ferr := r.FindActive(ctx, a.UserID, a.LocationID)
	if ferr != nil {
		return ferr
	}
	if active != nil {
		return fmt.Errorf("%w: asignación %d", domain.ErrDuplicateAssignment, active.ID)
	}
	return fmt.Errorf("%w: el código %s ya tiene un puesto activo", domain.ErrConflict, a.Code)
}

// GetByID obtiene una asignación por ID.
func (r *AssignmentRepo) GetByID(ctx context.Context, id int64) (*entity.Assignment, error) {
	a, err := scanAssignment(r.q.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// FindActive devuelve la asignación activa de (vendedor, sede) o nil.
func (r *AssignmentRepo) FindActive(ctx context.Context, userID, locationID int64) (*entity.Assignment, error) {
	a, err := scanAssignment(r.q.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE user_id = $1 AND location_id = $2 AND status`,
		userID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active assignment: %w", err)
	}
	return a, nil
}

// SetActive cambia el estado; los índices parciales rechazan una segunda fila activa.
func (r *AssignmentRepo) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE assignments SET status = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return mapAssignmentWriteErr("update", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: asignación %d", domain.ErrNotFound, id)
	}
	return nil
}

// Delete elimina la fila.
func (r *AssignmentRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// List aplica alcance y filtros.
func (r *AssignmentRepo) List(ctx context.Context, f repository.AssignmentFilter) ([]*entity.Assignment, error) {
	b := psql.Select(assignmentColumns).From("assignments")
	b = scopeAssignments(b, f.Scope.LocationID, f.Scope.UserID)
	if f.LocationID != nil {
		b = b.Where(sq.Eq{"location_id": *f.LocationID})
	}
	if f.UserID != nil {
		b = b.Where(sq.Eq{"user_id": *f.UserID})
	}
	if f.Code != nil {
		b = b.Where(sq.Eq{"assignment_code": *f.Code})
	}
	if f.Active != nil {
		b = b.Where(sq.Eq{"status": *f.Active})
	}
	if f.NewestFirst {
		b = b.OrderBy("created_at DESC", "id DESC")
	} else {
		b = b.OrderBy("assignment_code DESC", "id DESC")
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build assignments query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scopeAssignments(b sq.SelectBuilder, locationID, userID *int64) sq.SelectBuilder {
	if locationID != nil {
		b = b.Where(sq.Eq{"location_id": *locationID})
	}
	if userID != nil {
		b = b.Where(sq.Eq{"user_id": *userID})
	}
	return b
}

func mapAssignmentWriteErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		if constraintName(err) == activePairIndex {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateAssignment, activePairIndex)
		}
		return fmt.Errorf("%w: el código ya tiene un puesto activo", domain.ErrConflict)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: vendedor o sede inexistente", domain.ErrConflict)
	}
	return fmt.Errorf("%s assignment: %w", op, err)
}

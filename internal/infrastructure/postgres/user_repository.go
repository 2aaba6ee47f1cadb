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

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = "id, name, email, password_hash, role_id, location_id, created_at, updated_at"

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var roleID int
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &roleID, &u.LocationID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	role, err := entity.RoleFromID(roleID)
	if err != nil {
		return nil, err
	}
	u.Role = role
	return &u, nil
}

func (r *UserRepo) mapWriteErr(op string, u *entity.User, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, u.Email)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: la sede %s no existe", domain.ErrConflict, fmtLocationID(u.LocationID))
	}
	return fmt.Errorf("%s user: %w", op, err)
}

// Create persiste un nuevo usuario y asigna su ID.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role_id, location_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.Role.ID(), u.LocationID, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return r.mapWriteErr("insert", u, err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email, sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByIDs carga varios usuarios en una sola consulta (ids inexistentes se omiten).
func (r *UserRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	return collectUsers(rows)
}

// Update actualiza nombre, email, rol y sede.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET name = $2, email = $3, role_id = $4, location_id = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, u.ID, u.Name, u.Email, u.Role.ID(), u.LocationID, u.UpdatedAt)
	if err != nil {
		return r.mapWriteErr("update", u, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: usuario %d", domain.ErrNotFound, u.ID)
	}
	return nil
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: usuario %d", domain.ErrNotFound, id)
	}
	return nil
}

// Delete elimina un usuario por ID. La auditoría conserva sus entradas con user_id NULL.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el usuario %d tiene clientes o asignaciones", domain.ErrConflict, id)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: usuario %d", domain.ErrNotFound, id)
	}
	return nil
}

// DeleteMany elimina los usuarios indicados y devuelve cuántos se borraron.
func (r *UserRepo) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: algún usuario tiene clientes o asignaciones", domain.ErrConflict)
		}
		return 0, fmt.Errorf("delete users: %w", err)
	}
	return tag.RowsAffected(), nil
}

// List aplica el alcance y los filtros opcionales, ordenado por id.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, error) {
	b := psql.Select(userColumns).From("users").OrderBy("id")
	if f.Scope.LocationID != nil {
		b = b.Where(sq.Eq{"location_id": *f.Scope.LocationID})
	}
	if f.Scope.UserID != nil {
		b = b.Where(sq.Eq{"id": *f.Scope.UserID})
	}
	if f.LocationID != nil {
		b = b.Where(sq.Eq{"location_id": *f.LocationID})
	}
	if f.Role != nil {
		b = b.Where(sq.Eq{"role_id": f.Role.ID()})
	}
	if f.Name != "" {
		b = b.Where(sq.ILike{"name": containsPattern(f.Name)})
	}
	query, args, err := page(b, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build users query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]*entity.User, error) {
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func fmtLocationID(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *id)
}

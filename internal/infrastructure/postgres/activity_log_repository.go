package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

const logColumns = "l.id, l.user_id, l.activity, l.log_type, l.entity_id, l.created_at"

// ActivityLogRepo auditoría de sólo inserción.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador.
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

func scanLog(row pgx.Row) (*entity.ActivityLog, error) {
	var l entity.ActivityLog
	var t string
	if err := row.Scan(&l.ID, &l.UserID, &l.Activity, &t, &l.EntityID, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.Type = entity.LogType(t)
	return &l, nil
}

// Append inserta la entrada y asigna su ID.
func (r *ActivityLogRepo) Append(ctx context.Context, l *entity.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (user_id, activity, log_type, entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, l.UserID, l.Activity, string(l.Type), l.EntityID, l.CreatedAt).Scan(&l.ID); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *ActivityLogRepo) GetByID(ctx context.Context, id int64) (*entity.ActivityLog, error) {
	l, err := scanLog(r.q.QueryRow(ctx, `SELECT `+logColumns+` FROM activity_logs l WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get activity log: %w", err)
	}
	return l, nil
}

// List devuelve las entradas más recientes primero.
// El filtro por sede del autor se resuelve con un JOIN a users.
func (r *ActivityLogRepo) List(ctx context.Context, f repository.ActivityLogFilter) ([]*entity.ActivityLog, error) {
	b := psql.Select(logColumns).From("activity_logs l")
	if len(f.Scope.Types) > 0 {
		types := make([]string, 0, len(f.Scope.Types))
		for _, t := range f.Scope.Types {
			types = append(types, string(t))
		}
		b = b.Where(sq.Eq{"l.log_type": types})
	}
	if f.Scope.UserID != nil {
		b = b.Where(sq.Eq{"l.user_id": *f.Scope.UserID})
	}
	if f.Scope.ActorLocationID != nil {
		b = b.Join("users u ON u.id = l.user_id").Where(sq.Eq{"u.location_id": *f.Scope.ActorLocationID})
	}
	if f.UserID != nil {
		b = b.Where(sq.Eq{"l.user_id": *f.UserID})
	}
	if f.Type != nil {
		b = b.Where(sq.Eq{"l.log_type": string(*f.Type)})
	}
	if len(f.EntityIDs) > 0 {
		b = b.Where(sq.Eq{"l.entity_id": f.EntityIDs})
	}
	if f.Activity != "" {
		b = b.Where(sq.ILike{"l.activity": containsPattern(f.Activity)})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"l.created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"l.created_at": *f.To})
	}
	b = page(b.OrderBy("l.created_at DESC", "l.id DESC"), f.Limit, f.Offset)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build activity logs query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActivityLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

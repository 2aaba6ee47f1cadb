// Package activity implementa el almacén de auditoría: inserción dentro de la
// transacción de la mutación, publicación posterior al commit y consultas
// acotadas por el motor de políticas.
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/application/ports"
	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
	"github.com/jhoicas/salestrack-api/internal/domain/repository"
	"github.com/jhoicas/salestrack-api/pkg/logger"
	"github.com/jhoicas/salestrack-api/pkg/validator"
)

const defaultLogLimit = 50

// Entry describe una acción a auditar. ActorID nil = actor desconocido.
type Entry struct {
	ActorID  *int64
	Type     entity.LogType
	EntityID *int64
	Activity string
}

// Service es el Activity Log Store.
type Service struct {
	repos     ports.Repos
	publisher ports.AuditPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewService construye el servicio. publisher puede ser nil.
func NewService(repos ports.Repos, publisher ports.AuditPublisher, log *logger.Logger) *Service {
	return &Service{repos: repos, publisher: publisher, log: log, now: time.Now}
}

// Record inserta la entrada con el repositorio recibido (normalmente atado a la tx en curso).
func (s *Service) Record(ctx context.Context, repo repository.ActivityLogRepository, e Entry) (*entity.ActivityLog, error) {
	if !e.Type.Valid() || e.Activity == "" {
		return nil, fmt.Errorf("%w: entrada de auditoría incompleta", domain.ErrInvalidInput)
	}
	l := &entity.ActivityLog{
		UserID:    e.ActorID,
		Activity:  e.Activity,
		Type:      e.Type,
		EntityID:  e.EntityID,
		CreatedAt: s.now().UTC(),
	}
	if err := repo.Append(ctx, l); err != nil {
		return nil, fmt.Errorf("append activity log: %w", err)
	}
	return l, nil
}

// Publish reenvía entradas confirmadas al publicador. Los errores sólo se registran:
// la auditoría persistida en la base de datos es la fuente de verdad.
func (s *Service) Publish(ctx context.Context, logs ...*entity.ActivityLog) {
	if s.publisher == nil {
		return
	}
	for _, l := range logs {
		if l == nil {
			continue
		}
		if err := s.publisher.Publish(ctx, l); err != nil {
			s.log.Warn().Err(err).Int64("log_id", l.ID).Str("log_type", string(l.Type)).
				Msg("no se pudo publicar la entrada de auditoría")
		}
	}
}

// Log inserta fuera de una transacción de negocio (eventos de autenticación) y publica.
func (s *Service) Log(ctx context.Context, e Entry) error {
	l, err := s.Record(ctx, s.repos.Logs, e)
	if err != nil {
		return err
	}
	s.Publish(ctx, l)
	return nil
}

// GetActivityLogs lista la auditoría visible para el actor; los filtros sólo estrechan el alcance.
func (s *Service) GetActivityLogs(ctx context.Context, actor policy.Actor, in dto.ActivityLogFilter) ([]dto.ActivityLogResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	scope, err := policy.LogReadScope(actor)
	if err != nil {
		return nil, err
	}
	f := repository.ActivityLogFilter{
		Scope:    scope,
		UserID:   in.UserID,
		Activity: in.Activity,
		From:     in.StartDate,
		To:       in.EndDate,
	}
	if in.LogType != "" {
		t := entity.LogType(in.LogType)
		if !scope.AllowsType(t) {
			return []dto.ActivityLogResponse{}, nil
		}
		f.Type = &t
	}
	s.page(&f, in.PageRequest)

	logs, err := s.repos.Logs.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return dto.FromActivityLogs(logs), nil
}

// GetUserLogs devuelve el historial de un usuario, si el actor puede consultarlo.
func (s *Service) GetUserLogs(ctx context.Context, actor policy.Actor, userID int64, page dto.PageRequest) ([]dto.ActivityLogResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	target, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: usuario %d", domain.ErrNotFound, userID)
	}
	if err := policy.AuthorizeUserLogs(actor, target); err != nil {
		return nil, err
	}
	scope, err := policy.LogReadScope(actor)
	if err != nil {
		return nil, err
	}
	f := repository.ActivityLogFilter{Scope: scope, UserID: &target.ID}
	s.page(&f, page)

	logs, err := s.repos.Logs.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list user logs: %w", err)
	}
	return dto.FromActivityLogs(logs), nil
}

// GetByID devuelve una entrada concreta si cae dentro del alcance del actor.
func (s *Service) GetByID(ctx context.Context, actor policy.Actor, id int64) (*dto.ActivityLogResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	scope, err := policy.LogReadScope(actor)
	if err != nil {
		return nil, err
	}
	l, err := s.repos.Logs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get activity log: %w", err)
	}
	if l == nil {
		return nil, fmt.Errorf("%w: log %d", domain.ErrNotFound, id)
	}
	var author *entity.User
	if l.UserID != nil && scope.ActorLocationID != nil {
		if author, err = s.repos.Users.GetByID(ctx, *l.UserID); err != nil {
			return nil, fmt.Errorf("get log author: %w", err)
		}
	}
	if !scope.Allows(l, author) {
		return nil, fmt.Errorf("%w: la entrada está fuera de su alcance", domain.ErrForbidden)
	}
	out := dto.FromActivityLog(l)
	return &out, nil
}

// EntityLogs lista la auditoría de una o varias filas del mismo tipo de entidad.
// El llamador ya autorizó la lectura.
func (s *Service) EntityLogs(ctx context.Context, t entity.LogType, entityIDs ...int64) ([]dto.ActivityLogResponse, error) {
	if len(entityIDs) == 0 {
		return []dto.ActivityLogResponse{}, nil
	}
	logs, err := s.repos.Logs.List(ctx, repository.ActivityLogFilter{Type: &t, EntityIDs: entityIDs})
	if err != nil {
		return nil, fmt.Errorf("list entity logs: %w", err)
	}
	return dto.FromActivityLogs(logs), nil
}

func (s *Service) page(f *repository.ActivityLogFilter, p dto.PageRequest) {
	f.Limit, f.Offset = p.Limit, p.Offset
	if f.Limit <= 0 {
		f.Limit = defaultLogLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

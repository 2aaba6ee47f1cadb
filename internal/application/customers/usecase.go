// Package customers implementa el ciclo de vida de clientes bajo el motor de políticas.
// Cada mutación: verificación de política → persistencia → una entrada de auditoría,
// todo en la misma transacción.
package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/application/ports"
	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
	"github.com/jhoicas/salestrack-api/internal/domain/repository"
	"github.com/jhoicas/salestrack-api/pkg/validator"
)

const dateLayout = "2006-01-02"

// UseCase casos de uso de clientes.
type UseCase struct {
	repos  ports.Repos
	tx     ports.TxRunner
	audit  *activity.Service
	report ports.CustomerReportGenerator
	now    func() time.Time
}

// NewUseCase construye el caso de uso. report puede ser nil si no se exponen reportes.
func NewUseCase(repos ports.Repos, tx ports.TxRunner, audit *activity.Service, report ports.CustomerReportGenerator) *UseCase {
	return &UseCase{repos: repos, tx: tx, audit: audit, report: report, now: time.Now}
}

// CreateCustomer da de alta un cliente resolviendo sede y vendedor según el rol del actor.
func (uc *UseCase) CreateCustomer(ctx context.Context, actor policy.Actor, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	in.Normalize()
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	status := entity.CustomerPending
	if in.Status != "" {
		status = entity.CustomerStatus(in.Status)
	}
	email := dto.NormalizeEmail(in.Email)

	var created *entity.Customer
	var entry *entity.ActivityLog
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		existing, err := r.Customers.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("get customer by email: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, email)
		}

		var sp *entity.User
		if actor.Role != entity.RoleSalesperson && in.SalespersonID > 0 {
			if sp, err = r.Users.GetByID(ctx, in.SalespersonID); err != nil {
				return fmt.Errorf("get salesperson: %w", err)
			}
		}
		owner, err := policy.ResolveCustomerOwner(actor,
			policy.Owner{LocationID: in.LocationID, SalespersonID: in.SalespersonID}, sp)
		if err != nil {
			return err
		}
		if sp == nil || sp.ID != owner.SalespersonID {
			if sp, err = r.Users.GetByID(ctx, owner.SalespersonID); err != nil {
				return fmt.Errorf("get salesperson: %w", err)
			}
			if sp == nil {
				return fmt.Errorf("%w: vendedor %d", domain.ErrInvalidSalesperson, owner.SalespersonID)
			}
		}
		loc, err := r.Locations.GetByID(ctx, owner.LocationID)
		if err != nil {
			return fmt.Errorf("get location: %w", err)
		}
		if loc == nil {
			return fmt.Errorf("%w: sede %d", domain.ErrNotFound, owner.LocationID)
		}

		now := uc.now().UTC()
		c := &entity.Customer{
			Name:          strings.TrimSpace(in.Name),
			Email:         email,
			Phone:         strings.TrimSpace(in.Phone),
			LocationID:    owner.LocationID,
			SalespersonID: owner.SalespersonID,
			VisitDate:     in.VisitDate.UTC(),
			Status:        status,
			Notes:         in.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := r.Customers.Create(ctx, c); err != nil {
			return err
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeCustomer,
			EntityID: &c.ID,
			Activity: fmt.Sprintf("Created customer %s (%s) at %s, assigned to %s",
				c.Name, c.Email, loc.Name, sp.Name),
		})
		created = c
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Publish(ctx, entry)
	out := dto.FromCustomer(created)
	return &out, nil
}

// GetCustomers lista los clientes visibles para el actor con filtros y orden opcionales.
func (uc *UseCase) GetCustomers(ctx context.Context, actor policy.Actor, in dto.CustomerFilter) (*dto.CustomerListResponse, error) {
	f, err := uc.filter(actor, in)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Customers.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	total, err := uc.repos.Customers.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.FromCustomer(c))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}, nil
}

// GetCustomersCount cuenta los clientes visibles que cumplen los filtros.
func (uc *UseCase) GetCustomersCount(ctx context.Context, actor policy.Actor, in dto.CustomerFilter) (int64, error) {
	f, err := uc.filter(actor, in)
	if err != nil {
		return 0, err
	}
	n, err := uc.repos.Customers.Count(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

// GetCustomer devuelve un cliente si está dentro del alcance del actor.
func (uc *UseCase) GetCustomer(ctx context.Context, actor policy.Actor, id int64) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, uc.repos, actor, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeCustomerRead(actor, c); err != nil {
		return nil, err
	}
	out := dto.FromCustomer(c)
	return &out, nil
}

// GetCustomerLogs devuelve la auditoría del cliente, más reciente primero.
func (uc *UseCase) GetCustomerLogs(ctx context.Context, actor policy.Actor, id int64) ([]dto.ActivityLogResponse, error) {
	if _, err := uc.GetCustomer(ctx, actor, id); err != nil {
		return nil, err
	}
	return uc.audit.EntityLogs(ctx, entity.LogTypeCustomer, id)
}

// filter traduce los filtros del DTO y les añade (AND) el alcance del actor.
func (uc *UseCase) filter(actor policy.Actor, in dto.CustomerFilter) (repository.CustomerFilter, error) {
	if err := actor.Validate(); err != nil {
		return repository.CustomerFilter{}, err
	}
	if err := validator.Struct(in); err != nil {
		return repository.CustomerFilter{}, err
	}
	scope, err := policy.CustomerReadScope(actor)
	if err != nil {
		return repository.CustomerFilter{}, err
	}
	in.DefaultPage()
	f := repository.CustomerFilter{
		Scope:         scope,
		Search:        strings.TrimSpace(in.Search),
		Name:          strings.TrimSpace(in.Name),
		LocationID:    in.LocationID,
		SalespersonID: in.SalespersonID,
		VisitDateFrom: in.VisitDateFrom,
		VisitDateTo:   in.VisitDateTo,
		CreatedFrom:   in.CreatedFrom,
		CreatedTo:     in.CreatedTo,
		SortBy:        repository.DefaultCustomerSort,
		SortAsc:       strings.EqualFold(in.SortOrder, "asc"),
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	if in.Status != "" {
		st := entity.CustomerStatus(in.Status)
		f.Status = &st
	}
	if _, ok := repository.CustomerSortFields[in.SortBy]; ok {
		f.SortBy = in.SortBy
	}
	return f, nil
}

func (uc *UseCase) load(ctx context.Context, r ports.Repos, actor policy.Actor, id int64) (*entity.Customer, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	c, err := r.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %d", domain.ErrNotFound, id)
	}
	return c, nil
}

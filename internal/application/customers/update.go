package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/application/ports"
	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
	"github.com/jhoicas/salestrack-api/pkg/validator"
)

// mutation modifica c en memoria y devuelve el texto de auditoría.
type mutation func(r ports.Repos, c *entity.Customer) (string, error)

// mutate carga el cliente, aplica validateUserAccess ANTES de tocar nada, ejecuta fn,
// persiste y audita en una sola transacción.
func (uc *UseCase) mutate(ctx context.Context, actor policy.Actor, id int64, fn mutation) (*dto.CustomerResponse, error) {
	var updated *entity.Customer
	var entry *entity.ActivityLog
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		c, err := uc.load(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if err := policy.AuthorizeCustomerWrite(actor, c); err != nil {
			return err
		}
		text, err := fn(r, c)
		if err != nil {
			return err
		}
		c.UpdatedAt = uc.now().UTC()
		if err := r.Customers.Update(ctx, c); err != nil {
			return err
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeCustomer,
			EntityID: &c.ID,
			Activity: text,
		})
		updated = c
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Publish(ctx, entry)
	out := dto.FromCustomer(updated)
	return &out, nil
}

// UpdateCustomer aplica un parche parcial y audita un resumen legible de los cambios.
func (uc *UseCase) UpdateCustomer(ctx context.Context, actor policy.Actor, id int64, patch dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	patch.Normalize()
	if err := validator.Struct(patch); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, actor, id, func(r ports.Repos, c *entity.Customer) (string, error) {
		var changes []string

		if patch.SalespersonID != nil && *patch.SalespersonID != c.SalespersonID {
			change, err := uc.reassign(ctx, r, actor, c, *patch.SalespersonID)
			if err != nil {
				return "", err
			}
			changes = append(changes, "salesperson "+change)
		}
		if patch.Name != nil {
			if name := strings.TrimSpace(*patch.Name); name != c.Name {
				changes = append(changes, fmt.Sprintf("name from %q to %q", c.Name, name))
				c.Name = name
			}
		}
		if patch.Email != nil {
			email := dto.NormalizeEmail(*patch.Email)
			if email != c.Email {
				if err := ensureEmailFree(ctx, r, email, c.ID); err != nil {
					return "", err
				}
				changes = append(changes, fmt.Sprintf("email from %s to %s", c.Email, email))
				c.Email = email
			}
		}
		if patch.Phone != nil {
			if phone := strings.TrimSpace(*patch.Phone); phone != c.Phone {
				changes = append(changes, fmt.Sprintf("phone from %s to %s", c.Phone, phone))
				c.Phone = phone
			}
		}
		if patch.VisitDate != nil && !patch.VisitDate.UTC().Equal(c.VisitDate) {
			changes = append(changes, fmt.Sprintf("visit date from %s to %s",
				c.VisitDate.Format(dateLayout), patch.VisitDate.UTC().Format(dateLayout)))
			c.VisitDate = patch.VisitDate.UTC()
		}
		if patch.Status != nil && entity.CustomerStatus(*patch.Status) != c.Status {
			changes = append(changes, fmt.Sprintf("status from %s to %s", c.Status, *patch.Status))
			c.Status = entity.CustomerStatus(*patch.Status)
		}
		if patch.Notes != nil && *patch.Notes != c.Notes {
			changes = append(changes, "notes updated")
			c.Notes = *patch.Notes
		}

		if len(changes) == 0 {
			return fmt.Sprintf("Updated customer %s: no changes", c.Name), nil
		}
		return fmt.Sprintf("Updated customer %s: %s", c.Name, strings.Join(changes, "; ")), nil
	})
}

// UpdateVisitDate cambia sólo la fecha de visita.
func (uc *UseCase) UpdateVisitDate(ctx context.Context, actor policy.Actor, id int64, in dto.UpdateVisitDateRequest) (*dto.CustomerResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, actor, id, func(_ ports.Repos, c *entity.Customer) (string, error) {
		old := c.VisitDate
		c.VisitDate = in.VisitDate.UTC()
		return fmt.Sprintf("Updated visit date for customer %s from %s to %s",
			c.Name, old.Format(dateLayout), c.VisitDate.Format(dateLayout)), nil
	})
}

// UpdateCustomerStatus cambia sólo el estado.
func (uc *UseCase) UpdateCustomerStatus(ctx context.Context, actor policy.Actor, id int64, in dto.UpdateCustomerStatusRequest) (*dto.CustomerResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, actor, id, func(_ ports.Repos, c *entity.Customer) (string, error) {
		old := c.Status
		c.Status = entity.CustomerStatus(in.Status)
		return fmt.Sprintf("Updated status for customer %s from %s to %s", c.Name, old, c.Status), nil
	})
}

// ReassignCustomer cambia el vendedor y audita los nombres anterior y nuevo.
func (uc *UseCase) ReassignCustomer(ctx context.Context, actor policy.Actor, id int64, in dto.ReassignCustomerRequest) (*dto.CustomerResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, actor, id, func(r ports.Repos, c *entity.Customer) (string, error) {
		change, err := uc.reassign(ctx, r, actor, c, in.SalespersonID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Reassigned customer %s %s", c.Name, change), nil
	})
}

// reassign valida y aplica el cambio de vendedor; devuelve "from A to B".
func (uc *UseCase) reassign(ctx context.Context, r ports.Repos, actor policy.Actor, c *entity.Customer, newID int64) (string, error) {
	next, err := r.Users.GetByID(ctx, newID)
	if err != nil {
		return "", fmt.Errorf("get salesperson: %w", err)
	}
	if next == nil {
		if actor.Role == entity.RoleSalesperson {
			return "", fmt.Errorf("%w: un vendedor no puede reasignar clientes", domain.ErrForbidden)
		}
		return "", fmt.Errorf("%w: vendedor %d", domain.ErrInvalidSalesperson, newID)
	}
	if err := policy.AuthorizeCustomerReassign(actor, c, next); err != nil {
		return "", err
	}
	prev, err := r.Users.GetByID(ctx, c.SalespersonID)
	if err != nil {
		return "", fmt.Errorf("get salesperson: %w", err)
	}
	prevName := fmt.Sprintf("#%d", c.SalespersonID)
	if prev != nil {
		prevName = prev.Name
	}
	c.SalespersonID = next.ID
	return fmt.Sprintf("from %s to %s", prevName, next.Name), nil
}

func ensureEmailFree(ctx context.Context, r ports.Repos, email string, selfID int64) error {
	other, err := r.Customers.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get customer by email: %w", err)
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, email)
	}
	return nil
}

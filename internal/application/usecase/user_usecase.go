package usecase

import (
	"context"
	"errors"
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

// UserUseCase aplica reglas de negocio para cuentas de usuario.
type UserUseCase struct {
	repos  ports.Repos
	tx     ports.TxRunner
	audit  *activity.Service
	hasher ports.PasswordHasher
	now    func() time.Time
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repos ports.Repos, tx ports.TxRunner, audit *activity.Service, hasher ports.PasswordHasher) *UserUseCase {
	return &UserUseCase{repos: repos, tx: tx, audit: audit, hasher: hasher, now: time.Now}
}

// CreateUser da de alta una cuenta (sólo super-admin).
func (uc *UserUseCase) CreateUser(ctx context.Context, actor policy.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := policy.AuthorizeUserCreate(actor); err != nil {
		return nil, err
	}
	in.Normalize()
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	locationID, err := locationForRole(role, in.LocationID)
	if err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created *entity.User
	var entry *entity.ActivityLog
	err = uc.tx.Run(ctx, func(r ports.Repos) error {
		email := dto.NormalizeEmail(in.Email)
		if err := ensureUserEmailFree(ctx, r, email, 0); err != nil {
			return err
		}
		where := "no location"
		if locationID != nil {
			loc, err := requireLocation(ctx, r, *locationID)
			if err != nil {
				return err
			}
			where = loc.Name
		}
		now := uc.now().UTC()
		u := &entity.User{
			Name:         strings.TrimSpace(in.Name),
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			LocationID:   locationID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.Users.Create(ctx, u); err != nil {
			return err
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeUserMgmt,
			EntityID: &u.ID,
			Activity: fmt.Sprintf("Created user %s (%s) with role %s at %s", u.Name, u.Email, u.Role, where),
		})
		created = u
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Publish(ctx, entry)
	out := dto.FromUser(created)
	return &out, nil
}

// UpdateUser aplica un parche parcial. Rol y sede sólo los cambia super-admin.
func (uc *UserUseCase) UpdateUser(ctx context.Context, actor policy.Actor, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	in.Normalize()
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	var updated *entity.User
	var entry *entity.ActivityLog
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		u, err := requireUser(ctx, r, id)
		if err != nil {
			return err
		}
		role := u.Role
		if in.Role != nil {
			if role, err = entity.ParseRole(*in.Role); err != nil {
				return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
			}
		}
		locationID := u.LocationID
		if in.LocationID != nil {
			locationID = in.LocationID
		}
		privileged := role != u.Role || !sameLocation(locationID, u.LocationID)
		if err := policy.AuthorizeUserUpdate(actor, u, privileged); err != nil {
			return err
		}

		var changes []string
		if in.Name != nil {
			if name := strings.TrimSpace(*in.Name); name != u.Name {
				changes = append(changes, fmt.Sprintf("name from %q to %q", u.Name, name))
				u.Name = name
			}
		}
		if in.Email != nil {
			if email := dto.NormalizeEmail(*in.Email); email != u.Email {
				if err := ensureUserEmailFree(ctx, r, email, u.ID); err != nil {
					return err
				}
				changes = append(changes, fmt.Sprintf("email from %s to %s", u.Email, email))
				u.Email = email
			}
		}
		if privileged {
			if locationID, err = locationForRole(role, locationID); err != nil {
				return err
			}
			if locationID != nil {
				if _, err := requireLocation(ctx, r, *locationID); err != nil {
					return err
				}
			}
			if role != u.Role {
				changes = append(changes, fmt.Sprintf("role from %s to %s", u.Role, role))
			}
			if !sameLocation(locationID, u.LocationID) {
				changes = append(changes, fmt.Sprintf("location from %s to %s", fmtLocation(u.LocationID), fmtLocation(locationID)))
			}
			u.Role, u.LocationID = role, locationID
		}

		u.UpdatedAt = uc.now().UTC()
		if err := r.Users.Update(ctx, u); err != nil {
			return err
		}
		text := fmt.Sprintf("Updated user %s: no changes", u.Email)
		if len(changes) > 0 {
			text = fmt.Sprintf("Updated user %s: %s", u.Email, strings.Join(changes, "; "))
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID: actor.ID(), Type: entity.LogTypeUserMgmt, EntityID: &u.ID, Activity: text,
		})
		updated = u
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Publish(ctx, entry)
	out := dto.FromUser(updated)
	return &out, nil
}

// DeleteUser elimina una cuenta dejando constancia de su email.
func (uc *UserUseCase) DeleteUser(ctx context.Context, actor policy.Actor, id int64) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := policy.AuthorizeUserDelete(actor, id); err != nil {
		return err
	}
	var entry *entity.ActivityLog
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		u, err := requireUser(ctx, r, id)
		if err != nil {
			return err
		}
		if err := r.Users.Delete(ctx, u.ID); err != nil {
			return err
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeUserMgmt,
			EntityID: &u.ID,
			Activity: fmt.Sprintf("Deleted user %s (%s)", u.Name, u.Email),
		})
		return err
	})
	if err != nil {
		return err
	}
	uc.audit.Publish(ctx, entry)
	return nil
}

// DeleteUsers borrado masivo: carga las cuentas (para sus emails), las elimina y
// deja una única entrada de auditoría consolidada.
func (uc *UserUseCase) DeleteUsers(ctx context.Context, actor policy.Actor, in dto.DeleteUsersRequest) (*dto.DeleteUsersResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	if err := policy.AuthorizeUserDelete(actor, in.IDs...); err != nil {
		return nil, err
	}

	out := &dto.DeleteUsersResponse{}
	var entry *entity.ActivityLog
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		users, err := r.Users.GetByIDs(ctx, in.IDs)
		if err != nil {
			return fmt.Errorf("get users: %w", err)
		}
		if len(users) == 0 {
			return fmt.Errorf("%w: ninguno de los usuarios existe", domain.ErrNotFound)
		}
		ids := make([]int64, 0, len(users))
		emails := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
			emails = append(emails, u.Email)
		}
		n, err := r.Users.DeleteMany(ctx, ids)
		if err != nil {
			return err
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeUserMgmt,
			Activity: fmt.Sprintf("Deleted %d users: %s", n, strings.Join(emails, ", ")),
		})
		out.Deleted, out.Emails = n, emails
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Publish(ctx, entry)
	return out, nil
}

// GetUsersByLocationAndRole lista cuentas visibles con filtros opcionales de sede, rol y nombre.
func (uc *UserUseCase) GetUsersByLocationAndRole(ctx context.Context, actor policy.Actor, in dto.UserFilter) ([]dto.UserResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	scope, err := policy.UserReadScope(actor)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	f := repository.UserFilter{
		Scope:      scope,
		LocationID: in.LocationID,
		Name:       strings.TrimSpace(in.Name),
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.Role != "" {
		role := entity.Role(in.Role)
		f.Role = &role
	}
	users, err := uc.repos.Users.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromUser(u))
	}
	return out, nil
}

// GetUser devuelve una cuenta si el actor puede verla.
func (uc *UserUseCase) GetUser(ctx context.Context, actor policy.Actor, id int64) (*dto.UserResponse, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	u, err := requireUser(ctx, uc.repos, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeUserRead(actor, u); err != nil {
		return nil, err
	}
	out := dto.FromUser(u)
	return &out, nil
}

// ChangePassword verifica la contraseña actual antes de reemplazarla.
// Un intento fallido queda auditado aunque la operación falle.
func (uc *UserUseCase) ChangePassword(ctx context.Context, actor policy.Actor, userID int64, in dto.ChangePasswordRequest) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := validator.Struct(in); err != nil {
		return err
	}
	if err := policy.AuthorizePasswordChange(actor, userID); err != nil {
		return err
	}
	u, err := requireUser(ctx, uc.repos, userID)
	if err != nil {
		return err
	}

	if err := uc.hasher.Compare(u.PasswordHash, in.OldPassword); err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			return fmt.Errorf("compare password: %w", err)
		}
		if logErr := uc.audit.Log(ctx, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeUserMgmt,
			EntityID: &u.ID,
			Activity: fmt.Sprintf("Failed password change attempt for %s", u.Email),
		}); logErr != nil {
			return fmt.Errorf("record failed password change: %w", logErr)
		}
		return fmt.Errorf("%w: la contraseña actual no coincide", domain.ErrInvalidCredentials)
	}

	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	var entry *entity.ActivityLog
	err = uc.tx.Run(ctx, func(r ports.Repos) error {
		if err := r.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
			return err
		}
		where := "no location"
		if u.LocationID != nil {
			loc, err := requireLocation(ctx, r, *u.LocationID)
			if err != nil {
				return err
			}
			where = loc.Name
		}
		entry, err = uc.audit.Record(ctx, r.Logs, activity.Entry{
			ActorID:  actor.ID(),
			Type:     entity.LogTypeUserMgmt,
			EntityID: &u.ID,
			Activity: fmt.Sprintf("Password successfully changed for %s (role %s, location %s)", u.Email, u.Role, where),
		})
		return err
	})
	if err != nil {
		return err
	}
	uc.audit.Publish(ctx, entry)
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// locationForRole: los roles con sede la exigen; super-admin nunca la tiene.
func locationForRole(role entity.Role, locationID *int64) (*int64, error) {
	if !role.Scoped() {
		return nil, nil
	}
	if locationID == nil || *locationID <= 0 {
		return nil, fmt.Errorf("%w: el rol %s requiere location_id", domain.ErrInvalidInput, role)
	}
	return locationID, nil
}

func requireUser(ctx context.Context, r ports.Repos, id int64) (*entity.User, error) {
	u, err := r.Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: usuario %d", domain.ErrNotFound, id)
	}
	return u, nil
}

func requireLocation(ctx context.Context, r ports.Repos, id int64) (*entity.Location, error) {
	loc, err := r.Locations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: sede %d", domain.ErrNotFound, id)
	}
	return loc, nil
}

func ensureUserEmailFree(ctx context.Context, r ports.Repos, email string, selfID int64) error {
	other, err := r.Users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user by email: %w", err)
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, email)
	}
	return nil
}

func sameLocation(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func fmtLocation(id *int64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("#%d", *id)
}

// Package auth resuelve credenciales en una identidad firmada y audita los
// eventos de sesión (incluidos los intentos fallidos).
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/application/ports"
	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
	"github.com/jhoicas/salestrack-api/internal/domain/repository"
	"github.com/jhoicas/salestrack-api/pkg/validator"
)

// AuthUseCase casos de uso de autenticación: login, logout y perfil.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	audit  *activity.Service
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, audit *activity.Service) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: tokens, audit: audit}
}

// Login verifica email/password, genera el JWT y audita el resultado.
// Con email desconocido el intento se registra sin actor (user_id NULL).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Normalize()
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	email := in.Email

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if user == nil {
		return nil, uc.failed(ctx, nil, email)
	}
	if err := uc.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, fmt.Errorf("compare password: %w", err)
		}
		return nil, uc.failed(ctx, &user.ID, email)
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := uc.audit.Log(ctx, activity.Entry{
		ActorID:  &user.ID,
		Type:     entity.LogTypeAuth,
		EntityID: &user.ID,
		Activity: "User logged in - " + user.Email,
	}); err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: dto.FromUser(user)}, nil
}

// failed audita el intento fallido y devuelve siempre ErrInvalidCredentials,
// sin revelar si el email existe.
func (uc *AuthUseCase) failed(ctx context.Context, actorID *int64, email string) error {
	if err := uc.audit.Log(ctx, activity.Entry{
		ActorID:  actorID,
		Type:     entity.LogTypeAuth,
		EntityID: actorID,
		Activity: "Failed login attempt - " + email,
	}); err != nil {
		return err
	}
	return domain.ErrInvalidCredentials
}

// Logout audita el cierre de sesión. El token expira por sí mismo.
func (uc *AuthUseCase) Logout(ctx context.Context, actor policy.Actor) error {
	user, err := uc.current(ctx, actor)
	if err != nil {
		return err
	}
	return uc.audit.Log(ctx, activity.Entry{
		ActorID:  &user.ID,
		Type:     entity.LogTypeAuth,
		EntityID: &user.ID,
		Activity: "User logged out - " + user.Email,
	})
}

// Me devuelve el perfil del actor.
func (uc *AuthUseCase) Me(ctx context.Context, actor policy.Actor) (*dto.UserResponse, error) {
	user, err := uc.current(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := dto.FromUser(user)
	return &out, nil
}

func (uc *AuthUseCase) current(ctx context.Context, actor policy.Actor) (*entity.User, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		// El token es válido pero la cuenta ya no existe.
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

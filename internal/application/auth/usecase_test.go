package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	"github.com/jhoicas/salestrack-api/internal/application/apptest"
	"github.com/jhoicas/salestrack-api/internal/application/auth"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
	"github.com/jhoicas/salestrack-api/pkg/logger"
)

func newAuth(t *testing.T) (*apptest.World, *auth.AuthUseCase) {
	t.Helper()
	w := apptest.NewWorld()
	audit := activity.NewService(w.Store.Repos(), nil, logger.Nop())
	return w, auth.NewAuthUseCase(w.Store.Repos().Users, apptest.PlainHasher{}, apptest.StaticTokens{}, audit)
}

func TestLogin_Exitoso(t *testing.T) {
	w, uc := newAuth(t)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: " BETO@salestrack.co", Password: apptest.Password})
	require.NoError(t, err)
	assert.Equal(t, "token-4", out.Token)
	assert.Equal(t, w.SellerA.ID, out.User.ID)

	logs := w.Store.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.LogTypeAuth, logs[0].Type)
	assert.Equal(t, "User logged in - beto@salestrack.co", logs[0].Activity)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, w.SellerA.ID, *logs[0].UserID)
}

func TestLogin_EmailDesconocidoSinActor(t *testing.T) {
	w, uc := newAuth(t)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@salestrack.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	logs := w.Store.Logs()
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].UserID)
	assert.Equal(t, "Failed login attempt - nadie@salestrack.co", logs[0].Activity)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	w, uc := newAuth(t)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "beto@salestrack.co", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	logs := w.Store.Logs()
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, w.SellerA.ID, *logs[0].UserID)
	assert.Equal(t, "Failed login attempt - beto@salestrack.co", logs[0].Activity)
}

func TestLogoutYMe(t *testing.T) {
	w, uc := newAuth(t)
	ctx := context.Background()

	me, err := uc.Me(ctx, apptest.Actor(w.Manager1))
	require.NoError(t, err)
	assert.Equal(t, "ana@salestrack.co", me.Email)

	require.NoError(t, uc.Logout(ctx, apptest.Actor(w.Manager1)))
	logs := w.Store.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "User logged out - ana@salestrack.co", logs[0].Activity)

	_, err = uc.Me(ctx, policy.Actor{UserID: 999, Role: entity.RoleSuperAdmin})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated, "token válido de una cuenta borrada")
}

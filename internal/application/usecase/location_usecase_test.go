package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	"github.com/jhoicas/salestrack-api/internal/application/apptest"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/application/usecase"
	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/pkg/logger"
)

func TestLocationUseCase(t *testing.T) {
	ctx := context.Background()
	w := apptest.NewWorld()
	audit := activity.NewService(w.Store.Repos(), nil, logger.Nop())
	uc := usecase.NewLocationUseCase(w.Store.Repos(), w.Store, audit)
	admin := apptest.Actor(w.Admin)

	_, err := uc.Create(ctx, apptest.Actor(w.Manager1), dto.LocationRequest{Name: "Centro"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	created, err := uc.Create(ctx, admin, dto.LocationRequest{Name: "Centro"})
	require.NoError(t, err)

	renamed, err := uc.Rename(ctx, admin, created.ID, dto.LocationRequest{Name: "Centro Histórico"})
	require.NoError(t, err)
	assert.Equal(t, "Centro Histórico", renamed.Name)

	_, err = uc.Rename(ctx, admin, created.ID, dto.LocationRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, uc.Delete(ctx, admin, w.Loc1.ID), domain.ErrConflict, "Norte tiene usuarios")
	require.NoError(t, uc.Delete(ctx, admin, created.ID))

	list, err := uc.List(ctx, apptest.Actor(w.SellerA))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = uc.GetByID(ctx, admin, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	logs := w.Store.Logs()
	require.Len(t, logs, 3)
	for _, l := range logs {
		assert.Equal(t, entity.LogTypeLocation, l.Type)
	}
	assert.Equal(t, "Created location Centro", logs[0].Activity)
	assert.Equal(t, "Renamed location Centro to Centro Histórico", logs[1].Activity)
	assert.Equal(t, "Deleted location Centro Histórico", logs[2].Activity)
}

package assignments_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	"github.com/jhoicas/salestrack-api/internal/application/apptest"
	"github.com/jhoicas/salestrack-api/internal/application/assignments"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/assignment"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/pkg/logger"
)

type AssignmentsSuite struct {
	suite.Suite
	ctx context.Context
	w   *apptest.World
	pub *apptest.RecordingPublisher
	uc  *assignments.UseCase
}

func TestAssignmentsSuite(t *testing.T) {
	suite.Run(t, new(AssignmentsSuite))
}

func (s *AssignmentsSuite) SetupTest() {
	s.ctx = context.Background()
	s.w = apptest.NewWorld()
	s.pub = &apptest.RecordingPublisher{}
	audit := activity.NewService(s.w.Store.Repos(), s.pub, logger.Nop())
	s.uc = assignments.NewUseCase(s.w.Store.Repos(), s.w.Store, audit)
}

func (s *AssignmentsSuite) assign(u *entity.User, loc *entity.Location) *dto.AssignmentResponse {
	out, err := s.uc.CreateAssignment(s.ctx, apptest.Actor(s.w.Admin),
		dto.CreateAssignmentRequest{UserID: u.ID, LocationID: loc.ID})
	s.Require().NoError(err)
	return out
}

func (s *AssignmentsSuite) setActive(id int64, active bool) error {
	_, err := s.uc.UpdateAssignmentStatus(s.ctx, apptest.Actor(s.w.Admin), id,
		dto.UpdateAssignmentStatusRequest{Active: &active})
	return err
}

func expectedCode(loc, user int64, attempt int) string {
	return assignment.Code(time.Now().UTC().Year(), loc, user, attempt)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta
// ──────────────────────────────────────────────────────────────────────────────

func (s *AssignmentsSuite) TestCreateAssignment_DuplicadaActiva() {
	out, err := s.uc.CreateAssignment(s.ctx, apptest.Actor(s.w.Manager1),
		dto.CreateAssignmentRequest{UserID: s.w.SellerA.ID, LocationID: s.w.Loc1.ID})
	s.Require().NoError(err)
	s.True(out.Active)
	s.Equal(expectedCode(s.w.Loc1.ID, s.w.SellerA.ID, 0), out.Code)
	s.Equal("Beto", out.UserName)
	s.Equal("Norte", out.LocationName)

	_, err = s.uc.CreateAssignment(s.ctx, apptest.Actor(s.w.Manager1),
		dto.CreateAssignmentRequest{UserID: s.w.SellerA.ID, LocationID: s.w.Loc1.ID})
	s.ErrorIs(err, domain.ErrDuplicateAssignment)

	logs := s.w.Store.Logs()
	s.Require().Len(logs, 1)
	s.Equal(entity.LogTypeAssignment, logs[0].Type)
	s.Equal("Assigned salesperson Beto to location Norte (code "+out.Code+")", logs[0].Activity)
}

func (s *AssignmentsSuite) TestCreateAssignment_MismoVendedorEnOtraSede() {
	s.assign(s.w.SellerA, s.w.Loc1)
	out := s.assign(s.w.SellerA, s.w.Loc2)
	s.Equal(expectedCode(s.w.Loc2.ID, s.w.SellerA.ID, 0), out.Code)
}

func (s *AssignmentsSuite) TestCreateAssignment_Permisos() {
	_, err := s.uc.CreateAssignment(s.ctx, apptest.Actor(s.w.Manager2),
		dto.CreateAssignmentRequest{UserID: s.w.SellerA.ID, LocationID: s.w.Loc1.ID})
	s.ErrorIs(err, domain.ErrForbidden)

	_, err = s.uc.CreateAssignment(s.ctx, apptest.Actor(s.w.SellerA),
		dto.CreateAssignmentRequest{UserID: s.w.SellerA.ID, LocationID: s.w.Loc1.ID})
	s.ErrorIs(err, domain.ErrForbidden)

	_, err = s.uc.CreateAssignment(s.ctx, apptest.Actor(s.w.Admin),
		dto.CreateAssignmentRequest{UserID: s.w.Manager1.ID, LocationID: s.w.Loc1.ID})
	s.ErrorIs(err, domain.ErrInvalidSalesperson)

	_, err = s.uc.CreateAssignment(s.ctx, apptest.Actor(s.w.Admin),
		dto.CreateAssignmentRequest{UserID: s.w.SellerA.ID, LocationID: 99})
	s.ErrorIs(err, domain.ErrNotFound)

	s.Empty(s.w.Store.Logs())
}

func (s *AssignmentsSuite) TestCreateAssignment_ReintentaAnteColisionDeCodigo() {
	first := s.assign(s.w.SellerA, s.w.Loc1)
	_, err := s.uc.TransferAssignment(s.ctx, apptest.Actor(s.w.Admin), first.ID,
		dto.TransferAssignmentRequest{NewSalespersonID: s.w.SellerA2.ID})
	s.Require().NoError(err)

	// El código determinista de Beto en Norte ya pertenece al linaje transferido.
	again := s.assign(s.w.SellerA, s.w.Loc1)
	s.NotEqual(first.Code, again.Code)
	s.Equal(expectedCode(s.w.Loc1.ID, s.w.SellerA.ID, 1), again.Code)
}

func (s *AssignmentsSuite) TestCreateAssignment_FalloDeAuditoriaRevierte() {
	s.w.Store.FailNextAppend(apptest.ErrInjected)

	_, err := s.uc.CreateAssignment(s.ctx, apptest.Actor(s.w.Admin),
		dto.CreateAssignmentRequest{UserID: s.w.SellerA.ID, LocationID: s.w.Loc1.ID})
	s.ErrorIs(err, apptest.ErrInjected)
	s.Empty(s.w.Store.Assignments())
	s.Empty(s.pub.Published())

	// Sin residuos: el mismo alta funciona después.
	s.assign(s.w.SellerA, s.w.Loc1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado
// ──────────────────────────────────────────────────────────────────────────────

func (s *AssignmentsSuite) TestUpdateAssignmentStatus() {
	a := s.assign(s.w.SellerA, s.w.Loc1)

	s.Require().NoError(s.setActive(a.ID, false))
	s.Require().NoError(s.setActive(a.ID, true))

	logs := s.w.Store.Logs()
	s.Require().Len(logs, 3)
	s.Equal("Deactivated assignment "+a.Code+" for Beto at Norte", logs[1].Activity)
	s.Equal("Activated assignment "+a.Code+" for Beto at Norte", logs[2].Activity)
}

func (s *AssignmentsSuite) TestUpdateAssignmentStatus_ActivarChocaConOtraActiva() {
	old := s.assign(s.w.SellerA, s.w.Loc1)
	s.Require().NoError(s.setActive(old.ID, false))
	s.assign(s.w.SellerA, s.w.Loc1)

	s.ErrorIs(s.setActive(old.ID, true), domain.ErrDuplicateAssignment)
}

func (s *AssignmentsSuite) TestUpdateAssignmentStatus_ActivarCodigoYaOcupado() {
	src := s.assign(s.w.SellerA, s.w.Loc1)
	_, err := s.uc.TransferAssignment(s.ctx, apptest.Actor(s.w.Admin), src.ID,
		dto.TransferAssignmentRequest{NewSalespersonID: s.w.SellerA2.ID})
	s.Require().NoError(err)

	s.ErrorIs(s.setActive(src.ID, true), domain.ErrConflict, "el puesto ya lo ocupa Carla")
}

func (s *AssignmentsSuite) TestUpdateAssignmentStatus_GerenteDeOtraSede() {
	a := s.assign(s.w.SellerA, s.w.Loc1)
	no := false
	_, err := s.uc.UpdateAssignmentStatus(s.ctx, apptest.Actor(s.w.Manager2), a.ID,
		dto.UpdateAssignmentStatusRequest{Active: &no})
	s.ErrorIs(err, domain.ErrForbidden)

	_, err = s.uc.UpdateAssignmentStatus(s.ctx, apptest.Actor(s.w.Admin), a.ID, dto.UpdateAssignmentStatusRequest{})
	s.ErrorIs(err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transferencia
// ──────────────────────────────────────────────────────────────────────────────

func (s *AssignmentsSuite) TestTransferAssignment_ConservaElLinaje() {
	src := s.assign(s.w.SellerA, s.w.Loc1)

	dst, err := s.uc.TransferAssignment(s.ctx, apptest.Actor(s.w.Manager1), src.ID,
		dto.TransferAssignmentRequest{NewSalespersonID: s.w.SellerA2.ID})
	s.Require().NoError(err)
	s.NotEqual(src.ID, dst.ID)
	s.Equal(src.Code, dst.Code)
	s.Equal(s.w.SellerA2.ID, dst.UserID)
	s.True(dst.Active)

	rows := s.w.Store.Assignments()
	s.Require().Len(rows, 2)
	s.False(rows[0].Active, "el origen queda inactivo")
	s.True(rows[1].Active)

	logs := s.w.Store.Logs()
	s.Require().Len(logs, 2, "una sola entrada por transferencia")
	s.Equal("Transferred assignment "+src.Code+" at Norte from Beto to Carla", logs[1].Activity)
	s.Require().NotNil(logs[1].EntityID)
	s.Equal(dst.ID, *logs[1].EntityID)
}

func (s *AssignmentsSuite) TestTransferAssignment_AuditoriaVisibleEnTodoElLinaje() {
	src := s.assign(s.w.SellerA, s.w.Loc1)
	dst, err := s.uc.TransferAssignment(s.ctx, apptest.Actor(s.w.Manager1), src.ID,
		dto.TransferAssignmentRequest{NewSalespersonID: s.w.SellerA2.ID})
	s.Require().NoError(err)
	transfer := "Transferred assignment " + src.Code + " at Norte from Beto to Carla"

	for _, id := range []int64{src.ID, dst.ID} {
		logs, err := s.uc.GetAssignmentLogs(s.ctx, apptest.Actor(s.w.Manager1), id)
		s.Require().NoError(err)
		s.Require().Len(logs, 2, "alta y transferencia, fila %d", id)
		activities := []string{logs[0].Activity, logs[1].Activity}
		s.Contains(activities, transfer)
	}

	other := s.assign(s.w.SellerA, s.w.Loc2)
	logs, err := s.uc.GetAssignmentLogs(s.ctx, apptest.Actor(s.w.Admin), other.ID)
	s.Require().NoError(err)
	s.Len(logs, 1, "otro linaje no se mezcla")
}

func (s *AssignmentsSuite) TestTransferAssignment_Conflictos() {
	src := s.assign(s.w.SellerA, s.w.Loc1)

	_, err := s.uc.TransferAssignment(s.ctx, apptest.Actor(s.w.Admin), src.ID,
		dto.TransferAssignmentRequest{NewSalespersonID: s.w.SellerA.ID})
	s.ErrorIs(err, domain.ErrConflict, "mismo vendedor")

	s.assign(s.w.SellerA2, s.w.Loc1)
	_, err = s.uc.TransferAssignment(s.ctx, apptest.Actor(s.w.Admin), src.ID,
		dto.TransferAssignmentRequest{NewSalespersonID: s.w.SellerA2.ID})
	s.ErrorIs(err, domain.ErrDuplicateAssignment, "Carla ya está activa en Norte")

	s.Require().NoError(s.setActive(src.ID, false))
	_, err = s.uc.TransferAssignment(s.ctx, apptest.Actor(s.w.Admin), src.ID,
		dto.TransferAssignmentRequest{NewSalespersonID: s.w.SellerB.ID})
	s.ErrorIs(err, domain.ErrConflict, "origen inactivo")

	_, err = s.uc.TransferAssignment(s.ctx, apptest.Actor(s.w.Manager2), src.ID,
		dto.TransferAssignmentRequest{NewSalespersonID: s.w.SellerB.ID})
	s.ErrorIs(err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado y consultas
// ──────────────────────────────────────────────────────────────────────────────

func (s *AssignmentsSuite) TestDeleteAssignment() {
	a := s.assign(s.w.SellerA, s.w.Loc1)

	s.ErrorIs(s.uc.DeleteAssignment(s.ctx, apptest.Actor(s.w.SellerA), a.ID), domain.ErrForbidden)
	s.Require().NoError(s.uc.DeleteAssignment(s.ctx, apptest.Actor(s.w.Manager1), a.ID))
	s.Empty(s.w.Store.Assignments())

	logs := s.w.Store.Logs()
	s.Require().Len(logs, 2)
	s.Equal("Deleted assignment "+a.Code+" of Beto at Norte", logs[1].Activity)

	s.ErrorIs(s.uc.DeleteAssignment(s.ctx, apptest.Actor(s.w.Admin), a.ID), domain.ErrNotFound)
}

func (s *AssignmentsSuite) TestConsultasAcotadas() {
	a1 := s.assign(s.w.SellerA, s.w.Loc1)
	s.assign(s.w.SellerA2, s.w.Loc1)
	s.assign(s.w.SellerB, s.w.Loc2)
	s.assign(s.w.SellerA, s.w.Loc2)

	people, err := s.uc.GetLocationSalespeople(s.ctx, apptest.Actor(s.w.Manager1), s.w.Loc1.ID)
	s.Require().NoError(err)
	s.Len(people, 2)
	s.Greater(people[0].Code, people[1].Code, "código descendente")

	people, err = s.uc.GetLocationSalespeople(s.ctx, apptest.Actor(s.w.Manager2), s.w.Loc1.ID)
	s.Require().NoError(err)
	s.Empty(people, "fuera de su sede el resultado se estrecha")

	locs, err := s.uc.GetSalespersonLocations(s.ctx, apptest.Actor(s.w.SellerA), s.w.SellerA.ID)
	s.Require().NoError(err)
	s.Len(locs, 2)

	locs, err = s.uc.GetSalespersonLocations(s.ctx, apptest.Actor(s.w.SellerA), s.w.SellerB.ID)
	s.Require().NoError(err)
	s.Empty(locs)

	s.Require().NoError(s.setActive(a1.ID, false))
	hist, err := s.uc.GetAssignmentHistory(s.ctx, apptest.Actor(s.w.Manager1), nil, &s.w.SellerA.ID)
	s.Require().NoError(err)
	s.Require().Len(hist, 1, "el gerente sólo ve Norte")
	s.False(hist[0].Active)

	_, err = s.uc.GetAssignment(s.ctx, apptest.Actor(s.w.SellerB), a1.ID)
	s.ErrorIs(err, domain.ErrForbidden)

	logs, err := s.uc.GetAssignmentLogs(s.ctx, apptest.Actor(s.w.SellerA), a1.ID)
	s.Require().NoError(err)
	s.Len(logs, 2)
}

package customers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	"github.com/jhoicas/salestrack-api/internal/application/apptest"
	"github.com/jhoicas/salestrack-api/internal/application/customers"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/pkg/logger"
)

type fakeReport struct {
	got *dto.CustomerReport
}

func (f *fakeReport) GenerateCustomerReport(_ context.Context, r dto.CustomerReport) ([]byte, error) {
	f.got = &r
	return []byte("%PDF"), nil
}

type CustomersSuite struct {
	suite.Suite
	ctx    context.Context
	w      *apptest.World
	pub    *apptest.RecordingPublisher
	report *fakeReport
	uc     *customers.UseCase
}

func TestCustomersSuite(t *testing.T) {
	suite.Run(t, new(CustomersSuite))
}

func (s *CustomersSuite) SetupTest() {
	s.ctx = context.Background()
	s.w = apptest.NewWorld()
	s.pub = &apptest.RecordingPublisher{}
	s.report = &fakeReport{}
	audit := activity.NewService(s.w.Store.Repos(), s.pub, logger.Nop())
	s.uc = customers.NewUseCase(s.w.Store.Repos(), s.w.Store, audit, s.report)
}

var visit = time.Date(2026, 10, 20, 15, 0, 0, 0, time.UTC)

func (s *CustomersSuite) newCustomer(actorUser *entity.User, email string, salespersonID int64) *dto.CustomerResponse {
	out, err := s.uc.CreateCustomer(s.ctx, apptest.Actor(actorUser), dto.CreateCustomerRequest{
		Name:          "Cliente " + email,
		Email:         email,
		Phone:         "3001234567",
		LocationID:    s.w.Loc1.ID,
		SalespersonID: salespersonID,
		VisitDate:     visit,
	})
	s.Require().NoError(err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Alcance de lectura
// ──────────────────────────────────────────────────────────────────────────────

func (s *CustomersSuite) TestGetCustomers_AlcancePorRol() {
	created := s.newCustomer(s.w.SellerA, "x@y.com", 0)

	ids := func(u *entity.User) []int64 {
		res, err := s.uc.GetCustomers(s.ctx, apptest.Actor(u), dto.CustomerFilter{})
		s.Require().NoError(err)
		out := make([]int64, 0, len(res.Items))
		for _, c := range res.Items {
			out = append(out, c.ID)
		}
		return out
	}

	s.NotContains(ids(s.w.SellerB), created.ID, "vendedor de otra sede")
	s.NotContains(ids(s.w.SellerA2), created.ID, "otro vendedor de la misma sede")
	s.Contains(ids(s.w.SellerA), created.ID)
	s.Contains(ids(s.w.Manager1), created.ID)
	s.NotContains(ids(s.w.Manager2), created.ID)
	s.Contains(ids(s.w.Admin), created.ID)
}

func (s *CustomersSuite) TestGetCustomers_FiltrosNoAmplianElAlcance() {
	s.newCustomer(s.w.SellerA, "a@y.com", 0)
	loc1 := s.w.Loc1.ID

	res, err := s.uc.GetCustomers(s.ctx, apptest.Actor(s.w.Manager2), dto.CustomerFilter{LocationID: &loc1})
	s.Require().NoError(err)
	s.Empty(res.Items)
	s.Equal(int64(0), res.Page.Total)

	n, err := s.uc.GetCustomersCount(s.ctx, apptest.Actor(s.w.Manager1), dto.CustomerFilter{LocationID: &loc1})
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *CustomersSuite) TestGetCustomer_FueraDeAlcance() {
	c := s.newCustomer(s.w.SellerA, "a@y.com", 0)

	_, err := s.uc.GetCustomer(s.ctx, apptest.Actor(s.w.SellerB), c.ID)
	s.ErrorIs(err, domain.ErrForbidden)

	_, err = s.uc.GetCustomer(s.ctx, apptest.Actor(s.w.Admin), 999)
	s.ErrorIs(err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta
// ──────────────────────────────────────────────────────────────────────────────

func (s *CustomersSuite) TestCreateCustomer_VendedorSeAsignaASiMismo() {
	out, err := s.uc.CreateCustomer(s.ctx, apptest.Actor(s.w.SellerA), dto.CreateCustomerRequest{
		Name:          "Acme",
		Email:         "  Compras@Acme.co ",
		Phone:         "3001234567",
		LocationID:    s.w.Loc2.ID,
		SalespersonID: s.w.SellerB.ID,
		VisitDate:     visit,
	})
	s.Require().NoError(err)
	s.Equal(s.w.SellerA.ID, out.SalespersonID)
	s.Equal(s.w.Loc1.ID, out.LocationID)
	s.Equal("compras@acme.co", out.Email)
	s.Equal(string(entity.CustomerPending), out.Status)

	logs := s.w.Store.Logs()
	s.Require().Len(logs, 1)
	s.Equal(entity.LogTypeCustomer, logs[0].Type)
	s.Equal("Created customer Acme (compras@acme.co) at Norte, assigned to Beto", logs[0].Activity)
	s.Require().NotNil(logs[0].UserID)
	s.Equal(s.w.SellerA.ID, *logs[0].UserID)
	s.Len(s.pub.Published(), 1, "se publica tras el commit")
}

func (s *CustomersSuite) TestCreateCustomer_GerenteConVendedorDeOtraSede() {
	_, err := s.uc.CreateCustomer(s.ctx, apptest.Actor(s.w.Manager1), dto.CreateCustomerRequest{
		Name:          "Acme",
		Email:         "acme@y.com",
		Phone:         "3001234567",
		SalespersonID: s.w.SellerB.ID,
		VisitDate:     visit,
	})
	s.ErrorIs(err, domain.ErrInvalidSalesperson)
	s.Empty(s.w.Store.Logs())
}

func (s *CustomersSuite) TestCreateCustomer_EmailDuplicado() {
	s.newCustomer(s.w.SellerA, "x@y.com", 0)

	_, err := s.uc.CreateCustomer(s.ctx, apptest.Actor(s.w.SellerB), dto.CreateCustomerRequest{
		Name:      "Otro",
		Email:     "X@Y.com",
		Phone:     "3001234567",
		VisitDate: visit,
	})
	s.ErrorIs(err, domain.ErrDuplicateEmail)
	s.Len(s.w.Store.Logs(), 1)
}

func (s *CustomersSuite) TestCreateCustomer_AdminExigeSedeYVendedor() {
	_, err := s.uc.CreateCustomer(s.ctx, apptest.Actor(s.w.Admin), dto.CreateCustomerRequest{
		Name:          "Acme",
		Email:         "acme@y.com",
		Phone:         "3001234567",
		SalespersonID: s.w.SellerA.ID,
		VisitDate:     visit,
	})
	s.ErrorIs(err, domain.ErrInvalidInput)

	_, err = s.uc.CreateCustomer(s.ctx, apptest.Actor(s.w.Admin), dto.CreateCustomerRequest{
		Name:          "Acme",
		Email:         "acme@y.com",
		Phone:         "3001234567",
		LocationID:    s.w.Loc1.ID,
		SalespersonID: s.w.Manager1.ID,
		VisitDate:     visit,
	})
	s.ErrorIs(err, domain.ErrInvalidSalesperson)
}

func (s *CustomersSuite) TestCreateCustomer_FalloDeAuditoriaRevierteElAlta() {
	s.w.Store.FailNextAppend(apptest.ErrInjected)

	_, err := s.uc.CreateCustomer(s.ctx, apptest.Actor(s.w.SellerA), dto.CreateCustomerRequest{
		Name:      "Acme",
		Email:     "acme@y.com",
		Phone:     "3001234567",
		VisitDate: visit,
	})
	s.ErrorIs(err, apptest.ErrInjected)

	n, err := s.uc.GetCustomersCount(s.ctx, apptest.Actor(s.w.Admin), dto.CustomerFilter{})
	s.Require().NoError(err)
	s.Zero(n, "sin auditoría no hay cliente")
	s.Empty(s.w.Store.Logs())
	s.Empty(s.pub.Published())
}

func (s *CustomersSuite) TestCreateCustomer_EntradaInvalida() {
	_, err := s.uc.CreateCustomer(s.ctx, apptest.Actor(s.w.SellerA), dto.CreateCustomerRequest{
		Name:  "Acme",
		Email: "no-es-email",
		Phone: "3001234567",
	})
	s.ErrorIs(err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Modificaciones
// ──────────────────────────────────────────────────────────────────────────────

func (s *CustomersSuite) TestUpdateCustomer_ResumenDeCambios() {
	c := s.newCustomer(s.w.SellerA, "a@y.com", 0)
	name := "Acme SAS"
	status := string(entity.CustomerOngoing)

	out, err := s.uc.UpdateCustomer(s.ctx, apptest.Actor(s.w.SellerA), c.ID, dto.UpdateCustomerRequest{
		Name:   &name,
		Status: &status,
	})
	s.Require().NoError(err)
	s.Equal("Acme SAS", out.Name)

	logs := s.w.Store.Logs()
	s.Require().Len(logs, 2)
	s.Equal(`Updated customer Acme SAS: name from "Cliente a@y.com" to "Acme SAS"; status from pending to ongoing`, logs[1].Activity)
	s.Require().NotNil(logs[1].EntityID)
	s.Equal(c.ID, *logs[1].EntityID)
}

func (s *CustomersSuite) TestUpdateCustomer_SinCambiosTambienAudita() {
	c := s.newCustomer(s.w.SellerA, "a@y.com", 0)

	_, err := s.uc.UpdateCustomer(s.ctx, apptest.Actor(s.w.SellerA), c.ID, dto.UpdateCustomerRequest{})
	s.Require().NoError(err)

	logs := s.w.Store.Logs()
	s.Require().Len(logs, 2)
	s.Equal("Updated customer Cliente a@y.com: no changes", logs[1].Activity)
}

func (s *CustomersSuite) TestUpdateCustomer_OtroVendedorNoPuede() {
	c := s.newCustomer(s.w.SellerA, "a@y.com", 0)
	name := "Robado"

	_, err := s.uc.UpdateCustomer(s.ctx, apptest.Actor(s.w.SellerA2), c.ID, dto.UpdateCustomerRequest{Name: &name})
	s.ErrorIs(err, domain.ErrForbidden)

	_, err = s.uc.UpdateCustomer(s.ctx, apptest.Actor(s.w.Manager2), c.ID, dto.UpdateCustomerRequest{Name: &name})
	s.ErrorIs(err, domain.ErrForbidden)

	s.Equal("Cliente a@y.com", s.w.Store.Customer(c.ID).Name)
	s.Len(s.w.Store.Logs(), 1)
}

func (s *CustomersSuite) TestUpdateCustomer_EmailDuplicado() {
	s.newCustomer(s.w.SellerA, "a@y.com", 0)
	c := s.newCustomer(s.w.SellerA, "b@y.com", 0)
	email := "A@y.com"

	_, err := s.uc.UpdateCustomer(s.ctx, apptest.Actor(s.w.SellerA), c.ID, dto.UpdateCustomerRequest{Email: &email})
	s.ErrorIs(err, domain.ErrDuplicateEmail)
}

func (s *CustomersSuite) TestUpdateVisitDateYEstado() {
	c := s.newCustomer(s.w.SellerA, "a@y.com", 0)
	next := visit.AddDate(0, 0, 7)

	out, err := s.uc.UpdateVisitDate(s.ctx, apptest.Actor(s.w.Manager1), c.ID, dto.UpdateVisitDateRequest{VisitDate: next})
	s.Require().NoError(err)
	s.True(out.VisitDate.Equal(next))

	out, err = s.uc.UpdateCustomerStatus(s.ctx, apptest.Actor(s.w.SellerA), c.ID,
		dto.UpdateCustomerStatusRequest{Status: string(entity.CustomerCompleted)})
	s.Require().NoError(err)
	s.Equal(string(entity.CustomerCompleted), out.Status)

	logs := s.w.Store.Logs()
	s.Require().Len(logs, 3)
	s.Equal("Updated visit date for customer Cliente a@y.com from 2026-10-20 to 2026-10-27", logs[1].Activity)
	s.Equal("Updated status for customer Cliente a@y.com from pending to completed", logs[2].Activity)

	_, err = s.uc.UpdateCustomerStatus(s.ctx, apptest.Actor(s.w.SellerA), c.ID,
		dto.UpdateCustomerStatusRequest{Status: "archived"})
	s.ErrorIs(err, domain.ErrInvalidInput)
}

func (s *CustomersSuite) TestReassignCustomer() {
	c := s.newCustomer(s.w.SellerA, "a@y.com", 0)

	_, err := s.uc.ReassignCustomer(s.ctx, apptest.Actor(s.w.SellerA), c.ID,
		dto.ReassignCustomerRequest{SalespersonID: s.w.SellerA2.ID})
	s.ErrorIs(err, domain.ErrForbidden, "un vendedor no cede clientes")

	_, err = s.uc.ReassignCustomer(s.ctx, apptest.Actor(s.w.Manager1), c.ID,
		dto.ReassignCustomerRequest{SalespersonID: s.w.SellerB.ID})
	s.ErrorIs(err, domain.ErrInvalidSalesperson)

	out, err := s.uc.ReassignCustomer(s.ctx, apptest.Actor(s.w.Manager1), c.ID,
		dto.ReassignCustomerRequest{SalespersonID: s.w.SellerA2.ID})
	s.Require().NoError(err)
	s.Equal(s.w.SellerA2.ID, out.SalespersonID)

	logs := s.w.Store.Logs()
	s.Require().Len(logs, 2)
	s.Equal("Reassigned customer Cliente a@y.com from Beto to Carla", logs[1].Activity)

	_, err = s.uc.GetCustomer(s.ctx, apptest.Actor(s.w.SellerA), c.ID)
	s.ErrorIs(err, domain.ErrForbidden, "el vendedor anterior pierde la visibilidad")
}

func (s *CustomersSuite) TestGetCustomerLogs() {
	c := s.newCustomer(s.w.SellerA, "a@y.com", 0)
	other := s.newCustomer(s.w.SellerA, "b@y.com", 0)
	_, err := s.uc.UpdateCustomer(s.ctx, apptest.Actor(s.w.SellerA), c.ID, dto.UpdateCustomerRequest{})
	s.Require().NoError(err)

	logs, err := s.uc.GetCustomerLogs(s.ctx, apptest.Actor(s.w.Manager1), c.ID)
	s.Require().NoError(err)
	s.Len(logs, 2)
	for _, l := range logs {
		s.Require().NotNil(l.EntityID)
		s.Equal(c.ID, *l.EntityID)
	}

	_, err = s.uc.GetCustomerLogs(s.ctx, apptest.Actor(s.w.SellerB), other.ID)
	s.ErrorIs(err, domain.ErrForbidden)
}

func (s *CustomersSuite) TestCustomerReport_ResuelveNombres() {
	s.newCustomer(s.w.SellerA, "a@y.com", 0)
	s.newCustomer(s.w.Manager1, "b@y.com", s.w.SellerA2.ID)

	pdf, err := s.uc.CustomerReport(s.ctx, apptest.Actor(s.w.SellerA), dto.CustomerFilter{})
	s.Require().NoError(err)
	s.Equal([]byte("%PDF"), pdf)

	s.Require().NotNil(s.report.got)
	s.Equal("Beto", s.report.got.GeneratedBy)
	s.Require().Len(s.report.got.Rows, 1, "sólo sus propios clientes")
	s.Equal("Norte", s.report.got.Rows[0].Location)
	s.Equal("Beto", s.report.got.Rows[0].Salesperson)
}

// ──────────────────────────────────────────────────────────────────────────────
// Identidad
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomers_ActorInvalido(t *testing.T) {
	w := apptest.NewWorld()
	audit := activity.NewService(w.Store.Repos(), nil, logger.Nop())
	uc := customers.NewUseCase(w.Store.Repos(), w.Store, audit, nil)

	_, err := uc.GetCustomers(context.Background(), apptest.Actor(&entity.User{}), dto.CustomerFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = uc.CustomerReport(context.Background(), apptest.Actor(w.Admin), dto.CustomerFilter{})
	assert.Error(t, err, "sin generador configurado")
}

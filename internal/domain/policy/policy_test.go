package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

var (
	admin     = policy.Actor{UserID: 1, Role: entity.RoleSuperAdmin}
	manager1  = policy.Actor{UserID: 2, Role: entity.RoleLocationManager, LocationID: 1}
	manager2  = policy.Actor{UserID: 3, Role: entity.RoleLocationManager, LocationID: 2}
	sellerA   = policy.Actor{UserID: 10, Role: entity.RoleSalesperson, LocationID: 1}
	sellerB   = policy.Actor{UserID: 20, Role: entity.RoleSalesperson, LocationID: 2}
	customerA = &entity.Customer{ID: 100, LocationID: 1, SalespersonID: 10}
)

func loc(id int64) *int64 { return &id }

func salesperson(id, location int64) *entity.User {
	return &entity.User{ID: id, Role: entity.RoleSalesperson, LocationID: loc(location)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Actor
// ──────────────────────────────────────────────────────────────────────────────

func TestActorValidate(t *testing.T) {
	assert.NoError(t, admin.Validate())
	assert.NoError(t, sellerA.Validate())

	err := policy.Actor{}.Validate()
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	err = policy.Actor{UserID: 5, Role: "root"}.Validate()
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	err = policy.Actor{UserID: 5, Role: entity.RoleSalesperson}.Validate()
	assert.ErrorIs(t, err, domain.ErrForbidden, "un vendedor sin sede no puede operar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomerReadScope_PorRol(t *testing.T) {
	s, err := policy.CustomerReadScope(admin)
	require.NoError(t, err)
	assert.Nil(t, s.LocationID)
	assert.Nil(t, s.SalespersonID)

	s, err = policy.CustomerReadScope(manager1)
	require.NoError(t, err)
	require.NotNil(t, s.LocationID)
	assert.Equal(t, int64(1), *s.LocationID)
	assert.Nil(t, s.SalespersonID)

	s, err = policy.CustomerReadScope(sellerA)
	require.NoError(t, err)
	require.NotNil(t, s.SalespersonID)
	assert.Equal(t, int64(10), *s.SalespersonID)
}

func TestCustomerReadScope_Visibilidad(t *testing.T) {
	cases := []struct {
		name  string
		actor policy.Actor
		want  bool
	}{
		{"admin ve todo", admin, true},
		{"gerente de la sede lo ve", manager1, true},
		{"gerente de otra sede no lo ve", manager2, false},
		{"vendedor dueño lo ve", sellerA, true},
		{"otro vendedor no lo ve", sellerB, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := policy.CustomerReadScope(tc.actor)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s.Allows(customerA))
		})
	}
}

func TestResolveCustomerOwner_AdminUsaValoresIndicados(t *testing.T) {
	owner, err := policy.ResolveCustomerOwner(admin,
		policy.Owner{LocationID: 7, SalespersonID: 20}, salesperson(20, 2))
	require.NoError(t, err)
	assert.Equal(t, policy.Owner{LocationID: 7, SalespersonID: 20}, owner)
}

func TestResolveCustomerOwner_AdminConUsuarioNoVendedor(t *testing.T) {
	notSeller := &entity.User{ID: 2, Role: entity.RoleLocationManager, LocationID: loc(1)}
	_, err := policy.ResolveCustomerOwner(admin, policy.Owner{LocationID: 1, SalespersonID: 2}, notSeller)
	assert.ErrorIs(t, err, domain.ErrInvalidSalesperson)

	_, err = policy.ResolveCustomerOwner(admin, policy.Owner{LocationID: 1, SalespersonID: 99}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSalesperson)
}

func TestResolveCustomerOwner_GerenteConVendedorDeOtraSede(t *testing.T) {
	_, err := policy.ResolveCustomerOwner(manager1,
		policy.Owner{LocationID: 1, SalespersonID: 20}, salesperson(20, 2))
	assert.ErrorIs(t, err, domain.ErrInvalidSalesperson)
}

func TestResolveCustomerOwner_GerenteFuerzaSuSede(t *testing.T) {
	owner, err := policy.ResolveCustomerOwner(manager1,
		policy.Owner{LocationID: 2, SalespersonID: 10}, salesperson(10, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), owner.LocationID, "la sede indicada se ignora")
	assert.Equal(t, int64(10), owner.SalespersonID)
}

func TestResolveCustomerOwner_VendedorSeAsignaASiMismo(t *testing.T) {
	owner, err := policy.ResolveCustomerOwner(sellerA,
		policy.Owner{LocationID: 2, SalespersonID: 20}, salesperson(20, 2))
	require.NoError(t, err)
	assert.Equal(t, policy.Owner{LocationID: 1, SalespersonID: 10}, owner)
}

func TestAuthorizeCustomerWrite(t *testing.T) {
	assert.NoError(t, policy.AuthorizeCustomerWrite(admin, customerA))
	assert.NoError(t, policy.AuthorizeCustomerWrite(manager1, customerA))
	assert.NoError(t, policy.AuthorizeCustomerWrite(sellerA, customerA))
	assert.ErrorIs(t, policy.AuthorizeCustomerWrite(manager2, customerA), domain.ErrForbidden)
	assert.ErrorIs(t, policy.AuthorizeCustomerWrite(sellerB, customerA), domain.ErrForbidden)
}

func TestAuthorizeCustomerReassign(t *testing.T) {
	assert.NoError(t, policy.AuthorizeCustomerReassign(manager1, customerA, salesperson(11, 1)))
	assert.ErrorIs(t,
		policy.AuthorizeCustomerReassign(manager1, customerA, salesperson(20, 2)),
		domain.ErrInvalidSalesperson)
	assert.ErrorIs(t,
		policy.AuthorizeCustomerReassign(sellerA, customerA, salesperson(11, 1)),
		domain.ErrForbidden, "el vendedor no puede ceder su cliente")
	assert.NoError(t, policy.AuthorizeCustomerReassign(admin, customerA, salesperson(20, 2)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestUserPolicy(t *testing.T) {
	other := salesperson(11, 1)
	self := salesperson(10, 1)

	assert.NoError(t, policy.AuthorizeUserCreate(admin))
	assert.ErrorIs(t, policy.AuthorizeUserCreate(manager1), domain.ErrForbidden)

	assert.NoError(t, policy.AuthorizeUserRead(manager1, other))
	assert.ErrorIs(t, policy.AuthorizeUserRead(manager2, other), domain.ErrForbidden)
	assert.ErrorIs(t, policy.AuthorizeUserRead(sellerA, other), domain.ErrForbidden)
	assert.NoError(t, policy.AuthorizeUserRead(sellerA, self))

	assert.NoError(t, policy.AuthorizeUserUpdate(sellerA, self, false))
	assert.ErrorIs(t, policy.AuthorizeUserUpdate(sellerA, self, true), domain.ErrForbidden)
	assert.ErrorIs(t, policy.AuthorizeUserUpdate(manager1, other, false), domain.ErrForbidden)
	assert.NoError(t, policy.AuthorizeUserUpdate(admin, other, true))

	assert.NoError(t, policy.AuthorizeUserDelete(admin))
	assert.NoError(t, policy.AuthorizeUserDelete(admin, 10, 11))
	assert.ErrorIs(t, policy.AuthorizeUserDelete(admin, admin.UserID), domain.ErrForbidden)
	assert.ErrorIs(t, policy.AuthorizeUserDelete(admin, 10, admin.UserID), domain.ErrForbidden)
	assert.ErrorIs(t, policy.AuthorizeUserDelete(manager1), domain.ErrForbidden)

	assert.NoError(t, policy.AuthorizePasswordChange(sellerA, 10))
	assert.ErrorIs(t, policy.AuthorizePasswordChange(sellerA, 11), domain.ErrForbidden)
	assert.NoError(t, policy.AuthorizePasswordChange(admin, 11))
}

// ──────────────────────────────────────────────────────────────────────────────
// Asignaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestAssignmentPolicy(t *testing.T) {
	assert.NoError(t, policy.AuthorizeAssignmentWrite(admin, 9))
	assert.NoError(t, policy.AuthorizeAssignmentWrite(manager1, 1))
	assert.ErrorIs(t, policy.AuthorizeAssignmentWrite(manager1, 2), domain.ErrForbidden)
	assert.ErrorIs(t, policy.AuthorizeAssignmentWrite(sellerA, 1), domain.ErrForbidden)

	own := &entity.Assignment{ID: 1, UserID: 10, LocationID: 1}
	foreign := &entity.Assignment{ID: 2, UserID: 20, LocationID: 2}
	assert.NoError(t, policy.AuthorizeAssignmentRead(sellerA, own))
	assert.ErrorIs(t, policy.AuthorizeAssignmentRead(sellerA, foreign), domain.ErrForbidden)
	assert.ErrorIs(t, policy.AuthorizeAssignmentRead(manager1, foreign), domain.ErrForbidden)
	assert.NoError(t, policy.AuthorizeAssignmentRead(manager2, foreign))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestLogReadScope_Gerente(t *testing.T) {
	s, err := policy.LogReadScope(manager1)
	require.NoError(t, err)

	author := salesperson(10, 1)
	custLog := &entity.ActivityLog{UserID: loc(10), Type: entity.LogTypeCustomer}
	authLog := &entity.ActivityLog{UserID: loc(10), Type: entity.LogTypeAuth}

	assert.True(t, s.Allows(custLog, author))
	assert.False(t, s.Allows(authLog, author), "el gerente no ve logs AUTH")
	assert.False(t, s.Allows(custLog, salesperson(20, 2)), "ni logs de otra sede")
	assert.False(t, s.Allows(custLog, nil))
}

func TestLogReadScope_Vendedor(t *testing.T) {
	s, err := policy.LogReadScope(sellerA)
	require.NoError(t, err)

	assert.True(t, s.Allows(&entity.ActivityLog{UserID: loc(10), Type: entity.LogTypeAuth}, nil))
	assert.False(t, s.Allows(&entity.ActivityLog{UserID: loc(10), Type: entity.LogTypeAssignment}, nil))
	assert.False(t, s.Allows(&entity.ActivityLog{UserID: loc(20), Type: entity.LogTypeCustomer}, nil))
	assert.False(t, s.Allows(&entity.ActivityLog{Type: entity.LogTypeAuth}, nil), "log sin actor")
}

func TestAuthorizeUserLogs(t *testing.T) {
	assert.NoError(t, policy.AuthorizeUserLogs(admin, salesperson(20, 2)))
	assert.NoError(t, policy.AuthorizeUserLogs(manager1, salesperson(10, 1)))
	assert.ErrorIs(t, policy.AuthorizeUserLogs(manager1, salesperson(20, 2)), domain.ErrForbidden)
	assert.NoError(t, policy.AuthorizeUserLogs(sellerA, salesperson(10, 1)))
	assert.ErrorIs(t, policy.AuthorizeUserLogs(sellerA, salesperson(11, 1)), domain.ErrForbidden)
}

func TestAuthorizeLocationWrite(t *testing.T) {
	assert.NoError(t, policy.AuthorizeLocationWrite(admin))
	assert.ErrorIs(t, policy.AuthorizeLocationWrite(manager1), domain.ErrForbidden)
	assert.ErrorIs(t, policy.AuthorizeLocationWrite(policy.Actor{UserID: 1, Role: "x"}), domain.ErrUnauthenticated)
}

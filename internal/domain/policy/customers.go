package policy

import (
	"fmt"

	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
)

// CustomerScope restringe las filas de clientes visibles. Campos nil = sin restricción.
type CustomerScope struct {
	LocationID    *int64
	SalespersonID *int64
}

// Allows indica si el cliente cae dentro del alcance.
func (s CustomerScope) Allows(c *entity.Customer) bool {
	if c == nil {
		return false
	}
	if s.LocationID != nil && c.LocationID != *s.LocationID {
		return false
	}
	if s.SalespersonID != nil && c.SalespersonID != *s.SalespersonID {
		return false
	}
	return true
}

// CustomerReadScope calcula el filtro de filas que se combina (AND) con los filtros del usuario.
func CustomerReadScope(a Actor) (CustomerScope, error) {
	switch a.Role {
	case entity.RoleSuperAdmin:
		return CustomerScope{}, nil
	case entity.RoleLocationManager:
		return CustomerScope{LocationID: ptr(a.LocationID)}, nil
	case entity.RoleSalesperson:
		return CustomerScope{SalespersonID: ptr(a.UserID)}, nil
	}
	return CustomerScope{}, unknownRole(a)
}

// AuthorizeCustomerRead valida la lectura individual de un cliente.
func AuthorizeCustomerRead(a Actor, c *entity.Customer) error {
	scope, err := CustomerReadScope(a)
	if err != nil {
		return err
	}
	if !scope.Allows(c) {
		return forbidden("el cliente está fuera de su alcance")
	}
	return nil
}

// Owner es la pareja (sede, vendedor) que posee a un cliente.
type Owner struct {
	LocationID    int64
	SalespersonID int64
}

// ResolveCustomerOwner decide la sede y el vendedor finales al crear un cliente.
// salesperson es el usuario referenciado por requested.SalespersonID (nil si no existe).
func ResolveCustomerOwner(a Actor, requested Owner, salesperson *entity.User) (Owner, error) {
	switch a.Role {
	case entity.RoleSuperAdmin:
		if requested.LocationID <= 0 {
			return Owner{}, fmt.Errorf("%w: location_id es obligatorio", domain.ErrInvalidInput)
		}
		if !salesperson.IsSalesperson() {
			return Owner{}, fmt.Errorf("%w: el usuario %d no es vendedor", domain.ErrInvalidSalesperson, requested.SalespersonID)
		}
		return Owner{LocationID: requested.LocationID, SalespersonID: salesperson.ID}, nil
	case entity.RoleLocationManager:
		if !salesperson.IsSalesperson() || !salesperson.InLocation(a.LocationID) {
			return Owner{}, fmt.Errorf("%w: el usuario %d no es vendedor de la sede %d",
				domain.ErrInvalidSalesperson, requested.SalespersonID, a.LocationID)
		}
		return Owner{LocationID: a.LocationID, SalespersonID: salesperson.ID}, nil
	case entity.RoleSalesperson:
		return Owner{LocationID: a.LocationID, SalespersonID: a.UserID}, nil
	}
	return Owner{}, unknownRole(a)
}

// AuthorizeCustomerWrite se aplica antes de cualquier modificación de un cliente existente.
func AuthorizeCustomerWrite(a Actor, c *entity.Customer) error {
	switch a.Role {
	case entity.RoleSuperAdmin:
		return nil
	case entity.RoleLocationManager:
		if c.LocationID != a.LocationID {
			return forbidden("el cliente pertenece a otra sede")
		}
		return nil
	case entity.RoleSalesperson:
		if c.SalespersonID != a.UserID {
			return forbidden("sólo puede modificar sus propios clientes")
		}
		return nil
	}
	return unknownRole(a)
}

// AuthorizeCustomerReassign valida el cambio de vendedor de un cliente.
// Un vendedor no puede ceder clientes; el gerente sólo reasigna dentro de su sede.
func AuthorizeCustomerReassign(a Actor, c *entity.Customer, newSalesperson *entity.User) error {
	if err := AuthorizeCustomerWrite(a, c); err != nil {
		return err
	}
	switch a.Role {
	case entity.RoleSalesperson:
		return forbidden("un vendedor no puede reasignar clientes")
	case entity.RoleLocationManager:
		if !newSalesperson.IsSalesperson() || !newSalesperson.InLocation(a.LocationID) {
			return fmt.Errorf("%w: el nuevo vendedor no pertenece a la sede %d", domain.ErrInvalidSalesperson, a.LocationID)
		}
	case entity.RoleSuperAdmin:
		if !newSalesperson.IsSalesperson() {
			return fmt.Errorf("%w: el usuario no es vendedor", domain.ErrInvalidSalesperson)
		}
	}
	return nil
}

package dto

import (
	"strings"
	"time"
)

// CreateCustomerRequest alta de cliente. LocationID y SalespersonID pueden ser
// ignorados según el rol del actor.
type CreateCustomerRequest struct {
	Name          string    `json:"name" validate:"required,min=1,max=200"`
	Email         string    `json:"email" validate:"required,email"`
	Phone         string    `json:"phone" validate:"required,min=5,max=30"`
	LocationID    int64     `json:"location_id" validate:"min=0"`
	SalespersonID int64     `json:"salesperson_id" validate:"min=0"`
	VisitDate     time.Time `json:"visit_date" validate:"required"`
	Status        string    `json:"status" validate:"omitempty,oneof=pending ongoing completed cancelled"`
	Notes         string    `json:"notes" validate:"max=2000"`
}

// Normalize recorta los campos de texto y normaliza el email.
func (r *CreateCustomerRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

// UpdateCustomerRequest parche parcial de un cliente.
type UpdateCustomerRequest struct {
	Name          *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Email         *string    `json:"email" validate:"omitempty,email"`
	Phone         *string    `json:"phone" validate:"omitempty,min=5,max=30"`
	SalespersonID *int64     `json:"salesperson_id" validate:"omitempty,gt=0"`
	VisitDate     *time.Time `json:"visit_date"`
	Status        *string    `json:"status" validate:"omitempty,oneof=pending ongoing completed cancelled"`
	Notes         *string    `json:"notes" validate:"omitempty,max=2000"`
}

// Normalize aplica el mismo recorte que el alta a los campos presentes.
func (r *UpdateCustomerRequest) Normalize() {
	r.Name = trimPtr(r.Name)
	r.Phone = trimPtr(r.Phone)
	if r.Email != nil {
		e := NormalizeEmail(*r.Email)
		r.Email = &e
	}
}

// UpdateVisitDateRequest cambio de fecha de visita.
type UpdateVisitDateRequest struct {
	VisitDate time.Time `json:"visit_date" validate:"required"`
}

// ReassignCustomerRequest cambio de vendedor.
type ReassignCustomerRequest struct {
	SalespersonID int64 `json:"salesperson_id" validate:"required,gt=0"`
}

// UpdateCustomerStatusRequest cambio de estado.
type UpdateCustomerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending ongoing completed cancelled"`
}

// CustomerFilter filtros de GET /api/customers.
type CustomerFilter struct {
	Search        string
	Name          string
	Status        string `validate:"omitempty,oneof=pending ongoing completed cancelled"`
	LocationID    *int64
	SalespersonID *int64
	VisitDateFrom *time.Time
	VisitDateTo   *time.Time
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	SortBy        string `validate:"omitempty,oneof=name email visit_date status created_at updated_at"`
	SortOrder     string `validate:"omitempty,oneof=asc desc ASC DESC"`
	PageRequest
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	LocationID    int64     `json:"location_id"`
	SalespersonID int64     `json:"salesperson_id"`
	VisitDate     time.Time `json:"visit_date"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CustomerListResponse página de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

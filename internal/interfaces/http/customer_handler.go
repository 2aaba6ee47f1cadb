package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salestrack-api/internal/application/customers"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
)

// CustomerHandler maneja las peticiones HTTP de clientes.
type CustomerHandler struct {
	uc *customers.UseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *customers.UseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateCustomerRequest  true  "datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateCustomer(c.UserContext(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar clientes visibles para el actor
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        search           query  string  false  "nombre, email o teléfono"
// @Param        status           query  string  false  "pending|ongoing|completed|cancelled"
// @Param        location_id      query  int     false  "sede"
// @Param        salesperson_id   query  int     false  "vendedor"
// @Param        visit_date_from  query  string  false  "YYYY-MM-DD"
// @Param        visit_date_to    query  string  false  "YYYY-MM-DD"
// @Param        sort_by          query  string  false  "name|email|visit_date|status|created_at|updated_at"
// @Param        sort_order       query  string  false  "asc|desc"
// @Param        limit            query  int     false  "tamaño de página"
// @Param        offset           query  int     false  "desplazamiento"
// @Success      200  {object}  dto.CustomerListResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := customerFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetCustomers(c.UserContext(), actor, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Count GET /api/customers/count (mismos filtros que List)
func (h *CustomerHandler) Count(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := customerFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.uc.GetCustomersCount(c.UserContext(), actor, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}

// Report godoc
// @Summary      Reporte PDF de clientes
// @Tags         customers
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /api/customers/report [get]
func (h *CustomerHandler) Report(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := customerFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.uc.CustomerReport(c.UserContext(), actor, f)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="clientes.pdf"`)
	return c.Send(pdf)
}

// GetByID GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetCustomer(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente (parcial)
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                        true  "id del cliente"
// @Param        body  body  dto.UpdateCustomerRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [patch]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateCustomer(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateVisitDate PATCH /api/customers/:id/visit-date
func (h *CustomerHandler) UpdateVisitDate(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateVisitDateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateVisitDate(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus PATCH /api/customers/:id/status
func (h *CustomerHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateCustomerStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateCustomerStatus(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reassign PATCH /api/customers/:id/reassign
func (h *CustomerHandler) Reassign(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ReassignCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ReassignCustomer(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Logs GET /api/customers/:id/logs
func (h *CustomerHandler) Logs(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetCustomerLogs(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func customerFilter(c *fiber.Ctx) (dto.CustomerFilter, error) {
	f := dto.CustomerFilter{
		Search:    c.Query("search"),
		Name:      c.Query("name"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	var err error
	if f.LocationID, err = queryInt64(c, "location_id"); err != nil {
		return f, err
	}
	if f.SalespersonID, err = queryInt64(c, "salesperson_id"); err != nil {
		return f, err
	}
	if f.VisitDateFrom, err = queryTime(c, "visit_date_from"); err != nil {
		return f, err
	}
	if f.VisitDateTo, err = queryUntil(c, "visit_date_to"); err != nil {
		return f, err
	}
	if f.CreatedFrom, err = queryTime(c, "created_at_from"); err != nil {
		return f, err
	}
	if f.CreatedTo, err = queryUntil(c, "created_at_to"); err != nil {
		return f, err
	}
	f.PageRequest, err = queryPage(c)
	return f, err
}

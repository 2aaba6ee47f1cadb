package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salestrack-api/internal/application/assignments"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
)

// AssignmentHandler expone las asignaciones vendedor ↔ sede.
type AssignmentHandler struct {
	uc *assignments.UseCase
}

// NewAssignmentHandler construye el handler.
func NewAssignmentHandler(uc *assignments.UseCase) *AssignmentHandler {
	return &AssignmentHandler{uc: uc}
}

// Create godoc
// @Summary      Asignar vendedor a sede
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateAssignmentRequest  true  "user_id, location_id"
// @Success      201   {object}  dto.AssignmentResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/assignments [post]
func (h *AssignmentHandler) Create(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateAssignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateAssignment(c.UserContext(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial de asignaciones (todas, más recientes primero)
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Param        location_id  query  int  false  "sede"
// @Param        user_id      query  int  false  "vendedor"
// @Success      200  {array}  dto.AssignmentResponse
// @Router       /api/assignments/history [get]
func (h *AssignmentHandler) History(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return writeError(c, err)
	}
	locationID, err := queryInt64(c, "location_id")
	if err != nil {
		return writeError(c, err)
	}
	userID, err := queryInt64(c, "user_id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetAssignmentHistory(c.UserContext(), actor, locationID, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/assignments/:id
func (h *AssignmentHandler) GetByID(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetAssignment(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus PATCH /api/assignments/:id/status
func (h *AssignmentHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateAssignmentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateAssignmentStatus(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Transferir el puesto a otro vendedor (conserva el código)
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                            true  "id de la asignación activa"
// @Param        body  body  dto.TransferAssignmentRequest  true  "new_salesperson_id"
// @Success      201   {object}  dto.AssignmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assignments/{id}/transfer [post]
func (h *AssignmentHandler) Transfer(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.TransferAssignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.TransferAssignment(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete DELETE /api/assignments/:id
func (h *AssignmentHandler) Delete(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteAssignment(c.UserContext(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Logs GET /api/assignments/:id/logs
func (h *AssignmentHandler) Logs(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetAssignmentLogs(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LocationSalespeople GET /api/locations/:id/salespeople
func (h *AssignmentHandler) LocationSalespeople(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetLocationSalespeople(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SalespersonLocations GET /api/users/:id/locations
func (h *AssignmentHandler) SalespersonLocations(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetSalespersonLocations(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

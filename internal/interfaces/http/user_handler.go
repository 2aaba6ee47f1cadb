package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/application/usecase"
)

// UserHandler gestión de usuarios y su historial.
type UserHandler struct {
	uc   *usecase.UserUseCase
	logs *activity.Service
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase, logs *activity.Service) *UserHandler {
	return &UserHandler{uc: uc, logs: logs}
}

// Create godoc
// @Summary      Crear usuario (super-admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateUserRequest  true  "datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateUser(c.UserContext(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Usuarios por sede y rol
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        location_id  query  int     false  "sede"
// @Param        role         query  string  false  "super-admin|location-manager|salesperson"
// @Param        name         query  string  false  "subcadena del nombre"
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return writeError(c, err)
	}
	f := dto.UserFilter{Role: c.Query("role"), Name: c.Query("name")}
	if f.LocationID, err = queryInt64(c, "location_id"); err != nil {
		return writeError(c, err)
	}
	if f.PageRequest, err = queryPage(c); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetUsersByLocationAndRole(c.UserContext(), actor, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/users/:id
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetUser(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update PATCH /api/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateUser(c.UserContext(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteUser(c.UserContext(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteMany godoc
// @Summary      Borrado masivo de usuarios (super-admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.DeleteUsersRequest  true  "ids"
// @Success      200   {object}  dto.DeleteUsersResponse
// @Router       /api/users [delete]
func (h *UserHandler) DeleteMany(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.DeleteUsersRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.DeleteUsers(c.UserContext(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña (propia o super-admin)
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int                        true  "id del usuario"
// @Param        body  body  dto.ChangePasswordRequest  true  "old_password, new_password"
// @Success      204
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.ChangePassword(c.UserContext(), actor, id, in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Logs GET /api/users/:id/logs
func (h *UserHandler) Logs(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := queryPage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.logs.GetUserLogs(c.UserContext(), actor, id, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	"github.com/jhoicas/salestrack-api/internal/application/dto"
)

// ActivityLogHandler consulta la auditoría según el alcance del actor.
type ActivityLogHandler struct {
	svc *activity.Service
}

// NewActivityLogHandler construye el handler.
func NewActivityLogHandler(svc *activity.Service) *ActivityLogHandler {
	return &ActivityLogHandler{svc: svc}
}

// List godoc
// @Summary      Auditoría visible para el actor
// @Tags         activity-logs
// @Produce      json
// @Security     BearerAuth
// @Param        user_id     query  int     false  "usuario que generó la entrada"
// @Param        log_type    query  string  false  "AUTH|CUSTOMER|ASSIGNMENT|USER_MGMT|LOCATION"
// @Param        activity    query  string  false  "subcadena"
// @Param        start_date  query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        end_date    query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        limit       query  int     false  "tamaño de página"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {array}  dto.ActivityLogResponse
// @Router       /api/activity-logs [get]
func (h *ActivityLogHandler) List(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return writeError(c, err)
	}
	f := dto.ActivityLogFilter{LogType: c.Query("log_type"), Activity: c.Query("activity")}
	if f.UserID, err = queryInt64(c, "user_id"); err != nil {
		return writeError(c, err)
	}
	if f.StartDate, err = queryTime(c, "start_date"); err != nil {
		return writeError(c, err)
	}
	if f.EndDate, err = queryUntil(c, "end_date"); err != nil {
		return writeError(c, err)
	}
	if f.PageRequest, err = queryPage(c); err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.GetActivityLogs(c.UserContext(), actor, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/activity-logs/:id
func (h *ActivityLogHandler) GetByID(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.GetByID(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
)

// paramID lee un parámetro de ruta entero positivo.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: '%s' debe ser un id numérico", domain.ErrInvalidInput, name)
	}
	return id, nil
}

// queryInt64 devuelve nil cuando el parámetro no viene.
func queryInt64(c *fiber.Ctx, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("%w: '%s' debe ser un id numérico", domain.ErrInvalidInput, name)
	}
	return &v, nil
}

// queryTime acepta RFC3339 o fecha YYYY-MM-DD (UTC, inicio del día).
func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	t, _, err := parseQueryTime(c, name)
	return t, err
}

// queryUntil lee un límite superior inclusivo. Una fecha sin hora cubre el día
// completo: se lleva al último microsegundo, la precisión de timestamptz.
func queryUntil(c *fiber.Ctx, name string) (*time.Time, error) {
	t, dateOnly, err := parseQueryTime(c, name)
	if err != nil || t == nil || !dateOnly {
		return t, err
	}
	end := t.AddDate(0, 0, 1).Add(-time.Microsecond)
	return &end, nil
}

func parseQueryTime(c *fiber.Ctx, name string) (*time.Time, bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, false, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, false, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, true, nil
	}
	return nil, false, fmt.Errorf("%w: '%s' debe ser una fecha (YYYY-MM-DD o RFC3339)", domain.ErrInvalidInput, name)
}

// queryPage lee limit/offset; los valores negativos los rechaza el validador del caso de uso.
func queryPage(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	var err error
	if raw := c.Query("limit"); raw != "" {
		if p.Limit, err = strconv.Atoi(raw); err != nil {
			return p, fmt.Errorf("%w: 'limit' debe ser numérico", domain.ErrInvalidInput)
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if p.Offset, err = strconv.Atoi(raw); err != nil {
			return p, fmt.Errorf("%w: 'offset' debe ser numérico", domain.ErrInvalidInput)
		}
	}
	return p, nil
}

// actorAndID combina el actor autenticado con el :id de la ruta.
func actorAndID(c *fiber.Ctx) (policy.Actor, int64, error) {
	actor, err := mustActor(c)
	if err != nil {
		return actor, 0, err
	}
	id, err := paramID(c, "id")
	return actor, id, err
}

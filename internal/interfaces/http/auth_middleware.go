package http

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salestrack-api/internal/application/dto"
	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
	"github.com/jhoicas/salestrack-api/pkg/jwt"
)

// LocalActor clave de c.Locals con el policy.Actor autenticado.
const LocalActor = "actor"

// AuthMiddleware valida el Bearer Token JWT y deja el policy.Actor en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthenticated(c, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthenticated(c, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthenticated(c, "token vacío")
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthenticated(c, "token inválido o expirado")
		}
		actor, err := actorFromIdentity(id)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// actorFromIdentity exige que role y role_id coincidan con el catálogo de roles.
func actorFromIdentity(id jwt.Identity) (policy.Actor, error) {
	role, err := entity.RoleFromID(id.RoleID)
	if err != nil || string(role) != id.Role {
		return policy.Actor{}, domain.ErrUnauthenticated
	}
	actor := policy.Actor{UserID: id.UserID, Role: role, LocationID: id.LocationID}
	if err := actor.Validate(); err != nil {
		return policy.Actor{}, err
	}
	return actor, nil
}

func unauthenticated(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: msg})
}

// RequireRole restringe la ruta a los roles indicados. Va después de AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := GetActor(c)
		if !ok {
			return unauthenticated(c, "identidad no encontrada en el contexto")
		}
		if !slices.Contains(roles, actor.Role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code: "FORBIDDEN", Message: "el rol " + string(actor.Role) + " no tiene acceso a este recurso",
			})
		}
		return c.Next()
	}
}

// GetActor devuelve el actor autenticado (después del middleware de auth).
func GetActor(c *fiber.Ctx) (policy.Actor, bool) {
	actor, ok := c.Locals(LocalActor).(policy.Actor)
	return actor, ok
}

// mustActor es el atajo de los handlers protegidos.
func mustActor(c *fiber.Ctx) (policy.Actor, error) {
	actor, ok := GetActor(c)
	if !ok {
		return policy.Actor{}, domain.ErrUnauthenticated
	}
	return actor, nil
}

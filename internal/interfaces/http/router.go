package http

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	appanalytics "github.com/jhoicas/salestrack-api/internal/application/analytics"
	"github.com/jhoicas/salestrack-api/internal/application/assignments"
	"github.com/jhoicas/salestrack-api/internal/application/auth"
	"github.com/jhoicas/salestrack-api/internal/application/customers"
	"github.com/jhoicas/salestrack-api/internal/application/usecase"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CustomerUC   *customers.UseCase
	AssignmentUC *assignments.UseCase
	UserUC       *usecase.UserUseCase
	LocationUC   *usecase.LocationUseCase
	Activity     *activity.Service
	DashboardUC  *appanalytics.DashboardUseCase
	JWTSecret    string

	ServiceName string
	// MetricsPath y MetricsHandler se montan sólo si ambos vienen informados.
	MetricsPath    string
	MetricsHandler fiber.Handler
	// SwaggerFile se sirve en /docs cuando el archivo existe.
	SwaggerFile string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.MetricsPath != "" && deps.MetricsHandler != nil {
		app.Get(deps.MetricsPath, deps.MetricsHandler)
	}
	if deps.SwaggerFile != "" {
		if _, err := os.Stat(deps.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: deps.SwaggerFile,
				Path:     "docs",
				Title:    "SalesTrack API",
			}))
		}
	}

	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleSuperAdmin)
	staff := RequireRole(entity.RoleSuperAdmin, entity.RoleLocationManager)

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	// Customers: las rutas estáticas van antes de /:id
	customerGroup := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customerGroup.Get("/", customerHandler.List)
	customerGroup.Post("/", customerHandler.Create)
	customerGroup.Get("/count", customerHandler.Count)
	customerGroup.Get("/report", customerHandler.Report)
	customerGroup.Get("/:id", customerHandler.GetByID)
	customerGroup.Patch("/:id", customerHandler.Update)
	customerGroup.Patch("/:id/visit-date", customerHandler.UpdateVisitDate)
	customerGroup.Patch("/:id/status", customerHandler.UpdateStatus)
	customerGroup.Patch("/:id/reassign", customerHandler.Reassign)
	customerGroup.Get("/:id/logs", customerHandler.Logs)

	// Assignments: escritura sólo super-admin y gerentes; el alcance fino lo decide la política.
	assignmentGroup := protected.Group("/assignments")
	assignmentHandler := NewAssignmentHandler(deps.AssignmentUC)
	assignmentGroup.Post("/", staff, assignmentHandler.Create)
	assignmentGroup.Get("/history", assignmentHandler.History)
	assignmentGroup.Get("/:id", assignmentHandler.GetByID)
	assignmentGroup.Patch("/:id/status", staff, assignmentHandler.UpdateStatus)
	assignmentGroup.Post("/:id/transfer", staff, assignmentHandler.Transfer)
	assignmentGroup.Delete("/:id", staff, assignmentHandler.Delete)
	assignmentGroup.Get("/:id/logs", assignmentHandler.Logs)

	// Users
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC, deps.Activity)
	users.Get("/", userHandler.List)
	users.Post("/", adminOnly, userHandler.Create)
	users.Delete("/", adminOnly, userHandler.DeleteMany)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", adminOnly, userHandler.Delete)
	users.Put("/:id/password", userHandler.ChangePassword)
	users.Get("/:id/logs", userHandler.Logs)
	users.Get("/:id/locations", assignmentHandler.SalespersonLocations)

	// Locations
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Post("/", adminOnly, locationHandler.Create)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Patch("/:id", adminOnly, locationHandler.Rename)
	locations.Delete("/:id", adminOnly, locationHandler.Delete)
	locations.Get("/:id/salespeople", assignmentHandler.LocationSalespeople)

	// Activity logs (sólo lectura)
	logs := protected.Group("/activity-logs")
	logHandler := NewActivityLogHandler(deps.Activity)
	logs.Get("/", logHandler.List)
	logs.Get("/:id", logHandler.GetByID)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}

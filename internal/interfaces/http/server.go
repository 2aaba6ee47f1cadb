package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/salestrack-api/pkg/logger"
)

// AppConfig parámetros del servidor Fiber.
type AppConfig struct {
	Name         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  string
}

// NewApp crea la app con el manejador de errores JSON y la cadena de middlewares
// comunes: recover, request id, los middlewares extra (métricas) y el log de peticiones.
func NewApp(cfg AppConfig, log *logger.Logger, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestID())
	if cfg.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + HeaderRequestID,
			ExposeHeaders: HeaderRequestID,
		}))
	}
	for _, h := range extra {
		app.Use(h)
	}
	app.Use(RequestLogger(log))
	return app
}

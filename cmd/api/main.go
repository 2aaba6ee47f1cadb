package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salestrack-api/internal/application/activity"
	appanalytics "github.com/jhoicas/salestrack-api/internal/application/analytics"
	"github.com/jhoicas/salestrack-api/internal/application/assignments"
	"github.com/jhoicas/salestrack-api/internal/application/auth"
	"github.com/jhoicas/salestrack-api/internal/application/customers"
	"github.com/jhoicas/salestrack-api/internal/application/usecase"
	"github.com/jhoicas/salestrack-api/internal/infrastructure/events"
	"github.com/jhoicas/salestrack-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/salestrack-api/internal/infrastructure/pdf"
	"github.com/jhoicas/salestrack-api/internal/infrastructure/postgres"
	"github.com/jhoicas/salestrack-api/internal/infrastructure/security"
	httpRouter "github.com/jhoicas/salestrack-api/internal/interfaces/http"
	"github.com/jhoicas/salestrack-api/pkg/config"
	"github.com/jhoicas/salestrack-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Auditoría: la base de datos es la fuente de verdad; Kafka y métricas
	// reciben las entradas después del commit.
	publishers := events.Multi{metrics.AuditCounter{}}
	var kafkaPub *events.KafkaPublisher
	if cfg.Kafka.Enabled() {
		kafkaPub = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		publishers = append(publishers, kafkaPub)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicación de auditoría en Kafka habilitada")
	}
	audit := activity.NewService(repos, publishers, log.Named("activity"))

	hasher := security.BcryptHasher{}
	tokens := security.NewJWTIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	authUC := auth.NewAuthUseCase(repos.Users, hasher, tokens, audit)
	customerUC := customers.NewUseCase(repos, txRunner, audit, infrapdf.NewMarotoReportGenerator())
	assignmentUC := assignments.NewUseCase(repos, txRunner, audit)
	userUC := usecase.NewUserUseCase(repos, txRunner, audit, hasher)
	locationUC := usecase.NewLocationUseCase(repos, txRunner, audit)
	dashboardUC := appanalytics.NewDashboardUseCase(postgres.NewDashboardRepository(pool))

	var extra []fiber.Handler
	deps := httpRouter.RouterDeps{
		AuthUC:       authUC,
		CustomerUC:   customerUC,
		AssignmentUC: assignmentUC,
		UserUC:       userUC,
		LocationUC:   locationUC,
		Activity:     audit,
		DashboardUC:  dashboardUC,
		JWTSecret:    cfg.JWT.Secret,
		ServiceName:  cfg.App.Name,
		SwaggerFile:  cfg.Docs.SwaggerFile,
	}
	if cfg.Metrics.Enabled {
		extra = append(extra, metrics.Middleware())
		deps.MetricsPath = cfg.Metrics.Path
		deps.MetricsHandler = metrics.Handler()
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:         cfg.App.Name,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
		CORSOrigins:  cfg.HTTP.CORSOrigins,
	}, log, extra...)
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			log.Error().Err(err).Msg("cierre del writer de Kafka")
		}
	}

	log.Info().Msg("aplicación detenida")
}

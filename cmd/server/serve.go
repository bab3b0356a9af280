package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/audit"
	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/cache"
	"github.com/arahman1700/nit-logistics-portal/internal/config"
	"github.com/arahman1700/nit-logistics-portal/internal/dashboard"
	"github.com/arahman1700/nit-logistics-portal/internal/database"
	"github.com/arahman1700/nit-logistics-portal/internal/documents"
	"github.com/arahman1700/nit-logistics-portal/internal/inventory"
	"github.com/arahman1700/nit-logistics-portal/internal/masterdata"
	"github.com/arahman1700/nit-logistics-portal/internal/metrics"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/navigation"
	"github.com/arahman1700/nit-logistics-portal/internal/notify"
	"github.com/arahman1700/nit-logistics-portal/internal/numbering"
	"github.com/arahman1700/nit-logistics-portal/internal/repository/gormstore"
	"github.com/arahman1700/nit-logistics-portal/internal/resources"
)

const natsSubjectPrefix = "portal.notifications"

func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := config.NewLogger(cfg.LogLevel)
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}
	return cfg, log, nil
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if err := database.Init(cfg, log); err != nil {
		return err
	}
	db := database.DB
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	sinks := []notify.Sink{notify.NewStoreSink(db)}
	if cfg.NATSURL != "" {
		nc, err := notify.ConnectNATS(cfg.NATSURL)
		if err != nil {
			config.LogError(log, "main", "serve", "connect nats", cfg.NATSURL, err)
		} else {
			defer nc.Drain()
			sinks = append(sinks, notify.NewNATSSink(nc, natsSubjectPrefix))
		}
	}

	c, err := cache.Connect(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		config.LogError(log, "main", "serve", "connect redis", cfg.RedisAddress, err)
		c = nil
	}
	defer c.Close()

	numbers := numbering.NewGenerator(
		numbering.WithMaxAttempts(cfg.NumberingMaxAttempts),
		numbering.OnCollision(func(p numbering.Prefix) {
			metrics.NumberCollisions.WithLabelValues(string(p)).Inc()
		}),
	)
	store := gormstore.New(db)
	svc := documents.NewService(store, numbers, notify.NewDispatcher(log, sinks...), log)

	app := newApp(cfg, log, db, store, svc, c)

	errc := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.HTTPPort).Info("listening")
		errc <- app.Listen(":" + cfg.HTTPPort)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func newApp(cfg *config.Config, log logrus.FieldLogger, db *gorm.DB, store *gormstore.Store, svc *documents.Service, c *cache.Cache) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler,
		BodyLimit:    16 * 1024 * 1024,
	})

	origins := strings.Split(cfg.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(logger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api", auth.JWTMiddleware(cfg.JWTSecret))
	api.Get("/auth/me", auth.MeHandler())
	api.Get("/activity", audit.ListActivityHandler(store))

	adminOnly := auth.RequireRole(models.RoleAdmin)
	stockKeepers := auth.RequireRole(models.RoleAdmin, models.RoleWarehouse)

	navigation.RegisterRoutes(api)
	documents.RegisterRoutes(api, svc)
	notify.RegisterRoutes(api, db)
	masterdata.RegisterRoutes(api, db, adminOnly)
	inventory.RegisterRoutes(api, db, stockKeepers)
	resources.RegisterRoutes(api, db, resources.Default(), adminOnly)
	dashboard.RegisterRoutes(api, db, dashboard.StatsHandler(dashboard.LoadStats(db), c, cfg.CacheTTL, log))

	return app
}

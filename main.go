package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"billing-backend/config"
	"billing-backend/controllers"
	"billing-backend/database"
	"billing-backend/invoicing"
	"billing-backend/metrics"
	"billing-backend/middlewares"
	"billing-backend/routes"
	"billing-backend/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	// ---- Database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("could not connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("could not migrate database")
	}
	store := database.NewStore(db)

	// ---- Invoicing
	numbering := metrics.New()
	numbering.Registerer().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sequencer := invoicing.NewSequencer(store, log)
	creator := invoicing.NewCreator(store, log,
		invoicing.WithRecorder(numbering),
		invoicing.WithCommitCheck(cfg.CounterCommitRetries, cfg.CounterCommitBackoff),
	)

	files, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		log.WithError(err).Fatal("could not prepare upload directory")
	}
	auth := middlewares.NewAuth(cfg.JWTSecret, cfg.TokenTTL)

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler(log),
		BodyLimit:    cfg.BodyLimitBytes(),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: false, // bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))

	routes.Register(app, routes.Deps{
		Auth:        auth,
		Idempotency: middlewares.Idempotency(db, log),
		Metrics:     numbering.Handler(),
		Users:       &controllers.AuthController{DB: db, Auth: auth, Log: log},
		Counters:    &controllers.CounterController{Sequencer: sequencer},
		Documents: &controllers.DocumentController{
			Creator:   creator,
			Documents: store.Documents(),
			Files:     files,
			Log:       log,
		},
		Customers: &controllers.CustomerController{DB: db},
		Suppliers: &controllers.SupplierController{DB: db},
		Products:  &controllers.ProductController{DB: db, Files: files, Log: log},
		ImagesDir: files.ImagesDir(),
		PdfsDir:   files.PdfsDir(),
	})

	log.WithField("port", cfg.Port).Info("API server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/wishfund/wishfund-backend/app/controllers"
	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/metrics"
	"github.com/wishfund/wishfund-backend/pkg/middleware"
	"github.com/wishfund/wishfund-backend/pkg/payment"
	"github.com/wishfund/wishfund-backend/pkg/routes"
	"github.com/wishfund/wishfund-backend/pkg/scheduler"
	"github.com/wishfund/wishfund-backend/pkg/storage"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to the database", zap.Error(err))
	}

	if err := setupStorage(ctx, cfg); err != nil {
		logger.Fatal("Failed to set up storage", zap.Error(err))
	}
	payment.Default = payment.NewStripeCheckout(cfg.StripeSecretKey, cfg.StripeCurrency, cfg.ClientURL)
	utils.DefaultMailer = utils.NewSMTPMailer(utils.MailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	sched, err := scheduler.New(cfg.UnderfundedCron, cfg.CronTimezone, &queries.WishlistQueries{DB: db})
	if err != nil {
		logger.Fatal("Failed to create scheduler", zap.Error(err))
	}
	sched.Start()
	controllers.StartPushDispatcher(ctx)

	app := newApp(cfg)

	go func() {
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()
	logger.Info("server started", zap.String("port", cfg.AppPort), zap.String("env", cfg.Env))

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	sched.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := database.CloseDB(); err != nil {
		logger.Error("database close", zap.Error(err))
	}
}

func newApp(cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxUploadBytes) + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Origins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(middleware.RequestLogger())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("wishfund api")
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	if cfg.StorageDriver != "s3" {
		app.Static("/uploads", cfg.UploadDir)
	}

	routes.RegisterUserRoutes(app)
	routes.RegisterWishlistRoutes(app)
	routes.RegisterAdvertisementRoutes(app)
	routes.RegisterTransactionRoutes(app)
	routes.RegisterNotificationRoutes(app)
	routes.RegisterCommunityRoutes(app)

	return app
}

func setupStorage(ctx context.Context, cfg config.Config) error {
	if cfg.StorageDriver == "s3" {
		s3Store, err := storage.NewS3FromConfig(ctx, storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return err
		}
		storage.Default = s3Store
		return nil
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return err
	}
	storage.Default = storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	return nil
}

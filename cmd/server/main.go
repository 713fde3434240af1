package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/http/middleware"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/http/routes"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/payment"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/repositories"
	"github.com/shemul345/Life-O-positive-server/internal/config"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/jwt"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/logger"

	_ "github.com/shemul345/Life-O-positive-server/docs" // Swagger docs
)

// @title Life-O-Positive API
// @version 1.0
// @description Blood donation coordination API: donors, donation requests and funding.

// @contact.name API Support
// @contact.email support@lifeopositive.org

// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New("prod", "info").WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg.AppMode, cfg.LogLevel)

	// Connect to database
	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			log.WithError(err).Warn("Failed to close database")
		}
	}()

	// Auto migrate (creates tables and unique indexes if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("Failed to auto migrate")
	}
	log.Info("Database migration completed")

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := config.NewSeeder(repositories.NewAccountRepository(db), log).Run(seedCtx, cfg); err != nil {
		log.WithError(err).Warn("Failed to seed admin account")
	}
	cancel()

	payments, err := payment.NewStripeProvider(cfg.Stripe.SecretKey)
	if err != nil {
		log.WithError(err).Fatal("Failed to create payment provider")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Life-O-Positive API v1.0",
		ErrorHandler: middleware.ErrorHandler(log),
		UnescapePath: true,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, log)

	// Setup routes
	if err := routes.Setup(app, routes.Dependencies{
		DB:       db,
		Config:   cfg,
		Verifier: jwt.NewVerifier(cfg.JWT.Secret),
		Payments: payments,
		Log:      log,
	}); err != nil {
		log.WithError(err).Fatal("Failed to set up routes")
	}

	// Graceful shutdown
	go gracefulShutdown(app, log)

	// Start server
	log.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"mode":        cfg.AppMode,
		"transitions": cfg.Donation.Transitions,
	}).Info("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, log logrus.FieldLogger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("Error during shutdown")
	}
	log.Info("Server stopped gracefully")
}

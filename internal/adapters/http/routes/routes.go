package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/http/handlers"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/http/middleware"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/repositories"
	"github.com/shemul345/Life-O-positive-server/internal/config"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
	"github.com/shemul345/Life-O-positive-server/internal/core/services"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/metrics"
)

// Dependencies are the collaborators the routes are built from
type Dependencies struct {
	DB       *gorm.DB
	Config   *config.Config
	Verifier services.TokenVerifier
	Payments services.PaymentProvider
	Log      logrus.FieldLogger
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Dependencies) error {
	cfg := deps.Config

	policy, err := domain.NewTransitionPolicy(cfg.Donation.Transitions)
	if err != nil {
		return err
	}

	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(deps.DB)
	requestRepo := repositories.NewDonationRequestRepository(deps.DB)
	fundingRepo := repositories.NewFundingRepository(deps.DB)

	// Initialize services
	accessService := services.NewAccessService(accountRepo, deps.Log)
	accountService := services.NewAccountService(accountRepo, deps.Log)
	requestService := services.NewDonationRequestService(requestRepo, accountRepo, policy, deps.Log)
	fundingService := services.NewFundingService(fundingRepo, deps.Payments, services.FundingConfig{
		Currency:  cfg.Funding.Currency,
		ClientURL: cfg.Funding.ClientURL,
	}, deps.Log)
	statsService := services.NewStatsService(accountRepo, requestRepo, fundingRepo, deps.Log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.DB, cfg.AppMode)
	userHandler := handlers.NewUserHandler(accountService)
	requestHandler := handlers.NewDonationRequestHandler(requestService)
	fundingHandler := handlers.NewFundingHandler(fundingService)
	statsHandler := handlers.NewStatsHandler(statsService)

	auth := middleware.AuthMiddleware(deps.Verifier)
	adminOnly := middleware.AdminOnly(accessService)
	staffOnly := middleware.StaffOnly(accessService)
	activeOnly := middleware.ActiveOnly(accessService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", middleware.NoCacheHeaders(), healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Accounts
	app.Post("/users", middleware.WriteRateLimiter(), userHandler.Register)
	app.Get("/users/:email/role", userHandler.GetRole)
	app.Get("/users", auth, adminOnly, userHandler.ListUsers)
	app.Patch("/users/role/:id", auth, adminOnly, userHandler.SetRole)
	app.Patch("/users/status/:id", auth, adminOnly, userHandler.SetStatus)
	app.Delete("/users/:id", auth, adminOnly, userHandler.DeleteUser)
	app.Get("/donors-search", userHandler.SearchDonors)

	// Profile (owner only)
	profileOwner := middleware.OwnerOnly(accessService, middleware.OwnerFromParam("email"))
	app.Get("/profile/:email", auth, profileOwner, userHandler.GetProfile)
	app.Patch("/profile/:email", auth, profileOwner, userHandler.UpdateProfile)

	// Donation requests
	app.Post("/donation-requests", auth, activeOnly, requestHandler.Create)
	app.Get("/donation-requests", auth, middleware.OwnerOnly(accessService, middleware.OwnerFromQuery("email")), requestHandler.ListMine)
	app.Get("/donation-requests/:id", requestHandler.Get)
	app.Get("/all-blood-donation-requests", auth, staffOnly, requestHandler.ListAll)
	app.Get("/pending-requests", middleware.PublicCache(30*time.Second), requestHandler.ListPending)
	app.Patch("/donation-requests/accept/:id", auth, activeOnly, requestHandler.Accept)
	app.Patch("/donation-requests/status/:id", auth, activeOnly, requestHandler.UpdateStatus)
	app.Delete("/donation-requests/:id", auth, activeOnly, requestHandler.Delete)

	// Dashboard
	app.Get("/admin-stats", auth, adminOnly, statsHandler.AdminStats)

	// Funding
	app.Post("/create-funding-checkout", middleware.WriteRateLimiter(), fundingHandler.CreateCheckout)
	app.Patch("/funding-success", middleware.NoCacheHeaders(), fundingHandler.Confirm)
	app.Get("/all-fundings", fundingHandler.List)

	return nil
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"

	"openshelf/internal/adapters/http/handlers"
	"openshelf/internal/adapters/http/middleware"
	"openshelf/internal/adapters/persistence/repositories"
	"openshelf/internal/config"
	"openshelf/internal/core/services"
)

// Setup configures all routes for the application and returns the cron
// service so main can manage its lifecycle
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	genreRepo := repositories.NewGenreRepository(db)
	loanRepo := repositories.NewLoanRepository(db)

	// Initialize services
	emailService := services.NewEmailService(cfg.SMTP)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	googleService := services.NewGoogleService(userRepo, cfg.OAuth)
	userService := services.NewUserService(userRepo)
	bookService := services.NewBookService(bookRepo, genreRepo)
	genreService := services.NewGenreService(genreRepo, bookRepo)
	searchService := services.NewSearchService(bookRepo)
	loanService := services.NewLoanService(loanRepo, bookRepo, userRepo, emailService, cfg.Loan.DefaultDays)
	cronService := services.NewCronService(loanRepo, emailService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	googleHandler := handlers.NewGoogleHandler(googleService, authService, authHandler, cfg)
	userHandler := handlers.NewUserHandler(userService)
	bookHandler := handlers.NewBookHandler(bookService)
	genreHandler := handlers.NewGenreHandler(genreService)
	searchHandler := handlers.NewSearchHandler(searchService)
	loanHandler := handlers.NewLoanHandler(loanService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (rate limited)
	auth := apiV1.Group("/auth", middleware.AuthRateLimiter())
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	auth.Get("/google/url", googleHandler.GetLoginURL)
	auth.Get("/google/callback", googleHandler.Callback)

	// Catalog routes: reads are public, writes staff-only
	books := apiV1.Group("/books")
	books.Get("/", bookHandler.List)
	books.Get("/:id", bookHandler.Get)
	books.Post("/", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), bookHandler.Create)
	books.Put("/:id", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), bookHandler.Update)
	books.Delete("/:id", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), bookHandler.Delete)

	genres := apiV1.Group("/genres")
	genres.Get("/", genreHandler.List)
	genres.Get("/:id", genreHandler.Get)
	genres.Post("/", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), genreHandler.Create)
	genres.Put("/:id", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), genreHandler.Update)
	genres.Delete("/:id", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), genreHandler.Delete)

	// Search is public
	apiV1.Get("/search/books", searchHandler.Search)

	// Loan routes: everything requires a signed-in caller; the service
	// layer scopes visibility and gates check-in on capabilities
	loans := apiV1.Group("/loans", middleware.AuthMiddleware(cfg))
	loans.Get("/", loanHandler.List)
	loans.Post("/check-out", loanHandler.CheckOut)
	loans.Post("/:id/check-in", middleware.StaffOnly(), loanHandler.CheckIn)

	// User administration
	users := apiV1.Group("/users", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	users.Get("/", userHandler.List)
	users.Get("/roles", userHandler.ListRoles)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id/roles", userHandler.UpdateRoles)
	users.Put("/:id/active", userHandler.SetActive)

	return cronService
}

package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"openshelf/internal/config"
	"openshelf/internal/pkg/response"
)

// Request budgets per client IP
const (
	generalRateLimit = 100 // per minute, whole API
	authRateLimit    = 5   // per minute, credential endpoints
)

// Setup configures all middlewares for the application
func Setup(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(securityHeaders())
	app.Use(rateLimit(generalRateLimit, "", "Too many requests"))
	app.Use(requestLogger(cfg))
	app.Use(corsPolicy(cfg))
}

// securityHeaders applies the helmet header set
func securityHeaders() fiber.Handler {
	return helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		PermissionPolicy:          "geolocation=(), microphone=(), camera=()",
	})
}

// rateLimit limits to max requests per minute per client IP. keySuffix
// separates this limiter's buckets from others sharing the same IP key.
func rateLimit(max int, keySuffix, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + keySuffix
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// requestLogger logs one line per request; prod adds timestamps and errors
func requestLogger(cfg *config.Config) fiber.Handler {
	if cfg.IsDev() {
		return logger.New(logger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		})
	}
	return logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
	})
}

// corsPolicy allows any origin in dev; prod restricts to the configured
// origin list and enables credentialed requests for session cookies
func corsPolicy(cfg *config.Config) fiber.Handler {
	if cfg.IsDev() {
		return cors.New(cors.Config{
			AllowOrigins:     "*",
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
			AllowCredentials: false, // cannot be true with AllowOrigins "*"
		})
	}
	return cors.New(cors.Config{
		AllowOrigins:     cfg.GetAllowedOrigins(),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	})
}

// AuthRateLimiter creates a stricter rate limiter for auth endpoints
func AuthRateLimiter() fiber.Handler {
	return rateLimit(authRateLimit, "-auth", "Too many attempts, please wait a minute")
}

// CustomErrorHandler handles errors that escape the handlers
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return response.Error(c, code, message)
}

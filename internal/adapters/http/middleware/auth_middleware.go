package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"openshelf/internal/config"
	"openshelf/internal/core/domain"
	"openshelf/internal/pkg/jwt"
	"openshelf/internal/pkg/response"
)

// callerKey is the fiber locals key holding the resolved domain.Caller
const callerKey = "caller"

// CallerFromCtx returns the caller resolved by the auth middleware,
// domain.Anonymous when the request carried no valid token
func CallerFromCtx(c *fiber.Ctx) domain.Caller {
	if caller, ok := c.Locals(callerKey).(domain.Caller); ok {
		return caller
	}
	return domain.Anonymous
}

// extractToken reads the access token from the cookie or the
// Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// resolveCaller builds the caller from validated claims. Capabilities are
// resolved here, once per request; everything downstream receives them
// explicitly instead of re-reading roles.
func resolveCaller(claims *jwt.Claims) domain.Caller {
	roles := make([]domain.Role, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		roles = append(roles, domain.Role(r))
	}
	return domain.Caller{
		UserID:       claims.UserID,
		Username:     claims.Username,
		Capabilities: domain.ResolveCapabilities(roles),
	}
}

// AuthMiddleware requires a valid access token
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(callerKey, resolveCaller(claims))
		return c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is present but
// never rejects the request. Public reads use this so anonymous and
// signed-in requests share one handler.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if accessToken := extractToken(c); accessToken != "" {
			if claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret); err == nil {
				c.Locals(callerKey, resolveCaller(claims))
			}
		}
		return c.Next()
	}
}

// StaffOnly allows only callers with the catalog-management capability
// (Admin or Librarian). Must run after AuthMiddleware.
func StaffOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := CallerFromCtx(c)
		if !caller.IsAuthenticated() {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !caller.IsStaff() {
			return response.Forbidden(c, "Staff access required")
		}
		return c.Next()
	}
}

// AdminOnly allows only callers with the administer capability
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := CallerFromCtx(c)
		if !caller.IsAuthenticated() {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !caller.Capabilities.CanAdminister {
			return response.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}

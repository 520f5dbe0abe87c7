package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"openshelf/internal/config"
	"openshelf/internal/core/domain"
	"openshelf/internal/core/services"
	"openshelf/internal/pkg/response"
)

// GoogleHandler handles Google sign-in endpoints
type GoogleHandler struct {
	googleService *services.GoogleService
	authService   *services.AuthService
	authHandler   *AuthHandler
	cfg           *config.Config
}

// NewGoogleHandler creates a new Google handler
func NewGoogleHandler(
	googleService *services.GoogleService,
	authService *services.AuthService,
	authHandler *AuthHandler,
	cfg *config.Config,
) *GoogleHandler {
	return &GoogleHandler{
		googleService: googleService,
		authService:   authService,
		authHandler:   authHandler,
		cfg:           cfg,
	}
}

// generateRandomState generates a CSRF state token
func generateRandomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GetLoginURL returns the Google sign-in URL
// @Summary Get Google sign-in URL
// @Description Get the URL to redirect the user to for Google sign-in
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /auth/google/url [get]
func (h *GoogleHandler) GetLoginURL(c *fiber.Ctx) error {
	if !h.googleService.IsConfigured() {
		return response.ServiceUnavailable(c, "Google sign-in is not configured")
	}

	state, err := generateRandomState()
	if err != nil {
		return response.InternalServerError(c, "Failed to generate state")
	}

	// State cookie guards the callback against CSRF
	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    state,
		MaxAge:   300,
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: "Lax",
	})

	return response.Success(c, "Google sign-in URL", fiber.Map{
		"url": h.googleService.GetLoginURL(state),
	})
}

// Callback handles the Google redirect
// @Summary Google sign-in callback
// @Description Complete Google sign-in: verify state, exchange the code, provision the account on first sign-in
// @Tags Auth
// @Produce json
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State for CSRF protection"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /auth/google/callback [get]
func (h *GoogleHandler) Callback(c *fiber.Ctx) error {
	if errParam := c.Query("error"); errParam != "" {
		return response.BadRequest(c, "Google sign-in was denied")
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return response.BadRequest(c, "Missing code or state")
	}

	storedState := c.Cookies("oauth_state")
	if storedState == "" || storedState != state {
		return response.BadRequest(c, "Invalid state")
	}
	c.ClearCookie("oauth_state")

	user, err := h.googleService.Authenticate(c.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserInactive):
			return response.Forbidden(c, "User account is inactive")
		case errors.Is(err, domain.ErrDependency):
			log.Printf("❌ Google sign-in failed: %v", err)
			return response.ServiceUnavailable(c, "Google sign-in is unavailable")
		default:
			return response.InternalServerError(c, "Failed to sign in with Google")
		}
	}

	result, err := h.authService.IssueTokens(c.Context(), user)
	if err != nil {
		return response.InternalServerError(c, "Failed to issue tokens")
	}

	h.authHandler.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Signed in with Google", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

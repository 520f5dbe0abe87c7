package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"openshelf/internal/config"
	"openshelf/internal/core/domain"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeRefreshTokenRepo) {
	t.Helper()

	users := newFakeUserRepo()
	tokens := newFakeRefreshTokenRepo()
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	return NewAuthService(users, tokens, cfg), users, tokens
}

func TestRegister(t *testing.T) {
	t.Run("new account gets the Member role and a token pair", func(t *testing.T) {
		service, _, tokens := newAuthFixture(t)

		result, err := service.Register(context.Background(), &RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "correct-horse",
		})

		assert.NoError(t, err)
		assert.Equal(t, []string{string(domain.RoleMember)}, result.User.Roles)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Len(t, tokens.tokens, 1)

		claims, err := service.ValidateAccessToken(result.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, []string{string(domain.RoleMember)}, claims.Roles)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		service, users, _ := newAuthFixture(t)
		users.addUser("alice", "alice@example.com", "Member")

		_, err := service.Register(context.Background(), &RegisterInput{
			Username: "alice",
			Email:    "other@example.com",
			Password: "correct-horse",
		})
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("short passwords are rejected", func(t *testing.T) {
		service, _, _ := newAuthFixture(t)

		_, err := service.Register(context.Background(), &RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "short",
		})
		assert.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestLogin(t *testing.T) {
	register := func(t *testing.T, service *AuthService) {
		t.Helper()
		_, err := service.Register(context.Background(), &RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "correct-horse",
		})
		assert.NoError(t, err)
	}

	t.Run("valid credentials issue tokens", func(t *testing.T) {
		service, _, _ := newAuthFixture(t)
		register(t, service)

		result, err := service.Login(context.Background(), &LoginInput{
			Username: "alice",
			Password: "correct-horse",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		service, _, _ := newAuthFixture(t)
		register(t, service)

		_, err := service.Login(context.Background(), &LoginInput{
			Username: "alice",
			Password: "wrong-horse",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("externally provisioned account has no password login", func(t *testing.T) {
		service, users, _ := newAuthFixture(t)
		oauthUser := users.addUser("bob", "bob@example.com", "Member")
		oauthUser.Provider = "google"
		oauthUser.ProviderID = "google-123"

		_, err := service.Login(context.Background(), &LoginInput{
			Username: "bob",
			Password: "",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account cannot log in", func(t *testing.T) {
		service, users, _ := newAuthFixture(t)
		register(t, service)
		alice, _ := users.GetByUsername(context.Background(), "alice")
		alice.IsActive = false

		_, err := service.Login(context.Background(), &LoginInput{
			Username: "alice",
			Password: "correct-horse",
		})
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}

func TestRefreshTokenRotation(t *testing.T) {
	t.Run("refresh issues a new pair and revokes the old token", func(t *testing.T) {
		service, _, _ := newAuthFixture(t)

		registered, err := service.Register(context.Background(), &RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "correct-horse",
		})
		assert.NoError(t, err)

		refreshed, err := service.RefreshToken(context.Background(), registered.RefreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

		// Replaying the rotated-out token must fail
		_, err = service.RefreshToken(context.Background(), registered.RefreshToken)
		assert.ErrorIs(t, err, ErrTokenRevoked)
	})

	t.Run("garbage token is invalid", func(t *testing.T) {
		service, _, _ := newAuthFixture(t)

		_, err := service.RefreshToken(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		service, _, _ := newAuthFixture(t)

		registered, err := service.Register(context.Background(), &RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "correct-horse",
		})
		assert.NoError(t, err)

		assert.NoError(t, service.Logout(context.Background(), registered.RefreshToken))

		_, err = service.RefreshToken(context.Background(), registered.RefreshToken)
		assert.ErrorIs(t, err, ErrTokenRevoked)
	})
}

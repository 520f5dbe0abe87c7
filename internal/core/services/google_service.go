package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/adapters/persistence/repositories"
	"openshelf/internal/config"
	"openshelf/internal/core/domain"
)

const providerGoogle = "google"

// GoogleService handles Google sign-in: the authorization URL, the
// code-for-token exchange, and provisioning a local account for the
// external identity. Provisioned accounts get the Member role and no
// local password.
type GoogleService struct {
	userRepo repositories.UserRepository
	cfg      config.OAuthConfig
	client   *http.Client
}

// GoogleTokenResponse represents the Google token endpoint response
type GoogleTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
	IDToken     string `json:"id_token"`
}

// GoogleProfile represents the Google userinfo response
type GoogleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// NewGoogleService creates a new Google sign-in service
func NewGoogleService(userRepo repositories.UserRepository, cfg config.OAuthConfig) *GoogleService {
	return &GoogleService{
		userRepo: userRepo,
		cfg:      cfg,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// IsConfigured reports whether Google sign-in is available
func (s *GoogleService) IsConfigured() bool {
	return s.cfg.GoogleClientID != "" && s.cfg.GoogleClientSecret != ""
}

// GetLoginURL generates the Google authorization URL
func (s *GoogleService) GetLoginURL(state string) string {
	params := url.Values{}
	params.Add("response_type", "code")
	params.Add("client_id", s.cfg.GoogleClientID)
	params.Add("redirect_uri", s.cfg.GoogleCallbackURL)
	params.Add("state", state)
	params.Add("scope", "openid email profile")

	return fmt.Sprintf("https://accounts.google.com/o/oauth2/v2/auth?%s", params.Encode())
}

// ExchangeToken exchanges an authorization code for an access token
func (s *GoogleService) ExchangeToken(code string) (*GoogleTokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", s.cfg.GoogleCallbackURL)
	data.Set("client_id", s.cfg.GoogleClientID)
	data.Set("client_secret", s.cfg.GoogleClientSecret)

	req, err := http.NewRequest("POST", "https://oauth2.googleapis.com/token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google token error: %s", string(body))
	}

	var tokenResp GoogleTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, err
	}

	return &tokenResp, nil
}

// GetProfile fetches the Google user profile
func (s *GoogleService) GetProfile(accessToken string) (*GoogleProfile, error) {
	req, err := http.NewRequest("GET", "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google profile error: %s", string(body))
	}

	var profile GoogleProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, err
	}

	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("google profile incomplete")
	}

	return &profile, nil
}

// Authenticate completes a Google sign-in: exchanges the code, fetches
// the profile, and returns the matching local user, provisioning one on
// first sign-in. Matching order: provider identity first, then email
// (an existing local account gets linked rather than duplicated).
func (s *GoogleService) Authenticate(ctx context.Context, code string) (*models.User, error) {
	tokenResp, err := s.ExchangeToken(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDependency, err)
	}

	profile, err := s.GetProfile(tokenResp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDependency, err)
	}

	// 1. Already-linked identity
	user, err := s.userRepo.GetByProvider(ctx, providerGoogle, profile.ID)
	if err == nil {
		if !user.IsActive {
			return nil, ErrUserInactive
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 2. Existing local account with the same email: link it
	user, err = s.userRepo.GetByEmail(ctx, profile.Email)
	if err == nil {
		if !user.IsActive {
			return nil, ErrUserInactive
		}
		user.Provider = providerGoogle
		user.ProviderID = profile.ID
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		log.Printf("✅ Google identity linked to existing user: %s", user.Username)
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 3. First sign-in: provision a Member account
	return s.provisionUser(ctx, profile)
}

// provisionUser creates a local Member account for a Google identity
func (s *GoogleService) provisionUser(ctx context.Context, profile *GoogleProfile) (*models.User, error) {
	username, err := s.pickUsername(ctx, profile)
	if err != nil {
		return nil, err
	}

	memberRoles, err := s.userRepo.GetRolesByNames(ctx, []string{string(domain.RoleMember)})
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:   username,
		Email:      profile.Email,
		Provider:   providerGoogle,
		ProviderID: profile.ID,
		IsActive:   true,
	}
	for _, r := range memberRoles {
		user.Roles = append(user.Roles, *r)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User provisioned via Google: %s (%s)", user.Username, user.Email)
	return user, nil
}

// pickUsername derives a unique username from the email local part,
// suffixing a counter when taken
func (s *GoogleService) pickUsername(ctx context.Context, profile *GoogleProfile) (string, error) {
	base := strings.Split(profile.Email, "@")[0]
	base = strings.ToLower(strings.TrimSpace(base))
	if base == "" {
		base = "member"
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.userRepo.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

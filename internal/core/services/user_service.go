package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/adapters/persistence/repositories"
	"openshelf/internal/core/domain"
)

// User service errors
var (
	ErrInvalidRole          = errors.New("unknown role name")
	ErrCannotChangeOwnRoles = errors.New("cannot change your own roles")
	ErrCannotEditSelf       = errors.New("cannot change your own account status")
)

// UserService handles user administration. Everything here requires the
// administer capability.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Offset int
	Limit  int
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users []*models.UserResponse `json:"users"`
	Total int64                  `json:"total"`
}

// UpdateRolesInput represents role assignment input
type UpdateRolesInput struct {
	Roles []string `json:"roles"`
}

// ListUsers lists users with pagination
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput, caller domain.Caller) (*ListUsersOutput, error) {
	if !caller.Capabilities.CanAdminister {
		return nil, domain.ErrForbidden
	}

	users, total, err := s.userRepo.List(ctx, input.Offset, input.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	return &ListUsersOutput{Users: responses, Total: total}, nil
}

// GetUser gets a single user
func (s *UserService) GetUser(ctx context.Context, id uint, caller domain.Caller) (*models.UserResponse, error) {
	if !caller.Capabilities.CanAdminister {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user.ToResponse(), nil
}

// ListRoles lists the assignable roles
func (s *UserService) ListRoles(ctx context.Context, caller domain.Caller) ([]*models.Role, error) {
	if !caller.Capabilities.CanAdminister {
		return nil, domain.ErrForbidden
	}

	return s.userRepo.ListRoles(ctx)
}

// UpdateUserRoles replaces a user's role set. Admins cannot edit their
// own roles; a locked-out system needs another admin to fix it, not a
// self-demotion mid-session.
func (s *UserService) UpdateUserRoles(ctx context.Context, userID uint, input *UpdateRolesInput, caller domain.Caller) (*models.UserResponse, error) {
	if !caller.Capabilities.CanAdminister {
		return nil, domain.ErrForbidden
	}
	if userID == caller.UserID {
		return nil, ErrCannotChangeOwnRoles
	}
	if len(input.Roles) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, name := range input.Roles {
		if !domain.IsValidRole(name) {
			return nil, ErrInvalidRole
		}
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepo.ReplaceRoles(ctx, userID, input.Roles); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Roles updated for user %s: %v", user.Username, input.Roles)
	return user.ToResponse(), nil
}

// SetActive enables or disables an account
func (s *UserService) SetActive(ctx context.Context, userID uint, active bool, caller domain.Caller) (*models.UserResponse, error) {
	if !caller.Capabilities.CanAdminister {
		return nil, domain.ErrForbidden
	}
	if userID == caller.UserID {
		return nil, ErrCannotEditSelf
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

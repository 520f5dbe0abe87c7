package repositories

import (
	"context"

	"gorm.io/gorm"

	"openshelf/internal/adapters/persistence/models"
)

// GormUserRepository handles user data access
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user with its role associations
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID with roles
func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Roles").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername gets a user by username with roles
func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email with roles
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByProvider gets a user by external identity
func (r *GormUserRepository) GetByProvider(ctx context.Context, provider, providerID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("provider = ? AND provider_id = ?", provider, providerID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List lists users with roles, paginated
func (r *GormUserRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Order("username ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

// Update saves a user
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// ExistsByUsername checks if a username is taken
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if an email is taken
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ReplaceRoles replaces the user's role set with the named roles
func (r *GormUserRepository) ReplaceRoles(ctx context.Context, userID uint, roleNames []string) error {
	roles, err := r.GetRolesByNames(ctx, roleNames)
	if err != nil {
		return err
	}

	user := models.User{ID: userID}
	return r.db.WithContext(ctx).Model(&user).Association("Roles").Replace(roles)
}

// ListRoles lists all roles
func (r *GormUserRepository) ListRoles(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}

// GetRolesByNames gets the role rows matching the given names
func (r *GormUserRepository) GetRolesByNames(ctx context.Context, names []string) ([]*models.Role, error) {
	if len(names) == 0 {
		return []*models.Role{}, nil
	}
	var roles []*models.Role
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&roles).Error
	return roles, err
}

package config

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/core/domain"
	"openshelf/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedRoles(); err != nil {
		return err
	}
	if err := s.seedGenres(); err != nil {
		return err
	}
	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedRoles ensures the three fixed roles exist
func (s *Seeder) seedRoles() error {
	for _, role := range domain.AllRoles {
		var existing models.Role
		err := s.db.Where("name = ?", string(role)).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.Create(&models.Role{Name: string(role)}).Error; err != nil {
				return err
			}
			log.Printf("   Created role: %s", role)
		} else if err != nil {
			return err
		}
	}
	return nil
}

// seedGenres seeds a starter genre list for empty databases
func (s *Seeder) seedGenres() error {
	genres := []string{
		"Fiction",
		"Non-fiction",
		"Science Fiction",
		"Fantasy",
		"Mystery",
		"Biography",
		"History",
		"Science",
		"Children",
	}

	var count int64
	if err := s.db.Model(&models.Genre{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, name := range genres {
		if err := s.db.Create(&models.Genre{Name: name}).Error; err != nil {
			return err
		}
	}
	log.Printf("   Created %d starter genres", len(genres))
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var adminRole models.Role
	if err := s.db.Where("name = ?", string(domain.RoleAdmin)).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	s.db.Model(&models.User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role_id = ?", adminRole.ID).
		Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@openshelf.dev",
		Password: hashedPassword,
		IsActive: true,
		Roles:    []models.Role{adminRole},
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}

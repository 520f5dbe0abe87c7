package repositories

import (
	"context"

	"gorm.io/gorm"

	"openshelf/internal/adapters/persistence/models"
)

// GormGenreRepository handles genre data access
type GormGenreRepository struct {
	db *gorm.DB
}

// NewGenreRepository creates a new genre repository
func NewGenreRepository(db *gorm.DB) *GormGenreRepository {
	return &GormGenreRepository{db: db}
}

// Create creates a new genre
func (r *GormGenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	return r.db.WithContext(ctx).Create(genre).Error
}

// GetByID gets a genre by ID
func (r *GormGenreRepository) GetByID(ctx context.Context, id uint) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).First(&genre, id).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// GetByName gets a genre by exact name
func (r *GormGenreRepository) GetByName(ctx context.Context, name string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// List lists all genres ordered by name
func (r *GormGenreRepository) List(ctx context.Context) ([]*models.Genre, error) {
	var genres []*models.Genre
	err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error
	return genres, err
}

// Update saves a genre
func (r *GormGenreRepository) Update(ctx context.Context, genre *models.Genre) error {
	return r.db.WithContext(ctx).Save(genre).Error
}

// Delete removes a genre. Referencing books are checked by the service
// before this is called; the FK restricts deletion as a backstop.
func (r *GormGenreRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Genre{}, id).Error
}

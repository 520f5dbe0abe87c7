package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"openshelf/internal/adapters/persistence/models"
)

// openLoansOnly limits a Loans preload to the current open loan
const openLoansOnly = "returned_at IS NULL"

// GormBookRepository handles book data access
type GormBookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

// Create creates a new book
func (r *GormBookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetByID gets a non-deleted book by ID with genre and open loan
func (r *GormBookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Preload("Genre").
		Preload("Loans", openLoansOnly).
		First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List lists all non-deleted books ordered by title ascending
func (r *GormBookRepository) List(ctx context.Context) ([]*models.Book, error) {
	var books []*models.Book
	err := r.db.WithContext(ctx).
		Preload("Genre").
		Preload("Loans", openLoansOnly).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// Search composes the supplied criteria into a single AND filter.
// Soft-deleted books are excluded by gorm's deleted_at scope.
func (r *GormBookRepository) Search(ctx context.Context, criteria BookSearchCriteria) ([]*models.Book, error) {
	query := r.db.WithContext(ctx).
		Preload("Genre").
		Preload("Loans", openLoansOnly)

	if term := strings.TrimSpace(criteria.Query); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if author := strings.TrimSpace(criteria.Author); author != "" {
		query = query.Where("LOWER(author) LIKE ?", "%"+strings.ToLower(author)+"%")
	}
	if criteria.MinPages != nil {
		query = query.Where("page_count >= ?", *criteria.MinPages)
	}
	if criteria.MaxPages != nil {
		query = query.Where("page_count <= ?", *criteria.MaxPages)
	}
	if criteria.GenreID != nil && *criteria.GenreID > 0 {
		query = query.Where("genre_id = ?", *criteria.GenreID)
	}
	if level := strings.TrimSpace(criteria.Level); level != "" {
		query = query.Where("ease_of_reading = ?", level)
	}

	var books []*models.Book
	err := query.Order("title ASC").Find(&books).Error
	return books, err
}

// Update saves a book
func (r *GormBookRepository) Update(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// Delete soft deletes a book (deleted_at set, row retained)
func (r *GormBookRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Book{}, id).Error
}

// CountByGenre counts books referencing a genre, soft-deleted rows
// included: any retained row blocks genre removal at the FK level
func (r *GormBookRepository) CountByGenre(ctx context.Context, genreID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Unscoped().
		Where("genre_id = ?", genreID).
		Count(&count).Error
	return count, err
}

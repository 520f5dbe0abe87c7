package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/adapters/persistence/repositories"
	"openshelf/internal/core/domain"
)

// GenreService handles genre management. Writes are staff-only; removal
// is restricted while any book references the genre.
type GenreService struct {
	genreRepo repositories.GenreRepository
	bookRepo  repositories.BookRepository
}

// NewGenreService creates a new genre service
func NewGenreService(genreRepo repositories.GenreRepository, bookRepo repositories.BookRepository) *GenreService {
	return &GenreService{
		genreRepo: genreRepo,
		bookRepo:  bookRepo,
	}
}

// GenreInput represents create/update genre input
type GenreInput struct {
	Name string `json:"name"`
}

// List lists all genres
func (s *GenreService) List(ctx context.Context) ([]*models.Genre, error) {
	return s.genreRepo.List(ctx)
}

// GetByID gets a genre by ID
func (s *GenreService) GetByID(ctx context.Context, id uint) (*models.Genre, error) {
	genre, err := s.genreRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGenreNotFound
		}
		return nil, err
	}
	return genre, nil
}

// Create creates a new genre. Names are unique.
func (s *GenreService) Create(ctx context.Context, input *GenreInput, caller domain.Caller) (*models.Genre, error) {
	if !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.genreRepo.GetByName(ctx, name); err == nil {
		return nil, domain.ErrGenreExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre := &models.Genre{Name: name}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		return nil, err
	}

	return genre, nil
}

// Update renames a genre
func (s *GenreService) Update(ctx context.Context, id uint, input *GenreInput, caller domain.Caller) (*models.Genre, error) {
	if !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	genre, err := s.genreRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGenreNotFound
		}
		return nil, err
	}

	if existing, err := s.genreRepo.GetByName(ctx, name); err == nil {
		if existing.ID != genre.ID {
			return nil, domain.ErrGenreExists
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre.Name = name
	if err := s.genreRepo.Update(ctx, genre); err != nil {
		return nil, err
	}

	return genre, nil
}

// Delete removes a genre. A genre referenced by any book (including
// soft-deleted ones, which may be restored) cannot be removed.
func (s *GenreService) Delete(ctx context.Context, id uint, caller domain.Caller) error {
	if !caller.IsStaff() {
		return domain.ErrForbidden
	}

	if _, err := s.genreRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrGenreNotFound
		}
		return err
	}

	count, err := s.bookRepo.CountByGenre(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrGenreInUse
	}

	return s.genreRepo.Delete(ctx, id)
}

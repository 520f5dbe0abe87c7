package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/adapters/persistence/repositories"
	"openshelf/internal/core/domain"
	"openshelf/internal/pkg/readability"
)

// BookService handles catalog writes and reads for books. Writes are
// gated on the caller's catalog-management capability; reads are public.
type BookService struct {
	bookRepo  repositories.BookRepository
	genreRepo repositories.GenreRepository
}

// NewBookService creates a new book service
func NewBookService(bookRepo repositories.BookRepository, genreRepo repositories.GenreRepository) *BookService {
	return &BookService{
		bookRepo:  bookRepo,
		genreRepo: genreRepo,
	}
}

// BookInput represents create/update book input
type BookInput struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	PageCount   int     `json:"page_count"`
	GenreID     uint    `json:"genre_id"`
	ISBN        *string `json:"isbn,omitempty"`
	Description *string `json:"description,omitempty"`
	CoverURL    *string `json:"cover_url,omitempty"`
	PublishYear *int    `json:"publish_year,omitempty"`
}

// validate checks required fields
func (in *BookInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return domain.ErrInvalidInput
	}
	if strings.TrimSpace(in.Author) == "" {
		return domain.ErrInvalidInput
	}
	if in.PageCount < 0 {
		return domain.ErrInvalidInput
	}
	if in.GenreID == 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// List lists all non-deleted books ordered by title
func (s *BookService) List(ctx context.Context) ([]*models.Book, error) {
	return s.bookRepo.List(ctx)
}

// GetByID gets a book by ID
func (s *BookService) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// Create creates a new book. Reading metrics are computed here and stored
// on the record: the denormalization is explicit, not a lazy getter, so a
// formula change never silently alters already-stored books.
func (s *BookService) Create(ctx context.Context, input *BookInput, caller domain.Caller) (*models.Book, error) {
	if !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := s.genreRepo.GetByID(ctx, input.GenreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGenreNotFound
		}
		return nil, err
	}

	book := &models.Book{
		Title:       strings.TrimSpace(input.Title),
		Author:      strings.TrimSpace(input.Author),
		PageCount:   input.PageCount,
		GenreID:     input.GenreID,
		ISBN:        input.ISBN,
		Description: input.Description,
		CoverURL:    input.CoverURL,
		PublishYear: input.PublishYear,
		Status:      string(domain.StatusAvailable),
	}
	s.applyReadingMetrics(book)

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	return s.bookRepo.GetByID(ctx, book.ID)
}

// Update updates a book and recomputes its stored reading metrics
func (s *BookService) Update(ctx context.Context, id uint, input *BookInput, caller domain.Caller) (*models.Book, error) {
	if !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}

	if _, err := s.genreRepo.GetByID(ctx, input.GenreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGenreNotFound
		}
		return nil, err
	}

	book.Title = strings.TrimSpace(input.Title)
	book.Author = strings.TrimSpace(input.Author)
	book.PageCount = input.PageCount
	book.GenreID = input.GenreID
	book.ISBN = input.ISBN
	book.Description = input.Description
	book.CoverURL = input.CoverURL
	book.PublishYear = input.PublishYear
	s.applyReadingMetrics(book)

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	return s.bookRepo.GetByID(ctx, book.ID)
}

// Delete soft deletes a book. The row is retained; the book disappears
// from all reads and can no longer be loaned.
func (s *BookService) Delete(ctx context.Context, id uint, caller domain.Caller) error {
	if !caller.IsStaff() {
		return domain.ErrForbidden
	}

	if _, err := s.bookRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBookNotFound
		}
		return err
	}

	return s.bookRepo.Delete(ctx, id)
}

// applyReadingMetrics recomputes the denormalized reading metrics
func (s *BookService) applyReadingMetrics(book *models.Book) {
	book.EstimatedReadingMinutes = readability.EstimateMinutes(book.PageCount, readability.DefaultPagesPerHour)
	book.EaseOfReading = readability.EstimateDifficulty(book.PageCount)
}

// ToResponses maps books to DTOs annotated with open-loan due dates
func ToResponses(books []*models.Book) []*models.BookResponse {
	responses := make([]*models.BookResponse, 0, len(books))
	for _, book := range books {
		responses = append(responses, ToResponse(book))
	}
	return responses
}

// ToResponse maps a book to its DTO, annotated with the due date of its
// open loan when the book is borrowed
func ToResponse(book *models.Book) *models.BookResponse {
	if open := book.OpenLoan(); open != nil {
		return book.ToResponse(&open.DueDate)
	}
	return book.ToResponse(nil)
}

package services

import (
	"context"
	"strings"

	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/adapters/persistence/repositories"
	"openshelf/internal/core/domain"
	"openshelf/internal/pkg/readability"
)

// SearchService answers catalog search queries. Search is public and
// read-only; all filters are optional and combine with AND.
type SearchService struct {
	bookRepo repositories.BookRepository
}

// NewSearchService creates a new search service
func NewSearchService(bookRepo repositories.BookRepository) *SearchService {
	return &SearchService{bookRepo: bookRepo}
}

// SearchInput represents catalog search input
type SearchInput struct {
	Query    string `json:"query"`
	Author   string `json:"author"`
	MinPages *int   `json:"min_pages"`
	MaxPages *int   `json:"max_pages"`
	GenreID  *uint  `json:"genre_id"`
	Level    string `json:"level"`
}

// SearchOutput represents catalog search output
type SearchOutput struct {
	Books []*models.BookResponse `json:"books"`
	Total int                    `json:"total"`
}

// Search runs the catalog search. An empty input returns the full
// catalog, title ascending, matching the plain listing.
func (s *SearchService) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if input.MinPages != nil && *input.MinPages < 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.MaxPages != nil && *input.MaxPages < 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.MinPages != nil && input.MaxPages != nil && *input.MinPages > *input.MaxPages {
		return nil, domain.ErrInvalidInput
	}
	if level := strings.TrimSpace(input.Level); level != "" && !readability.IsValidLevel(level) {
		return nil, domain.ErrInvalidInput
	}

	criteria := repositories.BookSearchCriteria{
		Query:    input.Query,
		Author:   input.Author,
		MinPages: input.MinPages,
		MaxPages: input.MaxPages,
		GenreID:  input.GenreID,
		Level:    strings.TrimSpace(input.Level),
	}

	books, err := s.bookRepo.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{
		Books: ToResponses(books),
		Total: len(books),
	}, nil
}

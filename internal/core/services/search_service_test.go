package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/core/domain"
	"openshelf/internal/pkg/readability"
)

func newSearchFixture(t *testing.T) (*SearchService, *fakeBookRepo) {
	t.Helper()

	books := newFakeBookRepo()
	add := func(title, author, description string, pages int, genreID uint) {
		_ = books.Create(context.Background(), &models.Book{
			Title:         title,
			Author:        author,
			Description:   &description,
			PageCount:     pages,
			GenreID:       genreID,
			EaseOfReading: readability.EstimateDifficulty(pages),
			Status:        string(domain.StatusAvailable),
		})
	}
	add("Short Stories", "Alice Munro", "Collected prize stories", 90, 1)
	add("Mid Novel", "Bram Oduya", "A coming of age tale", 250, 1)
	add("Epic Saga", "Cora Vance", "Dragons and long winters", 900, 2)

	return NewSearchService(books), books
}

func TestSearch(t *testing.T) {
	t.Run("empty input returns the full catalog", func(t *testing.T) {
		service, _ := newSearchFixture(t)

		result, err := service.Search(context.Background(), &SearchInput{})

		assert.NoError(t, err)
		assert.Equal(t, 3, result.Total)
	})

	t.Run("free text with no match returns an empty result", func(t *testing.T) {
		service, _ := newSearchFixture(t)

		result, err := service.Search(context.Background(), &SearchInput{Query: "quantum chromodynamics"})

		assert.NoError(t, err)
		assert.Equal(t, 0, result.Total)
		assert.Empty(t, result.Books)
	})

	t.Run("free text matches title case-insensitively", func(t *testing.T) {
		service, _ := newSearchFixture(t)

		result, err := service.Search(context.Background(), &SearchInput{Query: "EPIC saga"})

		assert.NoError(t, err)
		if assert.Len(t, result.Books, 1) {
			assert.Equal(t, "Epic Saga", result.Books[0].Title)
		}
	})

	t.Run("free text matches any of title, author or description", func(t *testing.T) {
		service, _ := newSearchFixture(t)

		byAuthor, err := service.Search(context.Background(), &SearchInput{Query: "munro"})
		assert.NoError(t, err)
		if assert.Len(t, byAuthor.Books, 1) {
			assert.Equal(t, "Short Stories", byAuthor.Books[0].Title)
		}

		byDescription, err := service.Search(context.Background(), &SearchInput{Query: "dragons"})
		assert.NoError(t, err)
		if assert.Len(t, byDescription.Books, 1) {
			assert.Equal(t, "Epic Saga", byDescription.Books[0].Title)
		}
	})

	t.Run("author filter narrows to matching authors only", func(t *testing.T) {
		service, _ := newSearchFixture(t)

		result, err := service.Search(context.Background(), &SearchInput{Author: "vance"})

		assert.NoError(t, err)
		if assert.Len(t, result.Books, 1) {
			assert.Equal(t, "Epic Saga", result.Books[0].Title)
		}
	})

	t.Run("free text and author combine with AND", func(t *testing.T) {
		service, _ := newSearchFixture(t)

		result, err := service.Search(context.Background(), &SearchInput{Query: "stories", Author: "vance"})

		assert.NoError(t, err)
		assert.Equal(t, 0, result.Total)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		service, _ := newSearchFixture(t)
		minPages := 100
		genreID := uint(1)

		result, err := service.Search(context.Background(), &SearchInput{MinPages: &minPages, GenreID: &genreID})

		assert.NoError(t, err)
		if assert.Len(t, result.Books, 1) {
			assert.Equal(t, "Mid Novel", result.Books[0].Title)
		}
	})

	t.Run("level filter matches stored difficulty", func(t *testing.T) {
		service, _ := newSearchFixture(t)

		result, err := service.Search(context.Background(), &SearchInput{Level: readability.LevelHard})

		assert.NoError(t, err)
		if assert.Len(t, result.Books, 1) {
			assert.Equal(t, "Epic Saga", result.Books[0].Title)
		}
	})

	t.Run("invalid filters are rejected", func(t *testing.T) {
		service, _ := newSearchFixture(t)
		min, max := 500, 100
		neg := -1

		_, err := service.Search(context.Background(), &SearchInput{MinPages: &min, MaxPages: &max})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = service.Search(context.Background(), &SearchInput{MinPages: &neg})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = service.Search(context.Background(), &SearchInput{Level: "Impossible"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

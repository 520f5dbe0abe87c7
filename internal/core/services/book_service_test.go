package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/core/domain"
	"openshelf/internal/pkg/readability"
)

func newBookFixture(t *testing.T) (*BookService, *fakeBookRepo, *fakeGenreRepo) {
	t.Helper()

	books := newFakeBookRepo()
	genres := newFakeGenreRepo()
	_ = genres.Create(context.Background(), &models.Genre{Name: "Fiction"})

	return NewBookService(books, genres), books, genres
}

func TestCreateBook(t *testing.T) {
	t.Run("stores computed reading metrics", func(t *testing.T) {
		service, _, _ := newBookFixture(t)

		book, err := service.Create(context.Background(), &BookInput{
			Title:     "Dune",
			Author:    "Herbert",
			PageCount: 412,
			GenreID:   1,
		}, staffCaller(1))

		assert.NoError(t, err)
		assert.Equal(t, 412, book.EstimatedReadingMinutes)
		assert.Equal(t, readability.LevelHard, book.EaseOfReading)
		assert.Equal(t, string(domain.StatusAvailable), book.Status)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		service, _, _ := newBookFixture(t)

		_, err := service.Create(context.Background(), &BookInput{
			Title:     "Dune",
			Author:    "Herbert",
			PageCount: 412,
			GenreID:   1,
		}, memberCaller(1))

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("missing required fields", func(t *testing.T) {
		service, _, _ := newBookFixture(t)

		cases := []struct {
			name  string
			input BookInput
		}{
			{"blank title", BookInput{Author: "Herbert", PageCount: 100, GenreID: 1}},
			{"blank author", BookInput{Title: "Dune", PageCount: 100, GenreID: 1}},
			{"negative pages", BookInput{Title: "Dune", Author: "Herbert", PageCount: -1, GenreID: 1}},
			{"no genre", BookInput{Title: "Dune", Author: "Herbert", PageCount: 100}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := service.Create(context.Background(), &tc.input, staffCaller(1))
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			})
		}
	})

	t.Run("unknown genre", func(t *testing.T) {
		service, _, _ := newBookFixture(t)

		_, err := service.Create(context.Background(), &BookInput{
			Title:     "Dune",
			Author:    "Herbert",
			PageCount: 412,
			GenreID:   99,
		}, staffCaller(1))

		assert.ErrorIs(t, err, domain.ErrGenreNotFound)
	})

	t.Run("zero pages yields zero minutes", func(t *testing.T) {
		service, _, _ := newBookFixture(t)

		book, err := service.Create(context.Background(), &BookInput{
			Title:     "Pamphlet",
			Author:    "Anon",
			PageCount: 0,
			GenreID:   1,
		}, staffCaller(1))

		assert.NoError(t, err)
		assert.Equal(t, 0, book.EstimatedReadingMinutes)
		assert.Equal(t, readability.LevelEasy, book.EaseOfReading)
	})
}

func TestUpdateBook(t *testing.T) {
	t.Run("recomputes reading metrics", func(t *testing.T) {
		service, _, _ := newBookFixture(t)

		book, err := service.Create(context.Background(), &BookInput{
			Title:     "Dune",
			Author:    "Herbert",
			PageCount: 120,
			GenreID:   1,
		}, staffCaller(1))
		assert.NoError(t, err)
		assert.Equal(t, readability.LevelEasy, book.EaseOfReading)

		updated, err := service.Update(context.Background(), book.ID, &BookInput{
			Title:     "Dune",
			Author:    "Herbert",
			PageCount: 200,
			GenreID:   1,
		}, staffCaller(1))

		assert.NoError(t, err)
		assert.Equal(t, 200, updated.EstimatedReadingMinutes)
		assert.Equal(t, readability.LevelMedium, updated.EaseOfReading)
	})

	t.Run("unknown book", func(t *testing.T) {
		service, _, _ := newBookFixture(t)

		_, err := service.Update(context.Background(), 99, &BookInput{
			Title:     "Dune",
			Author:    "Herbert",
			PageCount: 200,
			GenreID:   1,
		}, staffCaller(1))

		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})
}

func TestDeleteBook(t *testing.T) {
	t.Run("soft deleted book disappears from reads", func(t *testing.T) {
		service, _, _ := newBookFixture(t)

		book, err := service.Create(context.Background(), &BookInput{
			Title:     "Dune",
			Author:    "Herbert",
			PageCount: 412,
			GenreID:   1,
		}, staffCaller(1))
		assert.NoError(t, err)

		assert.NoError(t, service.Delete(context.Background(), book.ID, staffCaller(1)))

		_, err = service.GetByID(context.Background(), book.ID)
		assert.ErrorIs(t, err, domain.ErrBookNotFound)

		books, err := service.List(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		service, _, _ := newBookFixture(t)

		err := service.Delete(context.Background(), 1, memberCaller(1))
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

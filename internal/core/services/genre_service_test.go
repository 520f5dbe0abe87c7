package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/core/domain"
)

func newGenreFixture(t *testing.T) (*GenreService, *fakeGenreRepo, *fakeBookRepo) {
	t.Helper()

	genres := newFakeGenreRepo()
	books := newFakeBookRepo()
	return NewGenreService(genres, books), genres, books
}

func TestCreateGenre(t *testing.T) {
	t.Run("staff creates a genre", func(t *testing.T) {
		service, _, _ := newGenreFixture(t)

		genre, err := service.Create(context.Background(), &GenreInput{Name: "Fantasy"}, staffCaller(1))

		assert.NoError(t, err)
		assert.Equal(t, "Fantasy", genre.Name)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		service, _, _ := newGenreFixture(t)

		_, err := service.Create(context.Background(), &GenreInput{Name: "Fantasy"}, staffCaller(1))
		assert.NoError(t, err)

		_, err = service.Create(context.Background(), &GenreInput{Name: "Fantasy"}, staffCaller(1))
		assert.ErrorIs(t, err, domain.ErrGenreExists)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		service, _, _ := newGenreFixture(t)

		_, err := service.Create(context.Background(), &GenreInput{Name: "Fantasy"}, memberCaller(1))
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		service, _, _ := newGenreFixture(t)

		_, err := service.Create(context.Background(), &GenreInput{Name: "   "}, staffCaller(1))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestUpdateGenre(t *testing.T) {
	t.Run("rename keeps the same ID", func(t *testing.T) {
		service, _, _ := newGenreFixture(t)
		genre, _ := service.Create(context.Background(), &GenreInput{Name: "Fantasy"}, staffCaller(1))

		updated, err := service.Update(context.Background(), genre.ID, &GenreInput{Name: "High Fantasy"}, staffCaller(1))

		assert.NoError(t, err)
		assert.Equal(t, genre.ID, updated.ID)
		assert.Equal(t, "High Fantasy", updated.Name)
	})

	t.Run("rename to its own name is a no-op", func(t *testing.T) {
		service, _, _ := newGenreFixture(t)
		genre, _ := service.Create(context.Background(), &GenreInput{Name: "Fantasy"}, staffCaller(1))

		_, err := service.Update(context.Background(), genre.ID, &GenreInput{Name: "Fantasy"}, staffCaller(1))
		assert.NoError(t, err)
	})

	t.Run("rename onto another genre conflicts", func(t *testing.T) {
		service, _, _ := newGenreFixture(t)
		_, _ = service.Create(context.Background(), &GenreInput{Name: "Fantasy"}, staffCaller(1))
		other, _ := service.Create(context.Background(), &GenreInput{Name: "Horror"}, staffCaller(1))

		_, err := service.Update(context.Background(), other.ID, &GenreInput{Name: "Fantasy"}, staffCaller(1))
		assert.ErrorIs(t, err, domain.ErrGenreExists)
	})
}

func TestDeleteGenre(t *testing.T) {
	t.Run("unused genre is removed", func(t *testing.T) {
		service, genres, _ := newGenreFixture(t)
		genre, _ := service.Create(context.Background(), &GenreInput{Name: "Fantasy"}, staffCaller(1))

		assert.NoError(t, service.Delete(context.Background(), genre.ID, staffCaller(1)))

		_, err := genres.GetByID(context.Background(), genre.ID)
		assert.Error(t, err)
	})

	t.Run("genre referenced by a book is restricted", func(t *testing.T) {
		service, _, books := newGenreFixture(t)
		genre, _ := service.Create(context.Background(), &GenreInput{Name: "Fantasy"}, staffCaller(1))

		_ = books.Create(context.Background(), &models.Book{Title: "Dune", Author: "Herbert", GenreID: genre.ID, Status: string(domain.StatusAvailable)})

		err := service.Delete(context.Background(), genre.ID, staffCaller(1))
		assert.ErrorIs(t, err, domain.ErrGenreInUse)
	})

	t.Run("unknown genre", func(t *testing.T) {
		service, _, _ := newGenreFixture(t)

		err := service.Delete(context.Background(), 99, staffCaller(1))
		assert.ErrorIs(t, err, domain.ErrGenreNotFound)
	})
}

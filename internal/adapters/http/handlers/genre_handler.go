package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"openshelf/internal/adapters/http/middleware"
	"openshelf/internal/core/domain"
	"openshelf/internal/core/services"
	"openshelf/internal/pkg/response"
)

// GenreHandler handles genre endpoints
type GenreHandler struct {
	genreService *services.GenreService
}

// NewGenreHandler creates a new genre handler
func NewGenreHandler(genreService *services.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

// GenreRequest represents create/update genre request
type GenreRequest struct {
	Name string `json:"name"`
}

// List lists all genres
// @Summary List genres
// @Description List all genres
// @Tags Genres
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /genres [get]
func (h *GenreHandler) List(c *fiber.Ctx) error {
	genres, err := h.genreService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list genres")
	}

	return response.Success(c, "Genres retrieved successfully", fiber.Map{
		"genres": genres,
		"total":  len(genres),
	})
}

// Get gets a single genre
// @Summary Get genre
// @Description Get a genre by ID
// @Tags Genres
// @Accept json
// @Produce json
// @Param id path int true "Genre ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /genres/{id} [get]
func (h *GenreHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid genre ID")
	}

	genre, err := h.genreService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrGenreNotFound) {
			return response.NotFound(c, "Genre not found")
		}
		return response.InternalServerError(c, "Failed to get genre")
	}

	return response.Success(c, "Genre retrieved successfully", fiber.Map{
		"genre": genre,
	})
}

// Create creates a new genre
// @Summary Create genre
// @Description Create a new genre (staff only)
// @Tags Genres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GenreRequest true "Genre data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /genres [post]
func (h *GenreHandler) Create(c *fiber.Ctx) error {
	var req GenreRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	genre, err := h.genreService.Create(c.Context(), &services.GenreInput{Name: req.Name}, middleware.CallerFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Staff access required")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Genre name is required")
		case errors.Is(err, domain.ErrGenreExists):
			return response.Conflict(c, "Genre name already exists")
		default:
			return response.InternalServerError(c, "Failed to create genre")
		}
	}

	return response.Created(c, "Genre created successfully", fiber.Map{
		"genre": genre,
	})
}

// Update renames a genre
// @Summary Update genre
// @Description Rename a genre (staff only)
// @Tags Genres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Genre ID"
// @Param body body GenreRequest true "Genre data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /genres/{id} [put]
func (h *GenreHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid genre ID")
	}

	var req GenreRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	genre, err := h.genreService.Update(c.Context(), uint(id), &services.GenreInput{Name: req.Name}, middleware.CallerFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Staff access required")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Genre name is required")
		case errors.Is(err, domain.ErrGenreNotFound):
			return response.NotFound(c, "Genre not found")
		case errors.Is(err, domain.ErrGenreExists):
			return response.Conflict(c, "Genre name already exists")
		default:
			return response.InternalServerError(c, "Failed to update genre")
		}
	}

	return response.Success(c, "Genre updated successfully", fiber.Map{
		"genre": genre,
	})
}

// Delete removes a genre
// @Summary Delete genre
// @Description Delete a genre not referenced by any book (staff only)
// @Tags Genres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Genre ID"
// @Success 204
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /genres/{id} [delete]
func (h *GenreHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid genre ID")
	}

	if err := h.genreService.Delete(c.Context(), uint(id), middleware.CallerFromCtx(c)); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Staff access required")
		case errors.Is(err, domain.ErrGenreNotFound):
			return response.NotFound(c, "Genre not found")
		case errors.Is(err, domain.ErrGenreInUse):
			return response.Conflict(c, "Genre is referenced by books and cannot be removed")
		default:
			return response.InternalServerError(c, "Failed to delete genre")
		}
	}

	return response.NoContent(c)
}

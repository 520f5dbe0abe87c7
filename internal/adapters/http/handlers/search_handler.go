package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"openshelf/internal/core/domain"
	"openshelf/internal/core/services"
	"openshelf/internal/pkg/response"
)

// SearchHandler handles catalog search endpoints
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search searches the catalog
// @Summary Search books
// @Description Search the catalog. All filters are optional and combine with AND.
// @Tags Search
// @Accept json
// @Produce json
// @Param q query string false "Substring over title, author, description"
// @Param author query string false "Substring over author"
// @Param min_pages query int false "Minimum page count (inclusive)"
// @Param max_pages query int false "Maximum page count (inclusive)"
// @Param genre_id query int false "Genre ID"
// @Param level query string false "Ease of reading (Easy, Medium, Hard)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /search/books [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	input := &services.SearchInput{
		Query:  c.Query("q"),
		Author: c.Query("author"),
		Level:  c.Query("level"),
	}

	if raw := c.Query("min_pages"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return response.BadRequest(c, "Invalid min_pages")
		}
		input.MinPages = &v
	}
	if raw := c.Query("max_pages"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return response.BadRequest(c, "Invalid max_pages")
		}
		input.MaxPages = &v
	}
	if raw := c.Query("genre_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid genre_id")
		}
		genreID := uint(v)
		input.GenreID = &genreID
	}

	result, err := h.searchService.Search(c.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Invalid search filters")
		}
		return response.InternalServerError(c, "Failed to search books")
	}

	return response.Success(c, "Search completed", fiber.Map{
		"books": result.Books,
		"total": result.Total,
	})
}

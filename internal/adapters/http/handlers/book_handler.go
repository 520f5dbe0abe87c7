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

// BookHandler handles book catalog endpoints
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// BookRequest represents create/update book request
type BookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	PageCount   int     `json:"page_count"`
	GenreID     uint    `json:"genre_id"`
	ISBN        *string `json:"isbn,omitempty"`
	Description *string `json:"description,omitempty"`
	CoverURL    *string `json:"cover_url,omitempty"`
	PublishYear *int    `json:"publish_year,omitempty"`
}

func (r *BookRequest) toInput() *services.BookInput {
	return &services.BookInput{
		Title:       r.Title,
		Author:      r.Author,
		PageCount:   r.PageCount,
		GenreID:     r.GenreID,
		ISBN:        r.ISBN,
		Description: r.Description,
		CoverURL:    r.CoverURL,
		PublishYear: r.PublishYear,
	}
}

// List lists all books
// @Summary List books
// @Description List all books in the catalog, title ascending
// @Tags Books
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	books, err := h.bookService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully", fiber.Map{
		"books": services.ToResponses(books),
		"total": len(books),
	})
}

// Get gets a single book
// @Summary Get book
// @Description Get a book by ID
// @Tags Books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.bookService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", fiber.Map{
		"book": services.ToResponse(book),
	})
}

// Create creates a new book
// @Summary Create book
// @Description Create a new book (staff only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BookRequest true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var req BookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Create(c.Context(), req.toInput(), middleware.CallerFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Staff access required")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Title, author, page count and genre are required")
		case errors.Is(err, domain.ErrGenreNotFound):
			return response.BadRequest(c, "Genre does not exist")
		default:
			return response.InternalServerError(c, "Failed to create book")
		}
	}

	return response.Created(c, "Book created successfully", fiber.Map{
		"book": services.ToResponse(book),
	})
}

// Update updates a book
// @Summary Update book
// @Description Update a book, recomputing its reading metrics (staff only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param body body BookRequest true "Book data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [put]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	var req BookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Update(c.Context(), uint(id), req.toInput(), middleware.CallerFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Staff access required")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Title, author, page count and genre are required")
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, domain.ErrGenreNotFound):
			return response.BadRequest(c, "Genre does not exist")
		default:
			return response.InternalServerError(c, "Failed to update book")
		}
	}

	return response.Success(c, "Book updated successfully", fiber.Map{
		"book": services.ToResponse(book),
	})
}

// Delete removes a book from the catalog
// @Summary Delete book
// @Description Soft delete a book (staff only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 204
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.bookService.Delete(c.Context(), uint(id), middleware.CallerFromCtx(c)); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Staff access required")
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to delete book")
		}
	}

	return response.NoContent(c)
}

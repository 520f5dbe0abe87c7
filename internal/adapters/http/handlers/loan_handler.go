package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"openshelf/internal/adapters/http/middleware"
	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/core/domain"
	"openshelf/internal/core/services"
	"openshelf/internal/pkg/pagination"
	"openshelf/internal/pkg/response"
)

// LoanHandler handles loan lifecycle endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CheckOutRequest represents checkout request
type CheckOutRequest struct {
	BookID  uint       `json:"book_id"`
	UserID  uint       `json:"user_id,omitempty"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

// CheckOut checks a book out
// @Summary Check out a book
// @Description Create a loan for an available book. Members borrow for themselves; staff may borrow on behalf of any user.
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CheckOutRequest true "Checkout data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/check-out [post]
func (h *LoanHandler) CheckOut(c *fiber.Ctx) error {
	var req CheckOutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.BookID == 0 {
		return response.BadRequest(c, "Book ID is required")
	}

	input := &services.CheckOutInput{
		BookID:  req.BookID,
		UserID:  req.UserID,
		DueDate: req.DueDate,
	}

	loan, err := h.loanService.CheckOut(c.Context(), input, middleware.CallerFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Unauthorized(c, "Unauthorized")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Members can only borrow for themselves")
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Borrower not found")
		case errors.Is(err, domain.ErrBookAlreadyBorrowed):
			return response.Conflict(c, "Book is already borrowed")
		default:
			return response.InternalServerError(c, "Failed to check out book")
		}
	}

	return response.Created(c, "Book checked out successfully", fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// CheckIn checks a book back in
// @Summary Check in a loan
// @Description Close an open loan and make its book available again (staff only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/check-in [post]
func (h *LoanHandler) CheckIn(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.CheckIn(c.Context(), uint(id), middleware.CallerFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Staff access required")
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrLoanAlreadyReturned):
			return response.Conflict(c, "Loan is already returned")
		default:
			return response.InternalServerError(c, "Failed to check in loan")
		}
	}

	return response.Success(c, "Loan checked in successfully", fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// List lists loans visible to the caller
// @Summary List loans
// @Description Members see their own open loans; staff see all loans, optionally open-only via ?active=true
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Open loans only (staff)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	activeOnly := c.QueryBool("active", false)

	input := &services.ListLoansInput{
		ActiveOnly: activeOnly,
		Offset:     params.Offset,
		Limit:      params.Limit,
	}

	result, err := h.loanService.List(c.Context(), input, middleware.CallerFromCtx(c))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return response.Unauthorized(c, "Unauthorized")
		}
		return response.InternalServerError(c, "Failed to list loans")
	}

	loans := make([]*models.LoanResponse, 0, len(result.Loans))
	for _, loan := range result.Loans {
		loans = append(loans, loan.ToResponse())
	}

	return response.Success(c, "Loans retrieved successfully", fiber.Map{
		"loans":      loans,
		"pagination": pagination.GetMeta(params, result.Total),
	})
}

package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/adapters/persistence/repositories"
	"openshelf/internal/core/domain"
)

// ReturnNotifier delivers the best-effort borrower notification after a
// successful check-in
type ReturnNotifier interface {
	NotifyBookReturned(email, username, bookTitle string, returnedAt time.Time) error
}

// LoanService enforces the loan lifecycle: checkout and check-in state
// transitions with the availability invariant (a book is Borrowed exactly
// while one open loan exists), and role-scoped loan visibility.
type LoanService struct {
	loanRepo    repositories.LoanRepository
	bookRepo    repositories.BookRepository
	userRepo    repositories.UserRepository
	notifier    ReturnNotifier
	defaultDays int
}

// NewLoanService creates a new loan service. defaultDays is the loan
// period applied when checkout supplies no due date.
func NewLoanService(
	loanRepo repositories.LoanRepository,
	bookRepo repositories.BookRepository,
	userRepo repositories.UserRepository,
	notifier ReturnNotifier,
	defaultDays int,
) *LoanService {
	if defaultDays < 1 {
		defaultDays = 14
	}
	return &LoanService{
		loanRepo:    loanRepo,
		bookRepo:    bookRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		defaultDays: defaultDays,
	}
}

// CheckOutInput represents checkout input
type CheckOutInput struct {
	BookID  uint       `json:"book_id"`
	UserID  uint       `json:"user_id"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

// CheckOut creates a loan for a book and flips it to Borrowed.
// Preconditions are rejected before any mutation: the caller must be
// authenticated, the book must exist (soft-deleted books are invisible)
// and be Available, and non-staff callers may only borrow for themselves.
func (s *LoanService) CheckOut(ctx context.Context, input *CheckOutInput, caller domain.Caller) (*models.Loan, error) {
	if !caller.IsAuthenticated() {
		return nil, domain.ErrUnauthorized
	}

	borrowerID := input.UserID
	if borrowerID == 0 {
		borrowerID = caller.UserID
	}
	if !caller.IsStaff() && borrowerID != caller.UserID {
		return nil, domain.ErrForbidden
	}

	if _, err := s.bookRepo.GetByID(ctx, input.BookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, borrowerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	dueDate := now.AddDate(0, 0, s.defaultDays)
	if input.DueDate != nil && !input.DueDate.IsZero() {
		dueDate = *input.DueDate
	}

	loan := &models.Loan{
		BookID:     input.BookID,
		UserID:     borrowerID,
		BorrowedAt: now,
		DueDate:    dueDate,
	}

	// The repo applies the loan insert and the conditional Borrowed flip
	// as one transaction; a book that lost the race comes back as a
	// conflict, never as a second open loan.
	if err := s.loanRepo.CheckOut(ctx, loan); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}

	created, err := s.loanRepo.GetByID(ctx, loan.ID)
	if err != nil {
		return loan, nil
	}
	return created, nil
}

// CheckIn closes a loan and flips its book back to Available. Staff only.
// The returned-at timestamp is set exactly once; a closed loan is terminal.
// The borrower notification runs after the transaction committed and never
// rolls back or fails the check-in.
func (s *LoanService) CheckIn(ctx context.Context, loanID uint, caller domain.Caller) (*models.Loan, error) {
	if !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}

	loan, err := s.loanRepo.CheckIn(ctx, loanID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	s.notifyReturned(loan)

	return loan, nil
}

// notifyReturned sends the best-effort return notification. Failures are
// surfaced as warnings only: the loan state change is already committed.
func (s *LoanService) notifyReturned(loan *models.Loan) {
	if s.notifier == nil || loan.User == nil || loan.ReturnedAt == nil {
		return
	}

	bookTitle := "Book"
	if loan.Book != nil {
		bookTitle = loan.Book.Title
	}

	if err := s.notifier.NotifyBookReturned(loan.User.Email, loan.User.Username, bookTitle, *loan.ReturnedAt); err != nil {
		log.Printf("⚠️ Return notification failed for loan %d (%s): %v", loan.ID, loan.User.Email, err)
	}
}

// ListLoansInput represents loan listing input
type ListLoansInput struct {
	ActiveOnly bool
	Offset     int
	Limit      int
}

// ListLoansOutput represents loan listing output
type ListLoansOutput struct {
	Loans []*models.Loan `json:"loans"`
	Total int64          `json:"total"`
}

// List returns loans ordered by borrowed-at descending, scoped by the
// caller's capabilities. A member always sees only their own open loans —
// the activeOnly flag is ignored for them, the member view is "my current
// borrows". Staff see all loans, open-only when activeOnly is requested.
func (s *LoanService) List(ctx context.Context, input *ListLoansInput, caller domain.Caller) (*ListLoansOutput, error) {
	if !caller.IsAuthenticated() {
		return nil, domain.ErrUnauthorized
	}

	filter := repositories.LoanFilter{
		ActiveOnly: input.ActiveOnly,
		Offset:     input.Offset,
		Limit:      input.Limit,
	}
	if !caller.IsStaff() {
		userID := caller.UserID
		filter.UserID = &userID
		filter.ActiveOnly = true
	}

	loans, total, err := s.loanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListLoansOutput{Loans: loans, Total: total}, nil
}

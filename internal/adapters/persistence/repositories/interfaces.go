package repositories

import (
	"context"
	"time"

	"openshelf/internal/adapters/persistence/models"
)

// BookSearchCriteria holds the optional search filters over the catalog.
// Absent or blank criteria are no-ops; supplied criteria combine with AND.
type BookSearchCriteria struct {
	Query    string // case-insensitive substring over title, author, description
	Author   string // case-insensitive substring over author
	MinPages *int   // inclusive
	MaxPages *int   // inclusive
	GenreID  *uint  // exact
	Level    string // exact ease-of-reading label
}

// LoanFilter holds the filters for loan listings
type LoanFilter struct {
	UserID     *uint // restrict to a single borrower
	ActiveOnly bool  // open loans only
	Offset     int
	Limit      int // 0 means no limit
}

// BookRepository defines book repository interface
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	// GetByID returns a non-deleted book with genre and open loan preloaded
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	// List returns all non-deleted books ordered by title ascending
	List(ctx context.Context) ([]*models.Book, error)
	// Search returns non-deleted books matching criteria, title ascending
	Search(ctx context.Context, criteria BookSearchCriteria) ([]*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	// Delete soft deletes a book; the row is retained
	Delete(ctx context.Context, id uint) error
	CountByGenre(ctx context.Context, genreID uint) (int64, error)
}

// GenreRepository defines genre repository interface
type GenreRepository interface {
	Create(ctx context.Context, genre *models.Genre) error
	GetByID(ctx context.Context, id uint) (*models.Genre, error)
	GetByName(ctx context.Context, name string) (*models.Genre, error)
	List(ctx context.Context) ([]*models.Genre, error)
	Update(ctx context.Context, genre *models.Genre) error
	Delete(ctx context.Context, id uint) error
}

// LoanRepository defines loan repository interface. CheckOut and CheckIn
// run their read-check-write sequences as single transactions with
// conditional writes, so concurrent callers cannot both succeed.
type LoanRepository interface {
	// CheckOut inserts the loan and flips the book to Borrowed atomically.
	// Returns domain.ErrBookAlreadyBorrowed when the book is not Available.
	CheckOut(ctx context.Context, loan *models.Loan) error
	// CheckIn closes the loan and flips the book back to Available
	// atomically. Returns domain.ErrLoanAlreadyReturned when the loan is
	// already closed.
	CheckIn(ctx context.Context, loanID uint, returnedAt time.Time) (*models.Loan, error)
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	// List returns loans ordered by borrowed_at descending
	List(ctx context.Context, filter LoanFilter) ([]*models.Loan, int64, error)
	// ListOverdue returns open loans with a due date before the cutoff
	ListOverdue(ctx context.Context, cutoff time.Time) ([]*models.Loan, error)
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByProvider(ctx context.Context, provider, providerID string) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ReplaceRoles replaces the user's role set with the named roles
	ReplaceRoles(ctx context.Context, userID uint, roleNames []string) error
	ListRoles(ctx context.Context) ([]*models.Role, error)
	GetRolesByNames(ctx context.Context, names []string) ([]*models.Role, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

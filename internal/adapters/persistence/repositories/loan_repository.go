package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/core/domain"
)

// GormLoanRepository handles loan data access
type GormLoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// CheckOut inserts the loan and marks the book Borrowed in one transaction.
// The book update is conditional on the current status, so two concurrent
// checkouts of the same book cannot both succeed: the loser sees zero rows
// affected and gets domain.ErrBookAlreadyBorrowed.
func (r *GormLoanRepository) CheckOut(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ? AND status = ?", loan.BookID, string(domain.StatusAvailable)).
			Update("status", string(domain.StatusBorrowed))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Zero rows can mean either a borrowed book or one soft-deleted
			// since the caller's precheck; re-read to tell them apart.
			var book models.Book
			if err := tx.First(&book, loan.BookID).Error; err != nil {
				return err
			}
			return domain.ErrBookAlreadyBorrowed
		}
		return tx.Create(loan).Error
	})
}

// CheckIn closes the loan and marks the book Available in one transaction.
// The loan update is conditional on returned_at still being NULL; a loan
// that is already closed yields domain.ErrLoanAlreadyReturned and no writes.
func (r *GormLoanRepository) CheckIn(ctx context.Context, loanID uint, returnedAt time.Time) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Book.Genre").Preload("User").First(&loan, loanID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Loan{}).
			Where("id = ? AND returned_at IS NULL", loanID).
			Update("returned_at", returnedAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrLoanAlreadyReturned
		}

		return tx.Model(&models.Book{}).
			Where("id = ?", loan.BookID).
			Update("status", string(domain.StatusAvailable)).Error
	})
	if err != nil {
		return nil, err
	}

	loan.ReturnedAt = &returnedAt
	return &loan, nil
}

// GetByID gets a loan by ID with book and borrower
func (r *GormLoanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book.Genre").
		Preload("User").
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// List lists loans ordered by borrowed_at descending
func (r *GormLoanRepository) List(ctx context.Context, filter LoanFilter) ([]*models.Loan, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Loan{})
	if filter.UserID != nil {
		base = base.Where("user_id = ?", *filter.UserID)
	}
	if filter.ActiveOnly {
		base = base.Where("returned_at IS NULL")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.
		Preload("Book.Genre").
		Preload("User").
		Order("borrowed_at DESC")
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var loans []*models.Loan
	err := query.Find(&loans).Error
	return loans, total, err
}

// ListOverdue returns open loans whose due date is before the cutoff
func (r *GormLoanRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		Where("returned_at IS NULL AND due_date < ?", cutoff).
		Order("due_date ASC").
		Find(&loans).Error
	return loans, err
}

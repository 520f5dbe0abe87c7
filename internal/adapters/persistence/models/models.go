package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"openshelf/internal/core/domain"
)

// ============================================================
// Identity tables
// ============================================================

// User represents users table. Password is empty for accounts provisioned
// through external sign-in.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Username   string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email      string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password   string         `gorm:"size:255" json:"-"`
	Provider   string         `gorm:"size:20" json:"provider,omitempty"`
	ProviderID string         `gorm:"size:100;index" json:"-"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Roles []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// RoleNames returns the user's role names
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// DomainRoles returns the user's roles as domain values
func (u *User) DomainRoles() []domain.Role {
	roles := make([]domain.Role, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, domain.Role(r.Name))
	}
	return roles
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Roles:     u.RoleNames(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// Role represents roles table (seeded: Admin, Librarian, Member)
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:30;not null" json:"name"`
}

func (Role) TableName() string {
	return "roles"
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog tables
// ============================================================

// Genre represents genres table. A genre in use cannot be removed.
type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Genre) TableName() string {
	return "genres"
}

// Book represents books table. Status is Borrowed exactly while one open
// loan exists for the book. Reading metrics are denormalized: recomputed
// on every create/update, never derived at read time.
type Book struct {
	ID                      uint           `gorm:"primaryKey" json:"id"`
	Title                   string         `gorm:"size:255;not null;index" json:"title"`
	Author                  string         `gorm:"size:255;not null" json:"author"`
	PageCount               int            `gorm:"not null" json:"page_count"`
	GenreID                 uint           `gorm:"not null;index" json:"genre_id"`
	ISBN                    *string        `gorm:"size:20" json:"isbn"`
	Description             *string        `gorm:"type:text" json:"description"`
	CoverURL                *string        `gorm:"size:500" json:"cover_url"`
	PublishYear             *int           `json:"publish_year"`
	EstimatedReadingMinutes int            `json:"estimated_reading_minutes"`
	EaseOfReading           string         `gorm:"size:10" json:"ease_of_reading"`
	Status                  string         `gorm:"size:10;not null;default:'Available'" json:"status"`
	CreatedAt               time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Genre *Genre `gorm:"foreignKey:GenreID;constraint:OnDelete:RESTRICT" json:"genre,omitempty"`
	Loans []Loan `gorm:"foreignKey:BookID" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// OpenLoan returns the book's single open loan if one is loaded, nil otherwise
func (b *Book) OpenLoan() *Loan {
	for i := range b.Loans {
		if b.Loans[i].ReturnedAt == nil {
			return &b.Loans[i]
		}
	}
	return nil
}

// BookResponse DTO
type BookResponse struct {
	ID                      uint       `json:"id"`
	Title                   string     `json:"title"`
	Author                  string     `json:"author"`
	PageCount               int        `json:"page_count"`
	GenreID                 uint       `json:"genre_id"`
	GenreName               string     `json:"genre_name,omitempty"`
	ISBN                    *string    `json:"isbn"`
	Description             *string    `json:"description"`
	CoverURL                *string    `json:"cover_url"`
	PublishYear             *int       `json:"publish_year"`
	EstimatedReadingMinutes int        `json:"estimated_reading_minutes"`
	EaseOfReading           string     `json:"ease_of_reading"`
	Status                  string     `json:"status"`
	StatusDisplay           string     `json:"status_display"`
	BorrowedDueDate         *time.Time `json:"borrowed_due_date"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// ToResponse builds the book DTO. borrowedDueDate is the due date of the
// book's currently open loan, nil when the book is available.
func (b *Book) ToResponse(borrowedDueDate *time.Time) *BookResponse {
	resp := &BookResponse{
		ID:                      b.ID,
		Title:                   b.Title,
		Author:                  b.Author,
		PageCount:               b.PageCount,
		GenreID:                 b.GenreID,
		ISBN:                    b.ISBN,
		Description:             b.Description,
		CoverURL:                b.CoverURL,
		PublishYear:             b.PublishYear,
		EstimatedReadingMinutes: b.EstimatedReadingMinutes,
		EaseOfReading:           b.EaseOfReading,
		Status:                  b.Status,
		StatusDisplay:           b.Status,
		BorrowedDueDate:         borrowedDueDate,
		CreatedAt:               b.CreatedAt,
		UpdatedAt:               b.UpdatedAt,
	}

	if b.Genre != nil {
		resp.GenreName = b.Genre.Name
	}
	if b.Status == string(domain.StatusBorrowed) && borrowedDueDate != nil {
		resp.StatusDisplay = fmt.Sprintf("Borrowed (due %s)", borrowedDueDate.Format("2006-01-02"))
	}

	return resp
}

// ============================================================
// Loan table
// ============================================================

// Loan represents loans table. At most one open loan (returned_at IS NULL)
// exists per book; a closed loan is terminal.
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookID     uint       `gorm:"not null;index" json:"book_id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	BorrowedAt time.Time  `gorm:"not null;index" json:"borrowed_at"`
	DueDate    time.Time  `gorm:"not null" json:"due_date"`
	ReturnedAt *time.Time `gorm:"index" json:"returned_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relations (restrict on delete: a loan is never orphaned)
	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT" json:"book,omitempty"`
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// IsOpen reports whether the loan has not been returned yet
func (l *Loan) IsOpen() bool {
	return l.ReturnedAt == nil
}

// LoanResponse DTO
type LoanResponse struct {
	ID         uint       `json:"id"`
	BookID     uint       `json:"book_id"`
	BookTitle  string     `json:"book_title,omitempty"`
	GenreName  string     `json:"genre_name,omitempty"`
	UserID     uint       `json:"user_id"`
	UserEmail  string     `json:"user_email,omitempty"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:         l.ID,
		BookID:     l.BookID,
		UserID:     l.UserID,
		BorrowedAt: l.BorrowedAt,
		DueDate:    l.DueDate,
		ReturnedAt: l.ReturnedAt,
		CreatedAt:  l.CreatedAt,
	}

	if l.Book != nil {
		resp.BookTitle = l.Book.Title
		if l.Book.Genre != nil {
			resp.GenreName = l.Book.Genre.Name
		}
	}
	if l.User != nil {
		resp.UserEmail = l.User.Email
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Role{},
		&RefreshToken{},
		&Genre{},
		&Book{},
		&Loan{},
	)
}

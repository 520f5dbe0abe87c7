package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternalServer = errors.New("internal server error")
	ErrDependency     = errors.New("dependency unavailable")
)

// Catalog errors
var (
	ErrBookNotFound  = errors.New("book not found")
	ErrGenreNotFound = errors.New("genre not found")
	ErrGenreInUse    = errors.New("genre is referenced by books")
	ErrGenreExists   = errors.New("genre name already exists")
)

// Loan errors
var (
	ErrLoanNotFound        = errors.New("loan not found")
	ErrBookAlreadyBorrowed = errors.New("book is already borrowed")
	ErrLoanAlreadyReturned = errors.New("loan already returned")
)

package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"openshelf/internal/adapters/persistence/models"
	"openshelf/internal/adapters/persistence/repositories"
	"openshelf/internal/core/domain"
)

// In-memory fakes reproducing the repository contracts, including the
// conditional-write conflict behavior of checkout and check-in.

type fakeBookRepo struct {
	books  map[uint]*models.Book
	nextID uint
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uint]*models.Book), nextID: 1}
}

func (r *fakeBookRepo) Create(_ context.Context, book *models.Book) error {
	book.ID = r.nextID
	r.nextID++
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) GetByID(_ context.Context, id uint) (*models.Book, error) {
	book, ok := r.books[id]
	if !ok || book.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	return book, nil
}

func (r *fakeBookRepo) List(_ context.Context) ([]*models.Book, error) {
	var books []*models.Book
	for _, b := range r.books {
		if !b.DeletedAt.Valid {
			books = append(books, b)
		}
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

func (r *fakeBookRepo) Search(ctx context.Context, criteria repositories.BookSearchCriteria) ([]*models.Book, error) {
	all, _ := r.List(ctx)
	var out []*models.Book
	for _, b := range all {
		if criteria.Query != "" && !matchesFreeText(b, criteria.Query) {
			continue
		}
		if criteria.Author != "" &&
			!strings.Contains(strings.ToLower(b.Author), strings.ToLower(criteria.Author)) {
			continue
		}
		if criteria.GenreID != nil && *criteria.GenreID > 0 && b.GenreID != *criteria.GenreID {
			continue
		}
		if criteria.MinPages != nil && b.PageCount < *criteria.MinPages {
			continue
		}
		if criteria.MaxPages != nil && b.PageCount > *criteria.MaxPages {
			continue
		}
		if criteria.Level != "" && b.EaseOfReading != criteria.Level {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// matchesFreeText mirrors the case-insensitive any-field matching of the
// catalog search: title, author or description may satisfy the query.
func matchesFreeText(b *models.Book, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(b.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(b.Author), q) {
		return true
	}
	return b.Description != nil && strings.Contains(strings.ToLower(*b.Description), q)
}

func (r *fakeBookRepo) Update(_ context.Context, book *models.Book) error {
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, id uint) error {
	if book, ok := r.books[id]; ok {
		book.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return nil
}

func (r *fakeBookRepo) CountByGenre(_ context.Context, genreID uint) (int64, error) {
	var count int64
	for _, b := range r.books {
		if b.GenreID == genreID {
			count++
		}
	}
	return count, nil
}

type fakeGenreRepo struct {
	genres map[uint]*models.Genre
	nextID uint
}

func newFakeGenreRepo() *fakeGenreRepo {
	return &fakeGenreRepo{genres: make(map[uint]*models.Genre), nextID: 1}
}

func (r *fakeGenreRepo) Create(_ context.Context, genre *models.Genre) error {
	genre.ID = r.nextID
	r.nextID++
	r.genres[genre.ID] = genre
	return nil
}

func (r *fakeGenreRepo) GetByID(_ context.Context, id uint) (*models.Genre, error) {
	genre, ok := r.genres[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return genre, nil
}

func (r *fakeGenreRepo) GetByName(_ context.Context, name string) (*models.Genre, error) {
	for _, g := range r.genres {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeGenreRepo) List(_ context.Context) ([]*models.Genre, error) {
	var genres []*models.Genre
	for _, g := range r.genres {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	return genres, nil
}

func (r *fakeGenreRepo) Update(_ context.Context, genre *models.Genre) error {
	r.genres[genre.ID] = genre
	return nil
}

func (r *fakeGenreRepo) Delete(_ context.Context, id uint) error {
	delete(r.genres, id)
	return nil
}

type fakeLoanRepo struct {
	loans  map[uint]*models.Loan
	books  *fakeBookRepo
	users  *fakeUserRepo
	nextID uint
}

func newFakeLoanRepo(books *fakeBookRepo, users *fakeUserRepo) *fakeLoanRepo {
	return &fakeLoanRepo{
		loans:  make(map[uint]*models.Loan),
		books:  books,
		users:  users,
		nextID: 1,
	}
}

func (r *fakeLoanRepo) attach(loan *models.Loan) *models.Loan {
	if book, ok := r.books.books[loan.BookID]; ok {
		loan.Book = book
	}
	if user, ok := r.users.users[loan.UserID]; ok {
		loan.User = user
	}
	return loan
}

func (r *fakeLoanRepo) CheckOut(_ context.Context, loan *models.Loan) error {
	book, ok := r.books.books[loan.BookID]
	if !ok || book.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	if book.Status != string(domain.StatusAvailable) {
		return domain.ErrBookAlreadyBorrowed
	}
	book.Status = string(domain.StatusBorrowed)
	loan.ID = r.nextID
	r.nextID++
	r.loans[loan.ID] = loan
	book.Loans = append(book.Loans, *loan)
	return nil
}

func (r *fakeLoanRepo) CheckIn(_ context.Context, loanID uint, returnedAt time.Time) (*models.Loan, error) {
	loan, ok := r.loans[loanID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if loan.ReturnedAt != nil {
		return nil, domain.ErrLoanAlreadyReturned
	}
	loan.ReturnedAt = &returnedAt
	if book, ok := r.books.books[loan.BookID]; ok {
		book.Status = string(domain.StatusAvailable)
		for i := range book.Loans {
			if book.Loans[i].ID == loan.ID {
				book.Loans[i].ReturnedAt = &returnedAt
			}
		}
	}
	return r.attach(loan), nil
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id uint) (*models.Loan, error) {
	loan, ok := r.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.attach(loan), nil
}

func (r *fakeLoanRepo) List(_ context.Context, filter repositories.LoanFilter) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	for _, l := range r.loans {
		if filter.UserID != nil && l.UserID != *filter.UserID {
			continue
		}
		if filter.ActiveOnly && l.ReturnedAt != nil {
			continue
		}
		loans = append(loans, r.attach(l))
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].BorrowedAt.After(loans[j].BorrowedAt) })
	total := int64(len(loans))
	if filter.Offset > 0 && filter.Offset < len(loans) {
		loans = loans[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(loans) {
		loans = loans[:filter.Limit]
	}
	return loans, total, nil
}

func (r *fakeLoanRepo) ListOverdue(_ context.Context, cutoff time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	for _, l := range r.loans {
		if l.ReturnedAt == nil && l.DueDate.Before(cutoff) {
			loans = append(loans, r.attach(l))
		}
	}
	return loans, nil
}

type fakeUserRepo struct {
	users  map[uint]*models.User
	roles  map[string]*models.Role
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	repo := &fakeUserRepo{
		users:  make(map[uint]*models.User),
		roles:  make(map[string]*models.Role),
		nextID: 1,
	}
	for i, role := range domain.AllRoles {
		repo.roles[string(role)] = &models.Role{ID: uint(i + 1), Name: string(role)}
	}
	return repo
}

func (r *fakeUserRepo) addUser(username, email string, roleNames ...string) *models.User {
	user := &models.User{
		ID:       r.nextID,
		Username: username,
		Email:    email,
		IsActive: true,
	}
	for _, name := range roleNames {
		user.Roles = append(user.Roles, *r.roles[name])
	}
	r.nextID++
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByProvider(_ context.Context, provider, providerID string) (*models.User, error) {
	for _, u := range r.users {
		if u.Provider == provider && u.ProviderID == providerID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	total := int64(len(users))
	if offset > 0 && offset < len(users) {
		users = users[offset:]
	}
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users, total, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) ReplaceRoles(_ context.Context, userID uint, roleNames []string) error {
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Roles = nil
	for _, name := range roleNames {
		if role, ok := r.roles[name]; ok {
			user.Roles = append(user.Roles, *role)
		}
	}
	return nil
}

func (r *fakeUserRepo) ListRoles(_ context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	for _, role := range r.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

func (r *fakeUserRepo) GetRolesByNames(_ context.Context, names []string) ([]*models.Role, error) {
	var roles []*models.Role
	for _, name := range names {
		if role, ok := r.roles[name]; ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

type fakeRefreshTokenRepo struct {
	tokens map[uint]*models.RefreshToken
	nextID uint
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[uint]*models.RefreshToken), nextID: 1}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	token.ID = r.nextID
	r.nextID++
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	token, ok := r.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	token.RevokedAt = &now
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	token, err := r.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil
	}
	return r.Revoke(ctx, token.ID)
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	for id, t := range r.tokens {
		if t.IsExpired() {
			delete(r.tokens, id)
		}
	}
	return nil
}

type notifiedReturn struct {
	email     string
	bookTitle string
}

type fakeNotifier struct {
	returned []notifiedReturn
	fail     error
}

func (n *fakeNotifier) NotifyBookReturned(email, _, bookTitle string, _ time.Time) error {
	if n.fail != nil {
		return n.fail
	}
	n.returned = append(n.returned, notifiedReturn{email: email, bookTitle: bookTitle})
	return nil
}

// staffCaller and memberCaller build callers with resolved capabilities
func staffCaller(userID uint) domain.Caller {
	return domain.Caller{
		UserID:       userID,
		Username:     "librarian",
		Capabilities: domain.ResolveCapabilities([]domain.Role{domain.RoleLibrarian}),
	}
}

func adminCaller(userID uint) domain.Caller {
	return domain.Caller{
		UserID:       userID,
		Username:     "admin",
		Capabilities: domain.ResolveCapabilities([]domain.Role{domain.RoleAdmin}),
	}
}

func memberCaller(userID uint) domain.Caller {
	return domain.Caller{
		UserID:       userID,
		Username:     "member",
		Capabilities: domain.ResolveCapabilities([]domain.Role{domain.RoleMember}),
	}
}

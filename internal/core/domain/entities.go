package domain

// Role represents a user role in the system
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleLibrarian Role = "Librarian"
	RoleMember    Role = "Member"
)

// AllRoles lists the roles a user can be assigned
var AllRoles = []Role{RoleAdmin, RoleLibrarian, RoleMember}

// IsValidRole reports whether name matches a known role
func IsValidRole(name string) bool {
	switch Role(name) {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return true
	}
	return false
}

// BookStatus represents the availability state of a book
type BookStatus string

const (
	StatusAvailable BookStatus = "Available"
	StatusBorrowed  BookStatus = "Borrowed"
)

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

package domain

// Capabilities is what a caller is allowed to do, resolved once per request
// from the caller's role set. Services receive capabilities explicitly
// instead of reading auth state from ambient context.
type Capabilities struct {
	// CanManageCatalog gates book/genre writes and loan check-in
	// (Admin or Librarian — "staff")
	CanManageCatalog bool
	// CanAdminister gates user/role administration (Admin only)
	CanAdminister bool
	// SelfServeOnly restricts loan visibility to the caller's own open
	// loans and forbids check-in (Member without a staff role)
	SelfServeOnly bool
}

// ResolveCapabilities derives capabilities from a role set
func ResolveCapabilities(roles []Role) Capabilities {
	var caps Capabilities
	for _, r := range roles {
		switch r {
		case RoleAdmin:
			caps.CanAdminister = true
			caps.CanManageCatalog = true
		case RoleLibrarian:
			caps.CanManageCatalog = true
		}
	}
	caps.SelfServeOnly = !caps.CanManageCatalog
	return caps
}

// Caller identifies the authenticated principal behind a request along
// with its resolved capabilities
type Caller struct {
	UserID       uint
	Username     string
	Capabilities Capabilities
}

// Anonymous is the caller for unauthenticated requests
var Anonymous = Caller{}

// IsAuthenticated reports whether the caller identifies a signed-in user
func (c Caller) IsAuthenticated() bool {
	return c.UserID != 0
}

// IsStaff reports whether the caller holds Admin or Librarian capability
func (c Caller) IsStaff() bool {
	return c.Capabilities.CanManageCatalog
}

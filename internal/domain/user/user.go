// Package user defines the user domain model for authentication and authorization.
package user

import (
	"errors"
	"net/mail"
	"time"
)

// Role represents the authorization level of a user within the
// Organization → Domain → Plot containment hierarchy.
type Role string

const (
	// RoleSuperAdmin sees and mutates everything across organizations.
	RoleSuperAdmin Role = "super_admin"
	// RoleOrgAdmin is scoped to a single organization.
	RoleOrgAdmin Role = "org_admin"
	// RoleDomainAdmin lists organization-wide but mutates only inside its domain.
	RoleDomainAdmin Role = "domain_admin"
	// RoleApplicationUser works inside one or more assigned plots.
	RoleApplicationUser Role = "application_user"
)

// ValidRoles is the set of all valid user roles.
var ValidRoles = map[Role]bool{
	RoleSuperAdmin:      true,
	RoleOrgAdmin:        true,
	RoleDomainAdmin:     true,
	RoleApplicationUser: true,
}

// User represents a registered user.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // never serialized
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone,omitempty"`
	Role           Role      `json:"role"`
	OrganizationID string    `json:"organization_id,omitempty"`
	DomainID       string    `json:"domain_id,omitempty"`
	PlotIDs        []string  `json:"plot_ids,omitempty"`
	Enabled        bool      `json:"enabled"`
	LastLogin      time.Time `json:"last_login,omitzero"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Identity is the caller record consumed by the access-control core.
// All relational fields are plain identifiers; populated objects are
// flattened before an Identity is built.
type Identity struct {
	ID             string
	Role           Role
	OrganizationID string
	DomainID       string
	PlotIDs        []string
}

// Identity flattens a stored user into the caller record used for
// scope resolution and editability checks.
func (u *User) Identity() Identity {
	return Identity{
		ID:             u.ID,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		DomainID:       u.DomainID,
		PlotIDs:        u.PlotIDs,
	}
}

// HasPlot reports whether plotID is one of the identity's assigned plots.
func (id Identity) HasPlot(plotID string) bool {
	for _, p := range id.PlotIDs {
		if p == plotID {
			return true
		}
	}
	return false
}

// DisplayName returns the user's full name, falling back to the username.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// CreateRequest is the input for registering a new user.
type CreateRequest struct {
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Password       string   `json:"password"` //nolint:gosec // request field, not a hardcoded secret
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Phone          string   `json:"phone,omitempty"`
	Role           Role     `json:"role"`
	OrganizationID string   `json:"organization_id,omitempty"`
	DomainID       string   `json:"domain_id,omitempty"`
	PlotIDs        []string `json:"plot_ids,omitempty"`
}

// Validate checks that the CreateRequest has all required fields and that
// the affiliations its role requires are present.
func (r *CreateRequest) Validate() error {
	if len(r.Username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if r.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("invalid email format")
	}
	if len(r.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	if r.FirstName == "" {
		return errors.New("first name is required")
	}
	if r.LastName == "" {
		return errors.New("last name is required")
	}
	if !ValidRoles[r.Role] {
		return errors.New("invalid role")
	}
	if r.Role != RoleSuperAdmin && r.OrganizationID == "" {
		return errors.New("organization is required for this role")
	}
	if r.Role == RoleDomainAdmin && r.DomainID == "" {
		return errors.New("domain is required for domain admins")
	}
	if r.Role == RoleApplicationUser && len(r.PlotIDs) == 0 {
		return errors.New("at least one plot must be assigned for application users")
	}
	return nil
}

// UpdateRequest is the input for updating an existing user.
type UpdateRequest struct {
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Role      Role     `json:"role,omitempty"`
	DomainID  string   `json:"domain_id,omitempty"`
	PlotIDs   []string `json:"plot_ids,omitempty"`
	Enabled   *bool    `json:"enabled,omitempty"`
}

// LoginRequest is the input for user authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
}

// Validate checks that the LoginRequest has all required fields.
func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// LoginResponse is returned after successful authentication.
type LoginResponse struct {
	AccessToken string `json:"access_token"` //nolint:gosec // response field, not a hardcoded secret
	ExpiresIn   int    `json:"expires_in"` // seconds until access token expires
	User        User   `json:"user"`
}

// TokenClaims contains the JWT payload fields.
type TokenClaims struct {
	UserID         string   `json:"sub"`
	Email          string   `json:"email"`
	Role           Role     `json:"role"`
	OrganizationID string   `json:"org,omitempty"`
	DomainID       string   `json:"dom,omitempty"`
	PlotIDs        []string `json:"plots,omitempty"`
	IssuedAt       int64    `json:"iat"`
	Expiry         int64    `json:"exp"`
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain"
	"github.com/croftlabs/verdant/internal/domain/user"
	"github.com/croftlabs/verdant/internal/port/database"
)

// UserService manages user accounts. Password hashing is delegated to the
// auth service so the bcrypt cost lives in one place.
type UserService struct {
	store database.Store
	auth  *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(store database.Store, auth *AuthService) *UserService {
	return &UserService{store: store, auth: auth}
}

func userRecord(u *user.User) map[string]any {
	return map[string]any{
		access.FieldID:             u.ID,
		access.FieldOrganizationID: u.OrganizationID,
		access.FieldDomainID:       u.DomainID,
		access.FieldActive:         u.Enabled,
		access.FieldRole:           string(u.Role),
	}
}

// List returns the users visible to the caller.
func (s *UserService) List(ctx context.Context, id user.Identity, f access.ListFilter, page access.Page) ([]user.User, int, error) {
	pred := access.BuildFilter(access.Resolve(id), access.EntityUser, f)
	if pred.IsNone() {
		return []user.User{}, 0, nil
	}
	return s.store.ListUsers(ctx, pred, page.Normalize())
}

// Get returns one user if the caller can see them.
func (s *UserService) Get(ctx context.Context, id user.Identity, userID string) (*user.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Everyone can read their own record regardless of scope.
	if u.ID == id.ID {
		return u, nil
	}

	pred := access.BuildFilter(access.Resolve(id), access.EntityUser, access.ListFilter{IncludeInactive: true})
	if !pred.Matches(userRecord(u)) {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// canAssignRole decides whether the caller may hand out the given role.
// Nobody grants a role above their own.
func canAssignRole(caller user.Identity, target user.Role) bool {
	switch caller.Role {
	case user.RoleSuperAdmin:
		return true
	case user.RoleOrgAdmin:
		return target != user.RoleSuperAdmin
	case user.RoleDomainAdmin:
		return target == user.RoleApplicationUser
	default:
		return false
	}
}

// Create registers a new user. Non-super callers are pinned to their own
// organization (and, for domain admins, their own domain) no matter what
// the payload says.
func (s *UserService) Create(ctx context.Context, id user.Identity, req user.CreateRequest) (*user.User, error) {
	if !canAssignRole(id, req.Role) {
		return nil, domain.ErrForbidden
	}

	switch id.Role {
	case user.RoleOrgAdmin:
		req.OrganizationID = id.OrganizationID
	case user.RoleDomainAdmin:
		req.OrganizationID = id.OrganizationID
		req.DomainID = id.DomainID
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	// Assigned plots must live in the target organization.
	for _, plotID := range req.PlotIDs {
		p, err := s.store.GetPlot(ctx, plotID)
		if err != nil {
			return nil, fmt.Errorf("assigned plot %s: %w", plotID, err)
		}
		if p.OrganizationID != req.OrganizationID {
			return nil, fmt.Errorf("assigned plot %s: %w", plotID, domain.ErrValidation)
		}
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   hash,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Role:           req.Role,
		OrganizationID: req.OrganizationID,
		DomainID:       req.DomainID,
		PlotIDs:        req.PlotIDs,
		Enabled:        true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Update applies partial updates to a user account.
func (s *UserService) Update(ctx context.Context, id user.Identity, userID string, req user.UpdateRequest) (*user.User, error) {
	u, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	ref := access.Ref{OrganizationID: u.OrganizationID, DomainID: u.DomainID}
	if !access.CanMutate(id, access.EntityUser, ref) {
		return nil, domain.ErrForbidden
	}

	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if req.Role != "" && req.Role != u.Role {
		if !user.ValidRoles[req.Role] {
			return nil, fmt.Errorf("invalid role: %w", domain.ErrValidation)
		}
		if !canAssignRole(id, req.Role) {
			return nil, domain.ErrForbidden
		}
		u.Role = req.Role
	}
	if req.DomainID != "" {
		u.DomainID = req.DomainID
	}
	if req.PlotIDs != nil {
		for _, plotID := range req.PlotIDs {
			p, err := s.store.GetPlot(ctx, plotID)
			if err != nil {
				return nil, fmt.Errorf("assigned plot %s: %w", plotID, err)
			}
			if p.OrganizationID != u.OrganizationID {
				return nil, fmt.Errorf("assigned plot %s: %w", plotID, domain.ErrValidation)
			}
		}
		u.PlotIDs = req.PlotIDs
	}
	if req.Enabled != nil {
		u.Enabled = *req.Enabled
	}
	u.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Deactivate disables a user account. Self-deactivation is rejected so an
// organization cannot lock out its last admin by accident.
func (s *UserService) Deactivate(ctx context.Context, id user.Identity, userID string) error {
	if userID == id.ID {
		return fmt.Errorf("cannot deactivate own account: %w", domain.ErrValidation)
	}

	u, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}

	ref := access.Ref{OrganizationID: u.OrganizationID, DomainID: u.DomainID}
	if !access.CanMutate(id, access.EntityUser, ref) {
		return domain.ErrForbidden
	}

	return s.store.DeactivateUser(ctx, userID)
}

// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kenfackariol/ITCare/internal/auth"
	"github.com/kenfackariol/ITCare/internal/core"
	"github.com/kenfackariol/ITCare/internal/middleware"
	"github.com/kenfackariol/ITCare/internal/validation"
)

const (
	msgUserNotFound       = "User not found"
	msgEmailInUse         = "Email already in use"
	msgAccountDeactivated = "Account deactivated successfully"
)

type Service struct {
	repo      Repository
	validator *validation.Validator
}

func NewService(repo Repository, v *validation.Validator) *Service {
	return &Service{repo: repo, validator: v}
}

func (s *Service) GetByID(
	ctx context.Context,
	id int64,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash string,
	name *string,
	role string,
) (*auth.UserInfo, error) {
	user := &User{
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, id, passwordHash)
}

func (s *Service) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	return s.repo.TouchLastLogin(ctx, id, at)
}

// LoadPrincipal backs the authenticator: it reads the account fresh on every
// request so role changes and deactivation apply immediately.
func (s *Service) LoadPrincipal(
	ctx context.Context,
	id int64,
) (*middleware.Principal, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &middleware.Principal{
		ID:       user.ID,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
	}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapUserError(err, "Failed to retrieve user profile")
	}
	return user, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	userID int64,
	req UpdateProfileRequest,
) (*User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapUserError(err, "Failed to update user profile")
	}

	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Name != nil {
		user.Name = req.Name
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, mapUserError(err, "Failed to update user profile")
	}

	return user, nil
}

func (s *Service) Deactivate(ctx context.Context, userID int64) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return mapUserError(err, "Failed to deactivate account")
	}

	user.IsActive = false
	if err := s.repo.Update(ctx, user); err != nil {
		return mapUserError(err, "Failed to deactivate account")
	}

	return nil
}

func (s *Service) ListAll(ctx context.Context) ([]User, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, core.InternalError(err, "Failed to retrieve users")
	}
	return users, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()
	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, core.InternalError(err, "Failed to retrieve users")
	}
	return users, total, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserError(err, "Failed to retrieve user")
	}
	return user, nil
}

// UpdateRole lets an admin promote or demote another account.
func (s *Service) UpdateRole(
	ctx context.Context,
	actorID, targetID int64,
	req UpdateRoleRequest,
) (*User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	if actorID == targetID {
		return nil, core.ForbiddenError(core.MsgNoPermission)
	}

	user, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, mapUserError(err, "Failed to update user role")
	}

	user.Role = *req.Role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, mapUserError(err, "Failed to update user role")
	}

	return user, nil
}

// UpdateStatus activates or deactivates an account. Admins cannot change
// their own status or that of another admin.
func (s *Service) UpdateStatus(
	ctx context.Context,
	actorID, targetID int64,
	req UpdateStatusRequest,
) (*User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	if actorID == targetID {
		return nil, core.ForbiddenError(core.MsgNoPermission)
	}

	user, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, mapUserError(err, "Failed to update user status")
	}

	if user.IsAdmin() {
		return nil, core.ForbiddenError(core.MsgNoPermission)
	}

	user.IsActive = *req.IsActive
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, mapUserError(err, "Failed to update user status")
	}

	return user, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func mapUserError(err error, msg string) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NotFoundError(msgUserNotFound)
	case errors.Is(err, core.ErrDuplicateKey):
		return core.ConflictError(msgEmailInUse)
	default:
		return core.InternalError(err, msg)
	}
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

var (
	_ auth.UserProvider          = (*Service)(nil)
	_ middleware.PrincipalLoader = (*Service)(nil)
)

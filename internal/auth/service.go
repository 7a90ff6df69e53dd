// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kenfackariol/ITCare/internal/core"
	"github.com/kenfackariol/ITCare/internal/validation"
)

const (
	msgEmailInUse         = "Email already in use"
	msgUserNotFound       = "User not found"
	msgWrongPassword      = "Current password is incorrect"
	msgPasswordUpdated    = "Password updated successfully"
	defaultRegisteredRole = "user"
)

type UserInfo struct {
	ID           int64
	Email        string
	Name         *string
	PasswordHash string
	Role         string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProvider is the account store seen from the credential flows.
// Lookups wrap core.ErrNotFound, inserts core.ErrDuplicateKey.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash string,
		name *string,
		role string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	RecordLogin(ctx context.Context, id int64, at time.Time) error
}

type TokenIssuer interface {
	CreateAccessToken(claims AccessTokenClaims) (string, error)
}

type Service struct {
	tokens    TokenIssuer
	users     UserProvider
	validator *validation.Validator
	now       func() time.Time
}

func NewService(
	tokens TokenIssuer,
	users UserProvider,
	v *validation.Validator,
) *Service {
	return &Service{
		tokens:    tokens,
		users:     users,
		validator: v,
		now:       time.Now,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.Register")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	email := normalizeEmail(*req.Email)

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, core.ConflictError(msgEmailInUse)
	case !errors.Is(err, core.ErrNotFound):
		return nil, core.InternalError(err, "Failed to register user")
	}

	passwordHash, err := core.HashPassword(*req.Password)
	if err != nil {
		return nil, core.InternalError(err, "hash password")
	}

	user, err := s.users.Create(ctx, email, passwordHash, req.Name, defaultRegisteredRole)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.ConflictError(msgEmailInUse)
		}
		return nil, core.InternalError(err, "Failed to register user")
	}

	return s.authResponse(user)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	badCredentials := core.UnauthorizedError(
		core.MsgBadCredentials,
		core.CodeInvalidCredentials,
	)

	user, err := s.users.GetByEmail(ctx, normalizeEmail(*req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // equalises timing for unknown accounts
			_, _, _ = core.VerifyPasswordTimingSafe(*req.Password, nil)
			return nil, badCredentials
		}
		return nil, core.InternalError(err, "Failed to login")
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		*req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, core.InternalError(err, "verify password")
	}
	if !valid {
		return nil, badCredentials
	}

	if !user.IsActive {
		return nil, core.UnauthorizedError(
			core.MsgAccountDeactivated,
			core.CodeAccountDeactivated,
		)
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	now := s.now().UTC()
	if err := s.users.RecordLogin(ctx, user.ID, now); err != nil {
		return nil, core.InternalError(err, "Failed to login")
	}
	user.LastLogin = &now

	return s.authResponse(user)
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID int64,
	req ChangePasswordRequest,
) error {
	ctx, span := core.StartSpan(ctx, "auth.ChangePassword")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError(msgUserNotFound)
		}
		return core.InternalError(err, "Failed to change password")
	}

	valid, err := core.VerifyPassword(*req.OldPassword, user.PasswordHash)
	if err != nil {
		return core.InternalError(err, "verify password")
	}
	if !valid {
		return core.ValidationError(msgWrongPassword)
	}

	newHash, err := core.HashPassword(*req.NewPassword)
	if err != nil {
		return core.InternalError(err, "hash password")
	}

	if err := s.users.UpdatePassword(ctx, userID, newHash); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError(msgUserNotFound)
		}
		return core.InternalError(err, "Failed to change password")
	}

	return nil
}

func (s *Service) authResponse(user *UserInfo) (*AuthResponse, error) {
	token, err := s.tokens.CreateAccessToken(AccessTokenClaims{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, core.InternalError(err, "create access token")
	}

	return &AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

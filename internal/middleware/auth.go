// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kenfackariol/ITCare/internal/core"
)

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

const (
	PrincipalKey contextKey = "principal"
	ClaimsKey    contextKey = "jwt_claims"
)

type TokenClaims struct {
	UserID int64
	Role   string
}

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}

// Principal is the freshly loaded account acting on a request. Role and
// active state come from the store, not from the token.
type Principal struct {
	ID       int64
	Email    string
	Role     string
	IsActive bool
}

// PrincipalLoader returns an error wrapping core.ErrNotFound for unknown ids.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, id int64) (*Principal, error)
}

// Authenticator resolves the bearer token to an active account and attaches
// it to the request context.
func Authenticator(
	verifier TokenVerifier,
	loader PrincipalLoader,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := ExtractToken(r)
			if token == "" {
				core.JSONError(w, r, core.UnauthorizedError(
					core.MsgNotLoggedIn,
					core.CodeUnauthorized,
				))
				return
			}

			claims, err := verifier.VerifyAccessToken(ctx, token)
			if err != nil {
				if errors.Is(err, core.ErrTokenExpired) {
					core.JSONError(w, r, core.TokenExpiredError())
					return
				}
				core.JSONError(w, r, core.TokenInvalidError())
				return
			}

			principal, err := loader.LoadPrincipal(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.JSONError(w, r, core.UnauthorizedError(
						core.MsgUserNoLongerExists,
						core.CodeUserNotFound,
					))
					return
				}
				core.JSONError(w, r, core.InternalError(err, "load principal"))
				return
			}

			if !principal.IsActive {
				core.JSONError(w, r, core.UnauthorizedError(
					core.MsgAccountDeactivated,
					core.CodeAccountDeactivated,
				))
				return
			}

			ctx = context.WithValue(ctx, PrincipalKey, principal)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type RoleSet map[string]struct{}

func Roles(roles ...string) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

func IsAuthorized(role string, allowed RoleSet) bool {
	if role == "" {
		return false
	}
	_, ok := allowed[role]
	return ok
}

// RestrictTo must be mounted after Authenticator.
func RestrictTo(allowed RoleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())
			if principal == nil {
				core.JSONError(w, r, core.UnauthorizedError(
					core.MsgNotLoggedIn,
					core.CodeUnauthorized,
				))
				return
			}

			if !IsAuthorized(principal.Role, allowed) {
				core.JSONError(w, r, core.ForbiddenError(core.MsgNoPermission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return RestrictTo(Roles(roles...))
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

// GetUserID returns 0 when the request is unauthenticated.
func GetUserID(ctx context.Context) int64 {
	if p := GetPrincipal(ctx); p != nil {
		return p.ID
	}
	return 0
}

func GetClaims(ctx context.Context) *TokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*TokenClaims); ok {
		return claims
	}
	return nil
}

// WithPrincipal is used by tests and internal callers that authenticate
// outside of the HTTP pipeline.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

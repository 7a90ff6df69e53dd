// AngelaMos | 2026
// routes.go

package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kenfackariol/ITCare/internal/admin"
	"github.com/kenfackariol/ITCare/internal/auth"
	"github.com/kenfackariol/ITCare/internal/breakdown"
	"github.com/kenfackariol/ITCare/internal/config"
	"github.com/kenfackariol/ITCare/internal/material"
	"github.com/kenfackariol/ITCare/internal/middleware"
	"github.com/kenfackariol/ITCare/internal/user"
)

// Routes carries everything needed to mount the HTTP surface. Logger, Admin,
// Limiter and AuthLimiter may be nil.
type Routes struct {
	Config     *config.Config
	Logger     *slog.Logger
	Tokens     *auth.JWTManager
	Principals middleware.PrincipalLoader

	Auth       *auth.Handler
	Users      *user.Handler
	Materials  *material.Handler
	Breakdowns *breakdown.Handler
	Admin      *admin.Handler

	Limiter     func(http.Handler) http.Handler
	AuthLimiter func(http.Handler) http.Handler
}

// Mount installs the global middleware chain, the operational endpoints and
// the versioned API.
func (s *Server) Mount(rt Routes) {
	r := s.router

	logger := rt.Logger
	if logger == nil {
		logger = s.logger
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders(rt.Config.IsProduction()))
	r.Use(middleware.CORS(rt.Config.CORS))

	if s.health != nil {
		s.health.RegisterRoutes(r)
	}
	r.Handle("/metrics", promhttp.Handler())

	if rt.Tokens.HasJWKS() {
		r.Get("/.well-known/jwks.json", rt.Tokens.GetJWKSHandler())
	}

	authenticator := middleware.Authenticator(rt.Tokens, rt.Principals)
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)
	maintainers := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleManager)

	r.Route(rt.Config.APIPrefix(), func(r chi.Router) {
		if rt.Limiter != nil {
			r.Use(rt.Limiter)
		}

		rt.Auth.RegisterRoutes(r, authenticator, rt.AuthLimiter)
		rt.Users.RegisterRoutes(r, authenticator, adminOnly)
		rt.Users.RegisterAdminRoutes(r, authenticator, adminOnly)
		rt.Materials.RegisterRoutes(r, authenticator, adminOnly)
		rt.Breakdowns.RegisterRoutes(r, authenticator, adminOnly, maintainers)

		if rt.Admin != nil {
			rt.Admin.RegisterRoutes(r, authenticator, adminOnly)
		}
	})
}

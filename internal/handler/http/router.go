package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avialex/AeroMarketGo/internal/access"
	"github.com/avialex/AeroMarketGo/internal/service"
	"github.com/avialex/AeroMarketGo/pkg/health"
	"github.com/avialex/AeroMarketGo/pkg/middleware"
)

// RouterConfig holds the knobs the router needs beyond its handlers.
type RouterConfig struct {
	CORS middleware.CORSConfig

	// LoginRPS limits login and register attempts per client IP.
	LoginRPS   float64
	LoginBurst int

	// PprofEnabled exposes /debug/pprof to the allowed CIDRs.
	PprofEnabled      bool
	PprofAllowedCIDRs []string
}

// NewRouter creates a chi router with all auth service routes registered.
func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing("auth"))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("auth"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	if cfg.PprofEnabled {
		middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)
	}

	// Token validator bridging to the auth service. Authenticate checks
	// signature, expiry, revocation, and live account status, and claims
	// are re-resolved from the live account rather than the token snapshot.
	tokenValidator := func(ctx context.Context, token string) (*middleware.Claims, error) {
		claims, user, err := authService.Authenticate(ctx, token)
		if err != nil {
			return nil, err
		}
		perms := access.ResolvePermissions(user.VerificationLevel, user.Role, user.BusinessType)
		return &middleware.Claims{
			UserID:            user.ID,
			Email:             claims.Email,
			Roles:             []string{string(user.Role)},
			Permissions:       perms.Strings(),
			VerificationLevel: int(user.VerificationLevel),
		}, nil
	}

	authHandler := NewAuthHandler(authService, logger)
	userHandler := NewUserHandler(userService, logger)
	accessHandler := NewAccessHandler(userService, logger)

	// Public auth endpoints. Credential endpoints are rate limited per IP.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.RateLimit(cfg.LoginRPS, cfg.LoginBurst, logger))

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Logout operates on the bearer token itself and succeeds for any
		// structurally valid token, revoked or not.
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))
			r.Get("/verify", authHandler.Verify)

			r.Group(func(r chi.Router) {
				r.Use(ContentTypeJSON)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})
	})

	// Profile endpoints (auth required) and admin account management.
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/me", userHandler.GetProfile)
		r.With(ContentTypeJSON).Put("/me", userHandler.UpdateProfile)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("admin"))

			r.Get("/", userHandler.List)
			r.With(ContentTypeJSON).Put("/{id}/status", userHandler.UpdateStatus)
		})

		// Moderators verify users; admins can too.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission("users:verify"))
			r.With(ContentTypeJSON).Put("/{id}/verification-level", userHandler.UpdateVerificationLevel)
		})
	})

	// Access advisory. /me works for guests as well; /levels is static and
	// cacheable.
	r.Route("/api/v1/access", func(r chi.Router) {
		r.With(middleware.OptionalAuth(tokenValidator)).Get("/me", accessHandler.Me)
		r.With(middleware.CacheControl(300)).Get("/levels", accessHandler.Levels)
	})

	return r
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/avialex/AeroMarketGo/pkg/errors"
	"github.com/avialex/AeroMarketGo/pkg/httputil"
	"github.com/avialex/AeroMarketGo/pkg/logger"
)

type contextKeyType string

const claimsKey contextKeyType = "claims"

// Claims represents the authenticated caller as injected by the auth
// middleware. Roles and permissions reflect live account state, not the
// token snapshot: the validator re-resolves them on every request.
type Claims struct {
	UserID            string   `json:"user_id"`
	Email             string   `json:"email"`
	Roles             []string `json:"roles"`
	Permissions       []string `json:"permissions"`
	VerificationLevel int      `json:"verification_level"`
}

// HasRole reports whether the caller holds the given role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasPermission reports whether the caller holds the given permission grant.
func (c *Claims) HasPermission(grant string) bool {
	for _, p := range c.Permissions {
		if p == grant {
			return true
		}
	}
	return false
}

// TokenValidator validates a bearer token and returns the caller's claims.
// This allows the service to inject its own validation logic, including
// revocation and account-status checks.
type TokenValidator func(ctx context.Context, token string) (*Claims, error)

// Auth middleware validates bearer tokens and injects caller claims into
// the request context. Requests without a valid token are rejected.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing or malformed authorization header")
				return
			}

			claims, err := validate(r.Context(), token)
			if err != nil {
				writeValidatorError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth is like Auth but never rejects: requests without a token, or
// with one that fails validation, proceed with no claims in context and see
// the guest view. Downstream handlers decide what guests may access.
func OptionalAuth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validate(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole middleware checks that the authenticated caller holds at least
// one of the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			for _, role := range roles {
				if claims.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeAuthError(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient role")
		})
	}
}

// RequirePermission middleware checks that the authenticated caller holds
// the given permission grant.
func RequirePermission(grant string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			if !claims.HasPermission(grant) {
				writeAuthError(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireVerificationLevel middleware checks that the authenticated caller
// has at least the given verification level.
func RequireVerificationLevel(min int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			if claims.VerificationLevel < min {
				writeAuthError(w, r, http.StatusForbidden, "VERIFICATION_REQUIRED", "higher verification level required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext extracts the caller claims from the request context, or
// nil when the request is unauthenticated.
func ClaimsFromContext(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(claimsKey).(*Claims); ok {
		return claims
	}
	return nil
}

// UserIDFromContext extracts the caller's user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	return parts[1], true
}

// writeValidatorError maps a validation failure onto its HTTP status: 401
// for bad or revoked tokens, 403 for suspended accounts, 503 when the token
// store cannot be reached.
func writeValidatorError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeAuthError(w, r, appErr.Status, appErr.Code, appErr.Message)
		return
	}
	writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
}

// writeAuthError emits the standard response envelope so middleware
// rejections look the same on the wire as handler errors.
func writeAuthError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	httputil.WriteJSON(w, status, httputil.Response{
		Error: &httputil.ErrorResponse{
			Code:      code,
			Message:   message,
			RequestID: logger.CorrelationIDFromContext(r.Context()),
		},
	})
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/avialex/AeroMarketGo/internal/access"
	"github.com/avialex/AeroMarketGo/internal/domain"
	"github.com/avialex/AeroMarketGo/internal/service"
	"github.com/avialex/AeroMarketGo/pkg/middleware"
)

// AccessHandler serves the access advisory: what the caller can see and do
// at their current verification level, and what each level unlocks. The
// advisory is informational; enforcement happens in the route guards.
type AccessHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewAccessHandler creates a new access advisory handler.
func NewAccessHandler(svc *service.UserService, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{service: svc, logger: logger}
}

// AccessProfile is the advisory response for a single caller.
type AccessProfile struct {
	VerificationLevel int                   `json:"verification_level"`
	LevelName         string                `json:"level_name"`
	Roles             []string              `json:"roles"`
	Permissions       access.PermissionSet  `json:"permissions"`
	Grants            []string              `json:"grants"`
	Visibility        access.VisibilityMask `json:"visibility"`
	VerificationSteps []string              `json:"verification_steps"`
}

// LevelInfo describes one verification level in the public levels table.
type LevelInfo struct {
	Level  int      `json:"level"`
	Name   string   `json:"name"`
	Grants []string `json:"grants"`
}

// Me handles GET /api/v1/access/me. Unauthenticated callers get the guest
// profile, so clients can render public pages with the same code path.
// The owner=true query flag returns the visibility mask a caller gets on
// a listing they own themselves.
func (h *AccessHandler) Me(w http.ResponseWriter, r *http.Request) {
	level := domain.LevelGuest
	role := domain.Role("")
	businessType := domain.BusinessType("")
	var roles []string

	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		user, err := h.service.GetProfile(r.Context(), claims.UserID)
		if err != nil {
			writeAppError(w, r, err, h.logger)
			return
		}
		level = user.VerificationLevel
		role = user.Role
		businessType = user.BusinessType
		roles = []string{string(user.Role)}
	}

	perms := access.ResolvePermissions(level, role, businessType)
	isOwner := r.URL.Query().Get("owner") == "true"

	writeJSON(w, http.StatusOK, response{Data: AccessProfile{
		VerificationLevel: int(level),
		LevelName:         level.String(),
		Roles:             roles,
		Permissions:       perms,
		Grants:            perms.Strings(),
		Visibility:        access.ResolveVisibility(level, isOwner),
		VerificationSteps: access.VerificationSteps(level),
	}})
}

// Levels handles GET /api/v1/access/levels: the static table of what each
// verification level grants to a non-privileged account.
func (h *AccessHandler) Levels(w http.ResponseWriter, r *http.Request) {
	levels := make([]LevelInfo, 0, len(domain.Levels()))
	for _, level := range domain.Levels() {
		levels = append(levels, LevelInfo{
			Level:  int(level),
			Name:   level.String(),
			Grants: grantsForLevel(level),
		})
	}

	requiredByGrant := make(map[string]string, len(access.RequiredLevels()))
	for flag, level := range access.RequiredLevels() {
		requiredByGrant[access.Grant(flag)] = level.String()
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"levels":          levels,
		"required_levels": requiredByGrant,
	}})
}

// grantsForLevel lists the grants the level itself contributes, independent
// of any role.
func grantsForLevel(level domain.VerificationLevel) []string {
	return access.ResolvePermissions(level, "", "").Strings()
}

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avialex/AeroMarketGo/internal/domain"
	"github.com/avialex/AeroMarketGo/internal/service"
	"github.com/avialex/AeroMarketGo/pkg/httputil"
	"github.com/avialex/AeroMarketGo/pkg/middleware"
	"github.com/avialex/AeroMarketGo/pkg/pagination"
	"github.com/avialex/AeroMarketGo/pkg/validator"
)

// UserHandler handles HTTP requests for profile and admin account endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// UpdateProfileRequest is the JSON request body for updating a profile.
type UpdateProfileRequest struct {
	FirstName    *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName     *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	CompanyName  *string `json:"company_name" validate:"omitempty,max=200"`
	Phone        *string `json:"phone" validate:"omitempty,max=20"`
	BusinessType *string `json:"business_type" validate:"omitempty,max=50"`
}

// UpdateStatusRequest is the JSON request body for an admin status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending verified suspended"`
}

// UpdateVerificationLevelRequest is the JSON request body for an admin
// verification level change.
type UpdateVerificationLevelRequest struct {
	Level int `json:"level" validate:"min=0,max=3"`
}

// --- Handlers ---

// GetProfile handles GET /api/v1/users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// UpdateProfile handles PUT /api/v1/users/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := service.UpdateProfileInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CompanyName:  req.CompanyName,
		Phone:        req.Phone,
		BusinessType: req.BusinessType,
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// List handles GET /api/v1/users (admin only).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	users, total, err := h.service.List(r.Context(), params)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: pagination.NewResult(users, total, params)})
}

// UpdateStatus handles PUT /api/v1/users/{id}/status (admin only).
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.UserIDFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.service.UpdateStatus(r.Context(), actorID, targetID, domain.UserStatus(req.Status))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// UpdateVerificationLevel handles PUT /api/v1/users/{id}/verification-level
// (admin only).
func (h *UserHandler) UpdateVerificationLevel(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.UserIDFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	var req UpdateVerificationLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.service.UpdateVerificationLevel(r.Context(), actorID, targetID, domain.VerificationLevel(req.Level))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// --- Shared response helpers ---

// The handlers use the shared envelope types so responses stay identical
// across services.
type (
	response      = httputil.Response
	errorResponse = httputil.ErrorResponse
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	httputil.WriteJSON(w, status, v)
}

func writeAppError(w http.ResponseWriter, r *http.Request, err error, log *slog.Logger) {
	httputil.WriteError(w, r, err, log)
}

func writeValidationError(w http.ResponseWriter, err error) {
	httputil.WriteValidationError(w, err)
}

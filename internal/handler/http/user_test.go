package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avialex/AeroMarketGo/internal/domain"
	"github.com/avialex/AeroMarketGo/internal/event"
	"github.com/avialex/AeroMarketGo/internal/notify"
	redisrepo "github.com/avialex/AeroMarketGo/internal/repository/redis"
	"github.com/avialex/AeroMarketGo/internal/service"
	pkgkafka "github.com/avialex/AeroMarketGo/pkg/kafka"
	"github.com/avialex/AeroMarketGo/pkg/middleware"
)

// ============================================================================
// Profile
// ============================================================================

func TestGetProfile_Success(t *testing.T) {
	env := newTestEnv(t)
	user := sampleBuyer(t)
	access, _ := env.login(t, user, "SecurePass123")

	env.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	rec := env.doJSON(t, http.MethodGet, "/api/v1/users/me", nil, access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestGetProfile_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodGet, "/api/v1/users/me", nil, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeErrorCode(t, rec))
}

// Internal errors are logged through the logger the handler was built with,
// not a process-wide default.
func TestGetProfile_InternalErrorUsesHandlerLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	userRepo := new(mockUserRepository)
	userRepo.On("GetByID", mock.Anything, "user-1").Return(nil, errors.New("connection reset"))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:19092"}), log)
	producer := event.NewProducer(kafkaProducer, log)
	userService := service.NewUserService(userRepo, redisrepo.NewTokenStore(client), producer, notify.NewClient("", log), log)
	handler := NewUserHandler(userService, log)

	wrapped := middleware.Auth(func(ctx context.Context, token string) (*middleware.Claims, error) {
		return &middleware.Claims{UserID: "user-1"}, nil
	})(http.HandlerFunc(handler.GetProfile))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeErrorCode(t, rec))
	assert.Contains(t, buf.String(), "connection reset")
}

func TestUpdateProfile_Success(t *testing.T) {
	env := newTestEnv(t)
	user := sampleBuyer(t)
	access, _ := env.login(t, user, "SecurePass123")

	env.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	env.userRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	rec := env.doJSON(t, http.MethodPut, "/api/v1/users/me", map[string]string{
		"first_name":   "Alicia",
		"company_name": "SkyBroker International",
	}, access)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			FirstName   string `json:"first_name"`
			CompanyName string `json:"company_name"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Alicia", resp.Data.FirstName)
	assert.Equal(t, "SkyBroker International", resp.Data.CompanyName)
	env.userRepo.AssertExpectations(t)
}

func TestUpdateProfile_InvalidBusinessType(t *testing.T) {
	env := newTestEnv(t)
	user := sampleBuyer(t)
	access, _ := env.login(t, user, "SecurePass123")

	env.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	rec := env.doJSON(t, http.MethodPut, "/api/v1/users/me", map[string]string{
		"business_type": "spaceline",
	}, access)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// Admin: list accounts
// ============================================================================

func TestListUsers_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	admin := sampleAdmin(t)
	access, _ := env.login(t, admin, "SecurePass123")

	env.userRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	env.userRepo.On("List", mock.Anything, mock.AnythingOfType("pagination.Params")).
		Return([]domain.User{*sampleBuyer(t)}, 1, nil)

	rec := env.doJSON(t, http.MethodGet, "/api/v1/users/?page=1&per_page=20", nil, access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Data       []json.RawMessage `json:"data"`
			TotalCount int               `json:"total_count"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data.Data, 1)
	assert.Equal(t, 1, resp.Data.TotalCount)
}

func TestListUsers_ForbiddenForBuyer(t *testing.T) {
	env := newTestEnv(t)
	user := sampleBuyer(t)
	access, _ := env.login(t, user, "SecurePass123")

	env.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	rec := env.doJSON(t, http.MethodGet, "/api/v1/users/", nil, access)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ============================================================================
// Admin: status changes
// ============================================================================

func TestUpdateStatus_Suspend(t *testing.T) {
	env := newTestEnv(t)
	admin := sampleAdmin(t)
	target := sampleBuyer(t)
	access, _ := env.login(t, admin, "SecurePass123")

	env.userRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	env.userRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil)
	env.userRepo.On("UpdateStatus", mock.Anything, target.ID, domain.StatusSuspended).Return(nil)

	rec := env.doJSON(t, http.MethodPut, "/api/v1/users/"+target.ID+"/status", map[string]string{
		"status": "suspended",
	}, access)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env.userRepo.AssertExpectations(t)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := sampleAdmin(t)
	access, _ := env.login(t, admin, "SecurePass123")

	env.userRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

	rec := env.doJSON(t, http.MethodPut, "/api/v1/users/"+testUserID+"/status", map[string]string{
		"status": "banned",
	}, access)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_ForbiddenForModerator(t *testing.T) {
	env := newTestEnv(t)
	moderator := sampleBuyer(t)
	moderator.Role = domain.RoleModerator
	access, _ := env.login(t, moderator, "SecurePass123")

	env.userRepo.On("GetByID", mock.Anything, moderator.ID).Return(moderator, nil)

	rec := env.doJSON(t, http.MethodPut, "/api/v1/users/"+testAdminID+"/status", map[string]string{
		"status": "suspended",
	}, access)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ============================================================================
// Verification level
// ============================================================================

func TestUpdateVerificationLevel_ModeratorAllowed(t *testing.T) {
	env := newTestEnv(t)
	moderator := sampleBuyer(t)
	moderator.Role = domain.RoleModerator
	target := sampleAdmin(t)
	target.Role = domain.RoleBuyer
	target.VerificationLevel = domain.LevelRegistered
	access, _ := env.login(t, moderator, "SecurePass123")

	env.userRepo.On("GetByID", mock.Anything, moderator.ID).Return(moderator, nil)
	env.userRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil)
	env.userRepo.On("UpdateVerificationLevel", mock.Anything, target.ID, domain.LevelVerified).Return(nil)

	rec := env.doJSON(t, http.MethodPut, "/api/v1/users/"+target.ID+"/verification-level", map[string]int{
		"level": 2,
	}, access)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env.userRepo.AssertExpectations(t)
}

func TestUpdateVerificationLevel_ForbiddenForBuyer(t *testing.T) {
	env := newTestEnv(t)
	user := sampleBuyer(t)
	access, _ := env.login(t, user, "SecurePass123")

	env.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	rec := env.doJSON(t, http.MethodPut, "/api/v1/users/"+testAdminID+"/verification-level", map[string]int{
		"level": 3,
	}, access)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateVerificationLevel_RejectsOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	moderator := sampleBuyer(t)
	moderator.Role = domain.RoleModerator
	access, _ := env.login(t, moderator, "SecurePass123")

	env.userRepo.On("GetByID", mock.Anything, moderator.ID).Return(moderator, nil)

	rec := env.doJSON(t, http.MethodPut, "/api/v1/users/"+testAdminID+"/verification-level", map[string]int{
		"level": 9,
	}, access)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeErrorCode(t, rec))
}

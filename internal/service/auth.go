package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/avialex/AeroMarketGo/internal/access"
	"github.com/avialex/AeroMarketGo/internal/auth"
	"github.com/avialex/AeroMarketGo/internal/domain"
	"github.com/avialex/AeroMarketGo/internal/event"
	"github.com/avialex/AeroMarketGo/internal/repository"
	apperrors "github.com/avialex/AeroMarketGo/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// AuthService implements registration, login, token lifecycle, and request
// authentication.
type AuthService struct {
	userRepo   repository.UserRepository
	tokenStore repository.TokenStore
	jwtManager *auth.JWTManager
	producer   *event.Producer
	logger     *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenStore repository.TokenStore,
	jwtManager *auth.JWTManager,
	producer *event.Producer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenStore: tokenStore,
		jwtManager: jwtManager,
		producer:   producer,
		logger:     logger,
	}
}

// --- Input types ---

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	CompanyName  string
	Phone        string
	Role         string
	BusinessType string
}

// LoginInput holds the parameters for login.
type LoginInput struct {
	Email    string
	Password string
}

// --- Operations ---

// Register creates a new account, hashes the password, and returns the user
// with an initial token pair. Self-registration is limited to marketplace
// roles; admin and moderator accounts are provisioned out of band.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.TokenPair, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.FirstName == "" {
		return nil, nil, apperrors.InvalidInput("first name is required")
	}
	if input.LastName == "" {
		return nil, nil, apperrors.InvalidInput("last name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	role := domain.Role(input.Role)
	if input.Role == "" {
		role = domain.RoleBuyer
	}
	switch role {
	case domain.RoleBuyer, domain.RoleSeller, domain.RoleBroker:
	case domain.RoleAdmin, domain.RoleModerator:
		return nil, nil, apperrors.InvalidInput("role cannot be self-assigned")
	default:
		return nil, nil, apperrors.InvalidInput("invalid role")
	}

	businessType := domain.BusinessType(input.BusinessType)
	if !domain.IsValidBusinessType(businessType) {
		return nil, nil, apperrors.InvalidInput("invalid business type")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:                uuid.New().String(),
		Email:             input.Email,
		PasswordHash:      string(hashedPassword),
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		CompanyName:       input.CompanyName,
		Phone:             input.Phone,
		Role:              role,
		BusinessType:      businessType,
		Status:            domain.StatusPending,
		VerificationLevel: domain.LevelRegistered,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("role", string(user.Role)),
	)

	return user, tokens, nil
}

// Login authenticates an account by email and password, returning the user
// and a fresh token pair.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, *domain.TokenPair, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	if user.IsSuspended() {
		return nil, nil, apperrors.AccountInactive("account is suspended")
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to record last login",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, tokens, nil
}

// Refresh validates a refresh token and rotates it for a new pair. The
// presented token must byte-match the stored copy; a second use of a rotated
// token fails even though the JWT itself is still within its lifetime.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.InvalidInput("refresh token is required")
	}

	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.TokenExpired()
		}
		return nil, apperrors.TokenInvalid()
	}

	stored, err := s.tokenStore.GetRefresh(ctx, claims.Subject, claims.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.TokenRevoked()
		}
		return nil, apperrors.Unavailable("token store unavailable")
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return nil, apperrors.TokenRevoked()
	}

	// Rotate: the old token is spent regardless of what happens next.
	if err := s.tokenStore.DeleteRefresh(ctx, claims.Subject, claims.ID); err != nil {
		return nil, apperrors.Unavailable("token store unavailable")
	}

	// Reload the user so new claims reflect current role, level, and status.
	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, apperrors.TokenInvalid()
	}

	if user.IsSuspended() {
		return nil, apperrors.AccountInactive("account is suspended")
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "tokens refreshed",
		slog.String("user_id", user.ID),
	)

	return tokens, nil
}

// Logout revokes an access token and its refresh sibling. A refresh token
// from the client's session may be passed as well; its server-side record is
// deleted even when it belongs to an older pair. Logging out twice with the
// same token succeeds both times.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken == "" {
		return apperrors.InvalidInput("access token is required")
	}

	claims, err := s.jwtManager.DecodeAccessToken(accessToken)
	if err != nil {
		return apperrors.TokenInvalid()
	}

	// Blacklist only for the token's remaining life; an already expired
	// token needs no entry.
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.tokenStore.Blacklist(ctx, accessToken, ttl); err != nil {
		return apperrors.Unavailable("token store unavailable")
	}

	if err := s.tokenStore.DeleteRefresh(ctx, claims.Subject, claims.ID); err != nil {
		return apperrors.Unavailable("token store unavailable")
	}

	// An unparseable refresh token has no stored record to delete, so it
	// cannot fail the logout.
	if refreshToken != "" {
		if refreshClaims, err := s.jwtManager.VerifyRefreshToken(refreshToken); err == nil {
			if err := s.tokenStore.DeleteRefresh(ctx, refreshClaims.Subject, refreshClaims.ID); err != nil {
				return apperrors.Unavailable("token store unavailable")
			}
		}
	}

	// Publish logout event (non-blocking on failure).
	if err := s.producer.PublishUserLoggedOut(ctx, claims.Subject); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.logged_out event",
			slog.String("user_id", claims.Subject),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", claims.Subject),
	)

	return nil
}

// Authenticate validates an access token for an incoming request: signature
// and expiry, then the revocation blacklist, then a live account check so a
// suspension takes effect before the token expires.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, *domain.User, error) {
	if accessToken == "" {
		return nil, nil, apperrors.TokenMissing()
	}

	claims, err := s.jwtManager.VerifyAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, nil, apperrors.TokenExpired()
		}
		return nil, nil, apperrors.TokenInvalid()
	}

	revoked, err := s.tokenStore.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, nil, apperrors.Unavailable("token store unavailable")
	}
	if revoked {
		return nil, nil, apperrors.TokenRevoked()
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, nil, apperrors.TokenInvalid()
	}

	if user.IsSuspended() {
		return nil, nil, apperrors.AccountInactive("account is suspended")
	}

	return claims, user, nil
}

// ChangePassword verifies the current password, stores a new hash, and ends
// every session: all refresh tokens for the user are deleted.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return apperrors.InvalidInput("current password is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if currentPassword == newPassword {
		return apperrors.InvalidInput("new password must be different from current password")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user for password change: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	// Force re-login everywhere.
	if err := s.tokenStore.DeleteAllRefresh(ctx, user.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke refresh tokens after password change",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.String("user_id", user.ID),
	)

	return nil
}

// --- Helpers ---

// generateTokenPair issues an access/refresh pair under a shared jti and
// stores the refresh token server-side. Claims snapshot the user's current
// role, permission grants, and verification level.
func (s *AuthService) generateTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	jti := auth.NewTokenID()
	permissions := access.ResolvePermissions(user.VerificationLevel, user.Role, user.BusinessType).Strings()

	accessToken, err := s.jwtManager.GenerateAccessToken(
		user.ID, user.Email,
		[]string{string(user.Role)},
		permissions,
		int(user.VerificationLevel),
		jti,
	)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, jti)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefresh(ctx, user.ID, jti, refreshToken, s.jwtManager.RefreshExpiry()); err != nil {
		return nil, apperrors.Unavailable("token store unavailable")
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessExpiry().Seconds()),
	}, nil
}

// validatePassword checks that the password meets minimum complexity requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}

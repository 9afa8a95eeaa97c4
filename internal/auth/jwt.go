package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Sentinel errors for token verification. Callers distinguish expiry from
// every other failure: an expired access token is the one case a client may
// silently recover from via the refresh flow.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// refreshTokenType is the value of the "type" claim on refresh tokens.
// Access tokens carry no type claim; the asymmetry prevents a refresh token
// from being replayed as an access token and vice versa.
const refreshTokenType = "refresh"

// Claims are the access-token claims. Immutable once issued; the permission
// and role lists are a snapshot at issue time, and enforcement re-resolves
// from live state where freshness matters.
type Claims struct {
	Email             string   `json:"email"`
	Roles             []string `json:"roles"`
	Permissions       []string `json:"permissions"`
	VerificationLevel int      `json:"verification_level"`
	jwt.RegisteredClaims
}

// RefreshClaims are the refresh-token claims: subject, type marker, and the
// jti shared with the access token issued alongside it.
type RefreshClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies access and refresh tokens with a process-wide
// HMAC secret.
type JWTManager struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewJWTManager creates a JWT manager with the given secret and expiry durations.
func NewJWTManager(secret string, accessExpiry, refreshExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// AccessExpiry returns the configured access-token lifetime.
func (m *JWTManager) AccessExpiry() time.Duration {
	return m.accessExpiry
}

// RefreshExpiry returns the configured refresh-token lifetime.
func (m *JWTManager) RefreshExpiry() time.Duration {
	return m.refreshExpiry
}

// NewTokenID generates a fresh jti binding an access/refresh token pair.
func NewTokenID() string {
	return uuid.New().String()
}

// GenerateAccessToken creates a signed access token carrying the subject's
// identity, role list, permission grants, and verification level.
func (m *JWTManager) GenerateAccessToken(userID, email string, roles, permissions []string, verificationLevel int, jti string) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		Email:             email,
		Roles:             roles,
		Permissions:       permissions,
		VerificationLevel: verificationLevel,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessExpiry)),
			ID:        jti,
			Issuer:    "auth-service",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signedToken, nil
}

// GenerateRefreshToken creates a signed refresh token bound to the same jti
// as its access-token sibling. The token is not usable until its server-side
// copy has been stored.
func (m *JWTManager) GenerateRefreshToken(userID, jti string) (string, error) {
	now := time.Now().UTC()
	claims := &RefreshClaims{
		Type: refreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshExpiry)),
			ID:        jti,
			Issuer:    "auth-service",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccessToken parses and validates an access token. Returns
// ErrTokenExpired for expiry and ErrInvalidToken for every other failure.
func (m *JWTManager) VerifyAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, m.keyFunc)
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// VerifyRefreshToken parses and validates a refresh token, including the
// type marker.
func (m *JWTManager) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, m.keyFunc)
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid || claims.Type != refreshTokenType {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// DecodeAccessToken parses an access token without enforcing expiry. Logout
// uses this to compute the remaining blacklist TTL of a structurally valid
// token even when it has just expired.
func (m *JWTManager) DecodeAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, m.keyFunc,
		jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (m *JWTManager) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return m.secret, nil
}

// classifyParseError reduces jwt parse failures to the two sentinel kinds.
func classifyParseError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	}
	return fmt.Errorf("%w: %v", ErrInvalidToken, err)
}

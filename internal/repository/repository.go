package repository

import (
	"context"
	"time"

	"github.com/avialex/AeroMarketGo/internal/domain"
	"github.com/avialex/AeroMarketGo/pkg/pagination"
)

// UserRepository is the credential-store query surface: simple single-row
// operations over user identity records.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email. Lookups are case-insensitive;
	// emails are stored lowercase.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's profile fields and password hash.
	Update(ctx context.Context, user *domain.User) error

	// UpdateStatus changes the account lifecycle status.
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error

	// UpdateVerificationLevel changes the KYC level.
	UpdateVerificationLevel(ctx context.Context, id string, level domain.VerificationLevel) error

	// TouchLastLogin records a successful login timestamp.
	TouchLastLogin(ctx context.Context, id string) error

	// List returns a page of users plus the total count, newest first.
	List(ctx context.Context, params pagination.Params) ([]domain.User, int, error)
}

// TokenStore is the revocation cache: blacklisted access tokens and live
// refresh-token records, all expiry delegated to TTL semantics. Single-key
// operations are atomic; multi-key sequences are not transactional.
type TokenStore interface {
	// StoreRefresh saves the refresh token string under (userID, jti) with
	// the given TTL. This write is what makes the token usable.
	StoreRefresh(ctx context.Context, userID, jti, token string, ttl time.Duration) error

	// GetRefresh returns the stored refresh token for (userID, jti).
	// A missing or expired record yields errors.ErrNotFound.
	GetRefresh(ctx context.Context, userID, jti string) (string, error)

	// DeleteRefresh removes the record. Deleting an absent record is not an error.
	DeleteRefresh(ctx context.Context, userID, jti string) error

	// DeleteAllRefresh removes every refresh record for the user, ending all
	// of their sessions at once.
	DeleteAllRefresh(ctx context.Context, userID string) error

	// Blacklist marks an access token revoked for the given TTL, which must
	// equal the token's remaining natural lifetime so entries never outlive
	// the token itself.
	Blacklist(ctx context.Context, token string, ttl time.Duration) error

	// IsBlacklisted reports whether the access token has been revoked.
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

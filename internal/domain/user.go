package domain

import (
	"time"
)

// UserStatus represents the lifecycle state of a user account.
// Accounts are never deleted, only suspended.
type UserStatus string

const (
	StatusPending   UserStatus = "pending"
	StatusVerified  UserStatus = "verified"
	StatusSuspended UserStatus = "suspended"
)

// IsValidStatus checks whether the given value is a valid account status.
func IsValidStatus(s UserStatus) bool {
	switch s {
	case StatusPending, StatusVerified, StatusSuspended:
		return true
	}
	return false
}

// User represents a registered marketplace participant.
type User struct {
	ID                string            `json:"id"`
	Email             string            `json:"email"`
	PasswordHash      string            `json:"-"`
	FirstName         string            `json:"first_name,omitempty"`
	LastName          string            `json:"last_name,omitempty"`
	CompanyName       string            `json:"company_name,omitempty"`
	Phone             string            `json:"phone,omitempty"`
	Role              Role              `json:"role"`
	BusinessType      BusinessType      `json:"business_type,omitempty"`
	Status            UserStatus        `json:"status"`
	VerificationLevel VerificationLevel `json:"verification_level"`
	LastLoginAt       *time.Time        `json:"last_login_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// IsSuspended reports whether the account has been administratively suspended.
func (u *User) IsSuspended() bool {
	return u.Status == StatusSuspended
}

// TokenPair holds an issued access/refresh token pair. ExpiresIn is the
// access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

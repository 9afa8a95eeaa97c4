package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avialex/AeroMarketGo/internal/domain"
	"github.com/avialex/AeroMarketGo/internal/event"
	"github.com/avialex/AeroMarketGo/internal/notify"
	"github.com/avialex/AeroMarketGo/internal/repository"
	apperrors "github.com/avialex/AeroMarketGo/pkg/errors"
	"github.com/avialex/AeroMarketGo/pkg/pagination"
)

// UserService implements profile management and the admin account operations.
type UserService struct {
	userRepo   repository.UserRepository
	tokenStore repository.TokenStore
	producer   *event.Producer
	notifier   *notify.Client
	logger     *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	tokenStore repository.TokenStore,
	producer *event.Producer,
	notifier *notify.Client,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		tokenStore: tokenStore,
		producer:   producer,
		notifier:   notifier,
		logger:     logger,
	}
}

// UpdateProfileInput holds the parameters for updating a user's profile.
type UpdateProfileInput struct {
	FirstName    *string
	LastName     *string
	CompanyName  *string
	Phone        *string
	BusinessType *string
}

// GetProfile retrieves a user by their ID.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return user, nil
}

// UpdateProfile updates a user's profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}

	if input.FirstName != nil {
		if *input.FirstName == "" {
			return nil, apperrors.InvalidInput("first name must not be empty")
		}
		user.FirstName = *input.FirstName
	}

	if input.LastName != nil {
		if *input.LastName == "" {
			return nil, apperrors.InvalidInput("last name must not be empty")
		}
		user.LastName = *input.LastName
	}

	if input.CompanyName != nil {
		user.CompanyName = *input.CompanyName
	}

	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if input.BusinessType != nil {
		bt := domain.BusinessType(*input.BusinessType)
		if !domain.IsValidBusinessType(bt) {
			return nil, apperrors.InvalidInput("invalid business type")
		}
		user.BusinessType = bt
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user profile updated",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// List returns a page of users plus the total count. Admin only; the caller
// enforces authorization.
func (s *UserService) List(ctx context.Context, params pagination.Params) ([]domain.User, int, error) {
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// UpdateStatus changes an account's lifecycle status. Suspending an account
// also deletes all of its refresh tokens, so sessions cannot be renewed past
// the access-token lifetime.
func (s *UserService) UpdateStatus(ctx context.Context, actorID, userID string, status domain.UserStatus) (*domain.User, error) {
	if !domain.IsValidStatus(status) {
		return nil, apperrors.InvalidInput("invalid status")
	}
	if actorID == userID {
		return nil, apperrors.InvalidInput("cannot change own account status")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for status change: %w", err)
	}

	if user.Status == status {
		return user, nil
	}

	oldStatus := user.Status
	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		return nil, fmt.Errorf("update user status: %w", err)
	}
	user.Status = status

	if status == domain.StatusSuspended {
		if err := s.tokenStore.DeleteAllRefresh(ctx, userID); err != nil {
			s.logger.ErrorContext(ctx, "failed to revoke refresh tokens on suspension",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	// Publish status change event (non-blocking on failure).
	if err := s.producer.PublishUserStatusChanged(ctx, userID, oldStatus, status, actorID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.status_changed event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.notifier.SendStatusChanged(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to send status change notification",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user status changed",
		slog.String("user_id", userID),
		slog.String("old_status", string(oldStatus)),
		slog.String("new_status", string(status)),
		slog.String("changed_by", actorID),
	)

	return user, nil
}

// UpdateVerificationLevel changes an account's KYC level. The new level
// takes effect on the next token issue; outstanding access tokens keep their
// snapshot until they expire or refresh.
func (s *UserService) UpdateVerificationLevel(ctx context.Context, actorID, userID string, level domain.VerificationLevel) (*domain.User, error) {
	if !domain.IsValidVerificationLevel(level) {
		return nil, apperrors.InvalidInput("invalid verification level")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for level change: %w", err)
	}

	if user.VerificationLevel == level {
		return user, nil
	}

	oldLevel := user.VerificationLevel
	if err := s.userRepo.UpdateVerificationLevel(ctx, userID, level); err != nil {
		return nil, fmt.Errorf("update verification level: %w", err)
	}
	user.VerificationLevel = level

	// Publish level change event (non-blocking on failure).
	if err := s.producer.PublishUserVerificationLevelChanged(ctx, user, oldLevel, actorID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.verification_level_changed event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.notifier.SendVerificationLevelChanged(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to send verification level notification",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "verification level changed",
		slog.String("user_id", userID),
		slog.String("old_level", oldLevel.String()),
		slog.String("new_level", level.String()),
		slog.String("changed_by", actorID),
	)

	return user, nil
}

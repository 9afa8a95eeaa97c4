package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avialex/AeroMarketGo/internal/domain"
	pkgkafka "github.com/avialex/AeroMarketGo/pkg/kafka"
)

// Kafka topics for account domain events.
var (
	TopicUserRegistered               = pkgkafka.Topic("user", "registered")
	TopicUserStatusChanged            = pkgkafka.Topic("user", "status_changed")
	TopicUserVerificationLevelChanged = pkgkafka.Topic("user", "verification_level_changed")
	TopicUserLoggedOut                = pkgkafka.Topic("user", "logged_out")
)

// Aggregate type constant.
const AggregateTypeUser = "user"

// Source identifier for events originating from the auth service.
const SourceAuthService = "auth-service"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	CompanyName  string `json:"company_name,omitempty"`
	Role         string `json:"role"`
	BusinessType string `json:"business_type,omitempty"`
}

// UserStatusChangedData is the payload for a user.status_changed event.
type UserStatusChangedData struct {
	UserID    string `json:"user_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by"`
}

// UserVerificationLevelChangedData is the payload for a
// user.verification_level_changed event.
type UserVerificationLevelChangedData struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	OldLevel  string `json:"old_level"`
	NewLevel  string `json:"new_level"`
	ChangedBy string `json:"changed_by"`
}

// UserLoggedOutData is the payload for a user.logged_out event.
type UserLoggedOutData struct {
	UserID string `json:"user_id"`
}

// Producer publishes account domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the auth service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:           user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		CompanyName:  user.CompanyName,
		Role:         string(user.Role),
		BusinessType: string(user.BusinessType),
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, SourceAuthService, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// PublishUserStatusChanged publishes a user.status_changed event.
func (p *Producer) PublishUserStatusChanged(ctx context.Context, userID string, oldStatus, newStatus domain.UserStatus, changedBy string) error {
	data := UserStatusChangedData{
		UserID:    userID,
		OldStatus: string(oldStatus),
		NewStatus: string(newStatus),
		ChangedBy: changedBy,
	}

	event, err := pkgkafka.NewEvent(TopicUserStatusChanged, userID, AggregateTypeUser, SourceAuthService, data)
	if err != nil {
		return fmt.Errorf("create user.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserStatusChanged, event); err != nil {
		return fmt.Errorf("publish user.status_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.status_changed event",
		slog.String("user_id", userID),
		slog.String("new_status", string(newStatus)),
	)

	return nil
}

// PublishUserVerificationLevelChanged publishes a user.verification_level_changed event.
func (p *Producer) PublishUserVerificationLevelChanged(ctx context.Context, user *domain.User, oldLevel domain.VerificationLevel, changedBy string) error {
	data := UserVerificationLevelChangedData{
		UserID:    user.ID,
		Email:     user.Email,
		OldLevel:  oldLevel.String(),
		NewLevel:  user.VerificationLevel.String(),
		ChangedBy: changedBy,
	}

	event, err := pkgkafka.NewEvent(TopicUserVerificationLevelChanged, user.ID, AggregateTypeUser, SourceAuthService, data)
	if err != nil {
		return fmt.Errorf("create user.verification_level_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserVerificationLevelChanged, event); err != nil {
		return fmt.Errorf("publish user.verification_level_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.verification_level_changed event",
		slog.String("user_id", user.ID),
		slog.String("new_level", user.VerificationLevel.String()),
	)

	return nil
}

// PublishUserLoggedOut publishes a user.logged_out event.
func (p *Producer) PublishUserLoggedOut(ctx context.Context, userID string) error {
	data := UserLoggedOutData{UserID: userID}

	event, err := pkgkafka.NewEvent(TopicUserLoggedOut, userID, AggregateTypeUser, SourceAuthService, data)
	if err != nil {
		return fmt.Errorf("create user.logged_out event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserLoggedOut, event); err != nil {
		return fmt.Errorf("publish user.logged_out event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.logged_out event",
		slog.String("user_id", userID),
	)

	return nil
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/avialex/AeroMarketGo/internal/domain"
	"github.com/avialex/AeroMarketGo/pkg/httpclient"
)

// Client posts account notifications to the notification service webhook.
// Calls go through a circuit breaker so a notification outage never stalls
// the admin flows that trigger them.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a notification client for the given base URL. An empty
// base URL disables delivery; Send calls become no-ops.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	inner := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(inner, httpclient.DefaultCircuitBreakerConfig("notification-service"), logger)
	return &Client{
		http:    cb,
		baseURL: baseURL,
		logger:  logger,
	}
}

// verificationChangedPayload is the webhook body for a level change.
type verificationChangedPayload struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	NewLevel string `json:"new_level"`
}

// statusChangedPayload is the webhook body for a status change.
type statusChangedPayload struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	NewStatus string `json:"new_status"`
}

// SendVerificationLevelChanged notifies the user that their verification
// level changed.
func (c *Client) SendVerificationLevelChanged(ctx context.Context, user *domain.User) error {
	if c.baseURL == "" {
		return nil
	}
	payload := verificationChangedPayload{
		UserID:   user.ID,
		Email:    user.Email,
		NewLevel: user.VerificationLevel.String(),
	}
	return c.post(ctx, "/api/v1/notifications/verification-level", payload)
}

// SendStatusChanged notifies the user that their account status changed.
func (c *Client) SendStatusChanged(ctx context.Context, user *domain.User) error {
	if c.baseURL == "" {
		return nil
	}
	payload := statusChangedPayload{
		UserID:    user.ID,
		Email:     user.Email,
		NewStatus: string(user.Status),
	}
	return c.post(ctx, "/api/v1/notifications/account-status", payload)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return httpclient.ParseResponseError(resp, "notification-service")
	}

	return nil
}

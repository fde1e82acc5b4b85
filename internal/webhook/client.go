// Package webhook delivers the final lead payload to the CRM. Two distinct
// transports: a retrying client for the normal triggers and a fire-and-forget
// beacon for abrupt session teardown. They are deliberately not one function.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"leadgate/internal/config"
	leadModels "leadgate/internal/domain/models/lead"
	leadSvc "leadgate/internal/domain/services/lead"
)

// ClientConfig holds the retry budget for normal delivery.
type ClientConfig struct {
	// Attempts is the total number of tries (1 initial + retries).
	Attempts int
	// InitialBackoff is the delay before the first retry; it doubles per
	// subsequent retry.
	InitialBackoff time.Duration
	// RequestTimeout bounds each individual attempt.
	RequestTimeout time.Duration
}

// DefaultClientConfig returns the stock retry budget (3 attempts, 1s then 2s).
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Attempts:       config.DeliveryAttempts,
		InitialBackoff: config.DeliveryBackoff,
		RequestTimeout: 15 * time.Second,
	}
}

// Client sends lead payloads to the CRM webhook with bounded retry and
// exponential backoff. Transport failures and application-level errors
// (non-2xx) are retried identically; the budget is fixed so a closing tab is
// never held hostage by unbounded retries.
type Client struct {
	endpoint   string
	httpClient *http.Client
	cfg        ClientConfig
	logger     *slog.Logger
}

// NewClient creates a delivery client for the given webhook endpoint.
func NewClient(endpoint string, cfg ClientConfig, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:        cfg,
		logger:     logger,
	}
}

var _ leadSvc.DeliveryClient = (*Client)(nil)

// Send posts the payload, retrying up to the configured budget. Returns nil
// on the first 2xx response.
func (c *Client) Send(ctx context.Context, payload *leadModels.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	var lastErr error
	backoff := c.cfg.InitialBackoff

	for attempt := 1; attempt <= c.cfg.Attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return fmt.Errorf("delivery cancelled: %w", ctx.Err())
			}
			backoff *= 2
		}

		lastErr = c.post(ctx, body)
		if lastErr == nil {
			if attempt > 1 {
				c.logger.Info("lead delivery succeeded after retry",
					"session_id", payload.SessionID,
					"attempt", attempt,
				)
			}
			return nil
		}

		c.logger.Warn("lead delivery attempt failed",
			"session_id", payload.SessionID,
			"attempt", attempt,
			"error", lastErr,
		)
	}

	return fmt.Errorf("delivery failed after %d attempts: %w", c.cfg.Attempts, lastErr)
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"leadgate/internal/config"
	leadModels "leadgate/internal/domain/models/lead"
	leadSvc "leadgate/internal/domain/services/lead"
)

// Beacon is the best-effort transport for abrupt session termination. It
// never blocks the caller, makes exactly one attempt with its own detached
// context, and has no response channel: the initiating request may be gone
// before the attempt finishes.
type Beacon struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// NewBeacon creates the teardown transport for the given endpoint.
func NewBeacon(endpoint string, logger *slog.Logger) *Beacon {
	return &Beacon{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: config.BeaconTimeout},
		timeout:    config.BeaconTimeout,
		logger:     logger,
	}
}

var _ leadSvc.BeaconTransport = (*Beacon)(nil)

// Dispatch marshals synchronously (the payload must be captured before the
// session tears down) and posts in the background. Failures are logged, never
// retried.
func (b *Beacon) Dispatch(payload *leadModels.Payload) {
	body, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("beacon payload marshal failed",
			"session_id", payload.SessionID,
			"error", err,
		)
		return
	}

	sessionID := payload.SessionID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
		if err != nil {
			b.logger.Error("beacon request build failed", "session_id", sessionID, "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := b.httpClient.Do(req)
		if err != nil {
			b.logger.Warn("beacon delivery failed", "session_id", sessionID, "error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			b.logger.Warn("beacon delivery rejected",
				"session_id", sessionID,
				"status", resp.StatusCode,
			)
		}
	}()
}

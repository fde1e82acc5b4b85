package lead

import (
	"context"

	"leadgate/internal/domain/models/lead"
)

// OpenSessionRequest opens a new widget session.
type OpenSessionRequest struct {
	Language string `json:"language"`
	Referrer string `json:"referrer"`
	EntryURL string `json:"entry_url"`

	// SiteID comes from the verified embed token, not the request body.
	SiteID string `json:"-"`
}

// TurnRequest submits one inbound user message.
type TurnRequest struct {
	SessionID string `json:"-"`
	Text      string `json:"text"`
}

// TurnResponse carries the assistant's reply back to the widget.
// Notice holds a localized error message when delivery or the upstream
// responder failed; the conversation stays usable either way.
type TurnResponse struct {
	Reply  string     `json:"reply"`
	State  lead.State `json:"state"`
	Notice string     `json:"notice,omitempty"`
}

// SessionService owns the per-session lead-capture pipeline: turn processing,
// extraction, accumulation, progressive persistence, completion detection and
// delivery coordination.
type SessionService interface {
	// Open creates a session and returns its initial snapshot.
	Open(ctx context.Context, req *OpenSessionRequest) (*lead.Session, error)

	// Get returns a snapshot of the session.
	Get(ctx context.Context, sessionID string) (*lead.Session, error)

	// SubmitTurn processes one user message end to end and returns the
	// assistant reply. May trigger final delivery when the intake completes.
	SubmitTurn(ctx context.Context, req *TurnRequest) (*TurnResponse, error)

	// Close handles the visitor dismissing the widget: one last fallback
	// extraction pass, then submission with an abandoned disposition unless
	// another trigger already won.
	Close(ctx context.Context, sessionID string) error

	// Terminate handles abrupt page teardown (beacon). Builds the payload
	// from already-accumulated fields and dispatches it through the
	// best-effort transport without blocking.
	Terminate(ctx context.Context, sessionID string) error
}

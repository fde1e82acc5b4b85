package lead

import (
	"time"
)

// State is the delivery coordinator's session lifecycle state.
// Legal transitions:
//
//	ACTIVE -> AWAITING_RESPONSE -> ACTIVE | RECOVERING
//	RECOVERING -> ACTIVE
//	ACTIVE | AWAITING_RESPONSE | RECOVERING -> SUBMITTING -> SUBMITTED
//
// SUBMITTED is terminal; entering SUBMITTING is guarded so it happens at most
// once per session.
type State string

const (
	StateActive           State = "active"
	StateAwaitingResponse State = "awaiting_response"
	StateRecovering       State = "recovering"
	StateSubmitting       State = "submitting"
	StateSubmitted        State = "submitted"
)

// Disposition classifies how a session ended. Derived, never stored.
type Disposition string

const (
	DispositionInProgress Disposition = "in_progress"
	DispositionCompleted  Disposition = "completed"
	DispositionDeclined   Disposition = "declined"
	DispositionAbandoned  Disposition = "abandoned"
)

// PageContext is captured once when the widget opens.
type PageContext struct {
	SiteID    string    `json:"site_id,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
	EntryURL  string    `json:"entry_url,omitempty"`
	EnteredAt time.Time `json:"entered_at"`
}

// Session is one chat lifetime: transcript, accumulated record and delivery
// state. Once State reaches SUBMITTED the session is inert; further triggers
// are no-ops.
type Session struct {
	ID          string      `json:"id"`
	Language    string      `json:"language"`
	PageContext PageContext `json:"page_context"`
	Transcript  Transcript  `json:"transcript"`
	Record      Record      `json:"record"`
	State       State       `json:"state"`
	StartedAt   time.Time   `json:"started_at"`
}

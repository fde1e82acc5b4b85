package lead

import (
	"time"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn represents a single message in a conversation. Immutable once created.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Transcript is the ordered, append-only sequence of turns for one session.
type Transcript []Turn

// LastAssistant returns the most recent assistant turn, or nil if none exists.
func (t Transcript) LastAssistant() *Turn {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Role == RoleAssistant {
			return &t[i]
		}
	}
	return nil
}

// Clone returns a copy of the transcript safe to hand outside the session lock.
func (t Transcript) Clone() Transcript {
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

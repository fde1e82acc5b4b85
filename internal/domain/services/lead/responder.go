package lead

import (
	"context"

	"leadgate/internal/domain/models/lead"
)

// ResponderRequest is the opaque request to the upstream conversational
// responder.
type ResponderRequest struct {
	SessionID  string
	UserText   string
	Transcript lead.Transcript
	Language   string
}

// ResponderResponse is the responder's reply. Tags are optional structured
// field tags (record field name -> value); when absent the fallback extractor
// mines the transcript instead.
type ResponderResponse struct {
	Reply    string
	Tags     map[string]string
	Language string
}

// Responder generates assistant replies. Implementations are opaque to the
// pipeline; only the reply text and structured tags matter.
type Responder interface {
	Name() string
	Generate(ctx context.Context, req *ResponderRequest) (*ResponderResponse, error)
}

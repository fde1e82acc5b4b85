package lead

import (
	"context"

	"leadgate/internal/domain/models/lead"
)

// DeliveryClient sends the final payload to the CRM webhook with bounded
// retry. Used for turn-completion, timeout and explicit-close triggers.
type DeliveryClient interface {
	Send(ctx context.Context, payload *lead.Payload) error
}

// BeaconTransport is the best-effort fire-and-forget path for abrupt session
// termination. Dispatch must not block and has no response channel; a failed
// attempt is logged and never retried.
type BeaconTransport interface {
	Dispatch(payload *lead.Payload)
}

package config

import "time"

const (
	// MaxTurnTextLength caps a single inbound message. Longer messages
	// indicate paste abuse; the widget enforces a smaller limit client-side.
	MaxTurnTextLength = 4000

	// MaxLanguageCodeLength bounds the requested language code.
	MaxLanguageCodeLength = 8

	// MinPhoneDigits is the minimum digit count for a plausible phone
	// number after stripping non-digits.
	MinPhoneDigits = 7

	// InactivityTimeout is how long a session may sit quiet with a
	// non-empty record before it is submitted as abandoned.
	InactivityTimeout = 120 * time.Second

	// RecoveryGrace suppresses the inactivity timer after a failed network
	// round-trip so a transient blip does not trigger a premature
	// abandonment submission.
	RecoveryGrace = 5 * time.Second

	// DeliveryAttempts is the total number of CRM webhook attempts
	// (1 initial + 2 retries).
	DeliveryAttempts = 3

	// DeliveryBackoff is the initial retry delay; it doubles per attempt
	// (1s, 2s).
	DeliveryBackoff = 1 * time.Second

	// BeaconTimeout bounds the single best-effort delivery attempt on
	// session teardown.
	BeaconTimeout = 10 * time.Second
)

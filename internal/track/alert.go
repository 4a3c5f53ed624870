package track

import "context"

// Alerter delivers a notification over an external messaging channel.
// Network, auth, and retry concerns belong to the implementation; the core
// only needs the capability. Delivery failure is never fatal to a submission:
// the record is already committed by the time an alert is attempted.
type Alerter interface {
	// Dispatch attempts delivery of text and reports whether it succeeded.
	// A false return with nil error means the channel declined the message
	// (for example a no-op dispatcher with no credentials configured).
	Dispatch(ctx context.Context, text string) (bool, error)
}

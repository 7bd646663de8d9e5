// Package messaging holds the outbound side of the engine: per-channel
// message gateways and the fire-and-forget notification sink.
package messaging

import "context"

// Gateway sends one text message to one recipient. The recipient is a phone
// number in E.164 form for SMS/WhatsApp and an address for email. This is the
// only sanctioned network side effect the engine triggers.
type Gateway interface {
	Send(ctx context.Context, recipient, text string) error
}

// Notifier is the alert sink for batch summaries. Implementations must never
// block the engine: failures are swallowed by the caller.
type Notifier interface {
	Notify(ctx context.Context, kind, title, message string)
}

// Package events defines the change events emitted after core mutations so
// presentation layers can observe state instead of polling after every call.
package events

import "context"

// Subjects for published events.
const (
	SubjectSaleCompleted  = "pos.sale.completed"
	SubjectCatalogChanged = "pos.catalog.changed"
	SubjectFloatChanged   = "pos.register.float_changed"
)

// Event is a publishable change notification.
type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

// Publisher delivers events to interested observers. Publishing is
// best-effort: failures are logged by callers, never propagated to the
// mutation that triggered the event.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}

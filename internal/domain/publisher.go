package domain

import (
	"context"
	"fmt"
)

// EventPublisher hands events to the bus. A nil error means the event was
// enqueued, not that any handler has run.
type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
	// PublishAll publishes in order and stops at the first failure. Events
	// enqueued before the failure stay enqueued.
	PublishAll(ctx context.Context, events []Event) error
}

type EventSubscriber interface {
	Subscribe(h EventHandler) error
}

// EventRecorder is the part of an aggregate PublishAndClear needs.
type EventRecorder interface {
	Events() []Event
	RecordEvent(e Event)
	CleanEvents()
}

// PublishAndClear drains the aggregate's uncommitted events and publishes
// them in recording order. If publishing fails part way, the events that were
// not enqueued are recorded back on the aggregate so a later call can retry
// them without re-sending the ones already on the bus.
//
// Use cases call it after the aggregate has been persisted.
func PublishAndClear(ctx context.Context, pub EventPublisher, agg EventRecorder) error {
	pending := agg.Events()
	agg.CleanEvents()

	for i, e := range pending {
		if err := pub.Publish(ctx, e); err != nil {
			for _, rest := range pending[i:] {
				agg.RecordEvent(rest)
			}
			return fmt.Errorf("publish %s: %w", e, err)
		}
	}
	return nil
}

package eventlog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pubhub/internal/domain"
)

// Filter narrows Find. Zero fields do not filter.
type Filter struct {
	Topic string
	Code  string
	From  time.Time
	To    time.Time
	Limit int
}

// Repository is the durable event log plus the per-handler acknowledgment
// ledger. Every method joins the transaction carried by ctx.
type Repository interface {
	// Append stores events in order. Events without an identity get a new
	// one; the returned slice carries the stored identities.
	Append(ctx context.Context, events []domain.Event) ([]domain.Event, error)
	// Audit logs an event that has already been dispatched. Audited events
	// are searchable through Find but never offered for recovery.
	Audit(ctx context.Context, e domain.Event) error
	// Find returns matching events in insertion order.
	Find(ctx context.Context, f Filter) ([]domain.Event, error)
	Acknowledge(ctx context.Context, eventID uuid.UUID, handler string) error
	Acknowledged(ctx context.Context, eventID uuid.UUID, handler string) (bool, error)
	// Unacknowledged returns the appended (not audited) events logged at or
	// after since that handler has not acknowledged, in insertion order.
	Unacknowledged(ctx context.Context, handler string, since time.Time) ([]domain.Event, error)
}

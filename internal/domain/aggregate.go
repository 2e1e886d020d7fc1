package domain

import "time"

// AggregateRoot is embedded by every aggregate. It carries the identity, the
// bookkeeping timestamps and the list of uncommitted events.
//
// The event list only grows through RecordEvent and only shrinks through
// CleanEvents; nothing inside the aggregate clears it. Use cases hand it to
// PublishAndClear once the aggregate has been persisted.
type AggregateRoot[ID comparable] struct {
	id        ID
	createdAt time.Time
	updatedAt *time.Time
	deletedAt *time.Time
	events    []Event
}

func NewAggregateRoot[ID comparable](id ID) AggregateRoot[ID] {
	return AggregateRoot[ID]{
		id:        id,
		createdAt: time.Now().UTC(),
	}
}

// RestoreAggregateRoot rebuilds the root of a persisted aggregate. Restored
// aggregates start without uncommitted events.
func RestoreAggregateRoot[ID comparable](id ID, createdAt time.Time, updatedAt, deletedAt *time.Time) AggregateRoot[ID] {
	return AggregateRoot[ID]{
		id:        id,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (a *AggregateRoot[ID]) ID() ID                { return a.id }
func (a *AggregateRoot[ID]) CreatedAt() time.Time  { return a.createdAt }
func (a *AggregateRoot[ID]) UpdatedAt() *time.Time { return a.updatedAt }
func (a *AggregateRoot[ID]) DeletedAt() *time.Time { return a.deletedAt }
func (a *AggregateRoot[ID]) IsDeleted() bool       { return a.deletedAt != nil }

// Touch sets the updated-at marker to now.
func (a *AggregateRoot[ID]) Touch() {
	now := time.Now().UTC()
	a.updatedAt = &now
}

// MarkDeleted soft-deletes the aggregate. Aggregates are never removed.
func (a *AggregateRoot[ID]) MarkDeleted() {
	now := time.Now().UTC()
	a.deletedAt = &now
	a.updatedAt = &now
}

// RecordEvent appends e to the uncommitted events.
func (a *AggregateRoot[ID]) RecordEvent(e Event) {
	a.events = append(a.events, e)
}

// Record converts a domain event variant to its wire form and records it.
func (a *AggregateRoot[ID]) Record(de DomainEvent) error {
	e, err := de.ToEvent()
	if err != nil {
		return err
	}
	a.RecordEvent(e)
	return nil
}

// Events returns a copy of the uncommitted events in recording order.
func (a *AggregateRoot[ID]) Events() []Event {
	out := make([]Event, len(a.events))
	copy(out, a.events)
	return out
}

func (a *AggregateRoot[ID]) CleanEvents() {
	a.events = nil
}

// Clone copies the root without its uncommitted events, so a copy made for a
// read-only projection can never publish them a second time.
func (a *AggregateRoot[ID]) Clone() AggregateRoot[ID] {
	c := AggregateRoot[ID]{
		id:        a.id,
		createdAt: a.createdAt,
	}
	if a.updatedAt != nil {
		t := *a.updatedAt
		c.updatedAt = &t
	}
	if a.deletedAt != nil {
		t := *a.deletedAt
		c.deletedAt = &t
	}
	return c
}

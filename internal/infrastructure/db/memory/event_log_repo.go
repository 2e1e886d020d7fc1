package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pubhub/internal/domain"
	"pubhub/internal/domain/eventlog"
)

var _ eventlog.Repository = (*EventLogRepository)(nil)

type ackKey struct {
	eventID uuid.UUID
	handler string
}

type EventLogRepository struct {
	mu      sync.RWMutex
	events  []domain.Event
	index   map[uuid.UUID]struct{}
	audited map[uuid.UUID]struct{}
	acks    map[ackKey]time.Time
}

func NewEventLogRepository() *EventLogRepository {
	return &EventLogRepository{
		index:   make(map[uuid.UUID]struct{}),
		audited: make(map[uuid.UUID]struct{}),
		acks:    make(map[ackKey]time.Time),
	}
}

// Append ignores events whose identity is already logged.
func (r *EventLogRepository) Append(_ context.Context, events []domain.Event) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if !e.Persisted() {
			e = e.WithID(uuid.New())
		}
		out = append(out, e)
		if _, ok := r.index[e.ID()]; ok {
			continue
		}
		r.index[e.ID()] = struct{}{}
		r.events = append(r.events, e)
	}
	return out, nil
}

func (r *EventLogRepository) Audit(_ context.Context, e domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !e.Persisted() {
		e = e.WithID(uuid.New())
	}
	if _, ok := r.index[e.ID()]; ok {
		return nil
	}
	r.index[e.ID()] = struct{}{}
	r.audited[e.ID()] = struct{}{}
	r.events = append(r.events, e)
	return nil
}

func (r *EventLogRepository) Find(_ context.Context, f eventlog.Filter) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var res []domain.Event
	for _, e := range r.events {
		if !matches(e, f) {
			continue
		}
		res = append(res, e)
		if f.Limit > 0 && len(res) == f.Limit {
			break
		}
	}
	return res, nil
}

func matches(e domain.Event, f eventlog.Filter) bool {
	switch {
	case f.Topic != "" && e.Topic() != f.Topic:
		return false
	case f.Code != "" && e.Code() != f.Code:
		return false
	case !f.From.IsZero() && e.Timestamp().Before(f.From):
		return false
	case !f.To.IsZero() && e.Timestamp().After(f.To):
		return false
	}
	return true
}

func (r *EventLogRepository) Acknowledge(_ context.Context, eventID uuid.UUID, handler string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[eventID]; !ok {
		return domain.NotFound("event not found")
	}
	k := ackKey{eventID: eventID, handler: handler}
	if _, ok := r.acks[k]; !ok {
		r.acks[k] = time.Now().UTC()
	}
	return nil
}

func (r *EventLogRepository) Acknowledged(_ context.Context, eventID uuid.UUID, handler string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.acks[ackKey{eventID: eventID, handler: handler}]
	return ok, nil
}

func (r *EventLogRepository) Unacknowledged(_ context.Context, handler string, since time.Time) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var res []domain.Event
	for _, e := range r.events {
		if e.Timestamp().Before(since) {
			continue
		}
		if _, ok := r.audited[e.ID()]; ok {
			continue
		}
		if _, ok := r.acks[ackKey{eventID: e.ID(), handler: handler}]; ok {
			continue
		}
		res = append(res, e)
	}
	return res, nil
}

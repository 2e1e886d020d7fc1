package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the wire envelope every bounded context publishes when its state
// changes. Topic is the coarse category (the module name), Code the variant.
// The payload is opaque to the bus; producers and consumers agree on the
// encoding (JSON throughout this repository).
//
// Events are immutable. An identity is only present once the event has been
// written to the durable event log.
type Event struct {
	id        uuid.UUID
	topic     string
	code      string
	timestamp time.Time
	payload   []byte
}

// NewEvent creates an in-flight event stamped with the current time.
func NewEvent(topic, code string, payload []byte) Event {
	return Event{
		topic:     topic,
		code:      code,
		timestamp: time.Now().UTC(),
		payload:   clonePayload(payload),
	}
}

// EncodeEvent creates an event whose payload is the JSON encoding of v.
func EncodeEvent(topic, code string, v any) (Event, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s.%s payload: %w", topic, code, err)
	}
	return NewEvent(topic, code, payload), nil
}

// RestoreEvent rebuilds an event read back from the durable log.
func RestoreEvent(id uuid.UUID, topic, code string, ts time.Time, payload []byte) Event {
	return Event{
		id:        id,
		topic:     topic,
		code:      code,
		timestamp: ts,
		payload:   clonePayload(payload),
	}
}

func (e Event) Topic() string        { return e.topic }
func (e Event) Code() string         { return e.code }
func (e Event) Timestamp() time.Time { return e.timestamp }
func (e Event) ID() uuid.UUID        { return e.id }

// Payload returns a copy of the raw payload bytes. It is never nil; an event
// without a payload has an empty one.
func (e Event) Payload() []byte { return clonePayload(e.payload) }

func clonePayload(p []byte) []byte {
	if p == nil {
		return []byte{}
	}
	return bytes.Clone(p)
}

// Persisted reports whether the event carries a durable log identity.
func (e Event) Persisted() bool { return e.id != uuid.Nil }

// WithID returns a copy of the event carrying the given log identity.
func (e Event) WithID(id uuid.UUID) Event {
	e.id = id
	e.payload = clonePayload(e.payload)
	return e
}

func (e Event) String() string {
	return e.topic + "." + e.code
}

// DecodePayload decodes the JSON payload of e into a T. Decoding failures are
// wrapped with ErrMalformedPayload.
func DecodePayload[T any](e Event) (T, error) {
	var v T
	if err := json.Unmarshal(e.payload, &v); err != nil {
		return v, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, e, err)
	}
	return v, nil
}

// DomainEvent is a module-specific event variant that knows its wire form.
type DomainEvent interface {
	ToEvent() (Event, error)
}

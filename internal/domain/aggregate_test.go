package domain_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"pubhub/internal/domain"
)

type thing struct {
	domain.AggregateRoot[string]
	Name string
}

func (t *thing) Clone() *thing {
	c := *t
	c.AggregateRoot = t.AggregateRoot.Clone()
	return &c
}

type renamed struct {
	Name string `json:"name"`
}

func (r renamed) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent("thing", "renamed", r)
}

func TestRecordAndCleanEvents(t *testing.T) {
	th := &thing{AggregateRoot: domain.NewAggregateRoot("t1")}

	th.RecordEvent(domain.NewEvent("thing", "created", nil))
	if err := th.Record(renamed{Name: "b"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	evs := th.Events()
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Code() != "created" || evs[1].Code() != "renamed" {
		t.Fatalf("unexpected order: %v", evs)
	}
	if string(evs[1].Payload()) != `{"name":"b"}` {
		t.Fatalf("unexpected payload %s", evs[1].Payload())
	}

	th.CleanEvents()
	if len(th.Events()) != 0 {
		t.Fatalf("events not cleaned")
	}
}

func TestEventsReturnsCopy(t *testing.T) {
	th := &thing{AggregateRoot: domain.NewAggregateRoot("t1")}
	th.RecordEvent(domain.NewEvent("thing", "created", nil))

	evs := th.Events()
	evs[0] = domain.NewEvent("other", "x", nil)

	if th.Events()[0].Topic() != "thing" {
		t.Fatalf("Events exposed internal slice")
	}
}

func TestCloneDropsUncommittedEvents(t *testing.T) {
	th := &thing{AggregateRoot: domain.NewAggregateRoot("t1"), Name: "a"}
	for i := 0; i < 5; i++ {
		th.RecordEvent(domain.NewEvent("thing", "touched", nil))
	}
	th.MarkDeleted()

	c := th.Clone()
	if len(c.Events()) != 0 {
		t.Fatalf("clone carried %d events", len(c.Events()))
	}
	if len(th.Events()) != 5 {
		t.Fatalf("original lost its events")
	}
	if c.ID() != "t1" || c.Name != "a" || !c.IsDeleted() {
		t.Fatalf("clone lost state: %+v", c)
	}
	if c.DeletedAt() == th.DeletedAt() {
		t.Fatalf("clone shares deleted-at pointer")
	}
}

func TestEventPayloadIsImmutable(t *testing.T) {
	raw := []byte(`{"a":1}`)
	e := domain.NewEvent("t", "c", raw)
	raw[0] = 'x'

	p := e.Payload()
	p[1] = 'y'

	if !bytes.Equal(e.Payload(), []byte(`{"a":1}`)) {
		t.Fatalf("payload mutated: %s", e.Payload())
	}
	if e.Persisted() {
		t.Fatalf("in-flight event must not carry an id")
	}

	id := uuid.New()
	persisted := e.WithID(id)
	if !persisted.Persisted() || persisted.ID() != id || e.Persisted() {
		t.Fatalf("WithID must return an identified copy")
	}
}

func TestNilPayloadIsEmpty(t *testing.T) {
	e := domain.NewEvent("thing", "touched", nil)
	if p := e.Payload(); p == nil || len(p) != 0 {
		t.Fatalf("expected empty non-nil payload, got %#v", p)
	}

	restored := domain.RestoreEvent(uuid.New(), "thing", "touched", e.Timestamp(), nil)
	if restored.Payload() == nil || restored.WithID(uuid.New()).Payload() == nil {
		t.Fatalf("restored event must carry an empty payload")
	}
}

func TestDecodePayloadMalformed(t *testing.T) {
	e := domain.NewEvent("thing", "renamed", []byte("not json"))
	_, err := domain.DecodePayload[renamed](e)
	if !errors.Is(err, domain.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}

	ok := domain.NewEvent("thing", "renamed", []byte(`{"name":"z"}`))
	r, err := domain.DecodePayload[renamed](ok)
	if err != nil || r.Name != "z" {
		t.Fatalf("decode: %v %+v", err, r)
	}
}

type flakyPublisher struct {
	failAt    int
	published []domain.Event
}

func (p *flakyPublisher) Publish(ctx context.Context, e domain.Event) error {
	if len(p.published) == p.failAt {
		return errors.New("queue closed")
	}
	p.published = append(p.published, e)
	return nil
}

func (p *flakyPublisher) PublishAll(ctx context.Context, events []domain.Event) error {
	for _, e := range events {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func TestPublishAndClear(t *testing.T) {
	th := &thing{AggregateRoot: domain.NewAggregateRoot("t1")}
	th.RecordEvent(domain.NewEvent("thing", "a", nil))
	th.RecordEvent(domain.NewEvent("thing", "b", nil))

	pub := &flakyPublisher{failAt: -1}
	if err := domain.PublishAndClear(context.Background(), pub, th); err != nil {
		t.Fatalf("PublishAndClear: %v", err)
	}
	if len(pub.published) != 2 || len(th.Events()) != 0 {
		t.Fatalf("published=%d remaining=%d", len(pub.published), len(th.Events()))
	}
}

func TestPublishAndClearKeepsUnpublishedTail(t *testing.T) {
	th := &thing{AggregateRoot: domain.NewAggregateRoot("t1")}
	th.RecordEvent(domain.NewEvent("thing", "a", nil))
	th.RecordEvent(domain.NewEvent("thing", "b", nil))
	th.RecordEvent(domain.NewEvent("thing", "c", nil))

	pub := &flakyPublisher{failAt: 1}
	if err := domain.PublishAndClear(context.Background(), pub, th); err == nil {
		t.Fatalf("expected error")
	}

	left := th.Events()
	if len(left) != 2 || left[0].Code() != "b" || left[1].Code() != "c" {
		t.Fatalf("unexpected remaining events: %v", left)
	}
}

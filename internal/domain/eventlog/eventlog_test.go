package eventlog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pubhub/internal/domain"
	"pubhub/internal/domain/eventlog"
)

// logFake is a minimal in-memory log for exercising the handlers.
type logFake struct {
	mu      sync.Mutex
	events  []domain.Event
	audited map[uuid.UUID]bool
	acks    map[string]bool
}

func newLogFake() *logFake {
	return &logFake{audited: map[uuid.UUID]bool{}, acks: map[string]bool{}}
}

func ackKey(id uuid.UUID, handler string) string { return id.String() + "/" + handler }

func (l *logFake) Append(ctx context.Context, events []domain.Event) ([]domain.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if !e.Persisted() {
			e = e.WithID(uuid.New())
		}
		l.events = append(l.events, e)
		out = append(out, e)
	}
	return out, nil
}

func (l *logFake) Audit(ctx context.Context, e domain.Event) error {
	out, _ := l.Append(ctx, []domain.Event{e})
	l.mu.Lock()
	defer l.mu.Unlock()
	l.audited[out[0].ID()] = true
	return nil
}

func (l *logFake) Find(ctx context.Context, f eventlog.Filter) ([]domain.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var res []domain.Event
	for _, e := range l.events {
		if f.Topic != "" && e.Topic() != f.Topic {
			continue
		}
		res = append(res, e)
	}
	if f.Limit > 0 && len(res) > f.Limit {
		res = res[:f.Limit]
	}
	return res, nil
}

func (l *logFake) Acknowledge(ctx context.Context, id uuid.UUID, handler string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acks[ackKey(id, handler)] = true
	return nil
}

func (l *logFake) Acknowledged(ctx context.Context, id uuid.UUID, handler string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acks[ackKey(id, handler)], nil
}

func (l *logFake) Unacknowledged(ctx context.Context, handler string, since time.Time) ([]domain.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var res []domain.Event
	for _, e := range l.events {
		if e.Timestamp().Before(since) || l.audited[e.ID()] || l.acks[ackKey(e.ID(), handler)] {
			continue
		}
		res = append(res, e)
	}
	return res, nil
}

type publisherFake struct{ events []domain.Event }

func (p *publisherFake) Publish(ctx context.Context, e domain.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *publisherFake) PublishAll(ctx context.Context, events []domain.Event) error {
	p.events = append(p.events, events...)
	return nil
}

func TestAuditorSkipsJournaledEvents(t *testing.T) {
	repo := newLogFake()
	a := eventlog.NewAuditor(repo)
	ctx := context.Background()

	handled, err := a.Handle(ctx, domain.NewEvent("user", "registered", []byte(`{}`)))
	if err != nil || !handled {
		t.Fatalf("in-flight event: handled=%v err=%v", handled, err)
	}
	handled, err = a.Handle(ctx, domain.NewEvent("donation", "paid", nil).WithID(uuid.New()))
	if err != nil || handled {
		t.Fatalf("journaled event: handled=%v err=%v", handled, err)
	}
	if len(repo.events) != 1 || !repo.events[0].Persisted() {
		t.Fatalf("expected one identified entry, got %d", len(repo.events))
	}
}

func TestAcknowledgingRecordsOncePerHandler(t *testing.T) {
	repo := newLogFake()
	calls := 0
	fail := false
	inner := domain.NewHandler("^donation$", func(ctx context.Context, e domain.Event) (bool, error) {
		calls++
		if fail {
			return false, errors.New("boom")
		}
		return true, nil
	})
	h := eventlog.Acknowledging("reports.revenue", inner, repo)
	ctx := context.Background()

	if h.Topic() != "^donation$" {
		t.Fatalf("decorator must keep the topic")
	}

	failing := domain.NewEvent("donation", "paid", nil).WithID(uuid.New())
	fail = true
	if _, err := h.Handle(ctx, failing); err == nil {
		t.Fatalf("expected error")
	}
	if ok, _ := repo.Acknowledged(ctx, failing.ID(), "reports.revenue"); ok {
		t.Fatalf("failed handling must not be acknowledged")
	}

	fail = false
	e := domain.NewEvent("donation", "paid", nil).WithID(uuid.New())
	if handled, err := h.Handle(ctx, e); err != nil || !handled {
		t.Fatalf("first delivery: handled=%v err=%v", handled, err)
	}
	if handled, err := h.Handle(ctx, e); err != nil || handled {
		t.Fatalf("redelivery: handled=%v err=%v", handled, err)
	}
	if calls != 2 {
		t.Fatalf("expected inner handler to run twice (fail + first), ran %d", calls)
	}

	if _, err := h.Handle(ctx, domain.NewEvent("donation", "paid", nil)); err != nil {
		t.Fatalf("in-flight event: %v", err)
	}
	if calls != 3 || len(repo.acks) != 1 {
		t.Fatalf("in-flight events pass through unacknowledged: calls=%d acks=%d", calls, len(repo.acks))
	}
}

func TestRecovererRepublishesMissingEventsOnce(t *testing.T) {
	repo := newLogFake()
	pub := &publisherFake{}
	ctx := context.Background()

	logged, _ := repo.Append(ctx, []domain.Event{
		domain.NewEvent("donation", "created", nil),
		domain.NewEvent("donation", "paid", nil),
		domain.NewEvent("donation", "cancelled", nil),
	})
	_ = repo.Acknowledge(ctx, logged[0].ID(), "reports.revenue")
	_ = repo.Acknowledge(ctx, logged[0].ID(), "notification.notifier")
	_ = repo.Acknowledge(ctx, logged[1].ID(), "reports.revenue")

	r := eventlog.NewRecoverer(repo, pub, time.Hour, zap.NewNop(), "reports.revenue", "notification.notifier")
	n, err := r.Recover(ctx)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if n != 2 || len(pub.events) != 2 {
		t.Fatalf("expected 2 republished, got n=%d published=%d", n, len(pub.events))
	}
	if pub.events[0].ID() != logged[1].ID() || pub.events[1].ID() != logged[2].ID() {
		t.Fatalf("republished out of order")
	}
}

func TestRecovererIgnoresAuditedEvents(t *testing.T) {
	repo := newLogFake()
	pub := &publisherFake{}
	ctx := context.Background()

	a := eventlog.NewAuditor(repo)
	if _, err := a.Handle(ctx, domain.NewEvent("user", "followed", []byte(`{}`))); err != nil {
		t.Fatalf("audit: %v", err)
	}

	r := eventlog.NewRecoverer(repo, pub, time.Hour, zap.NewNop(), "notification.notifier")
	if n, err := r.Recover(ctx); err != nil || n != 0 {
		t.Fatalf("audited events were dispatched already: n=%d err=%v", n, err)
	}
}

func TestRecovererHonoursWindow(t *testing.T) {
	repo := newLogFake()
	pub := &publisherFake{}
	ctx := context.Background()

	old := domain.RestoreEvent(uuid.New(), "donation", "paid", time.Now().Add(-2*time.Hour), nil)
	_, _ = repo.Append(ctx, []domain.Event{old})

	r := eventlog.NewRecoverer(repo, pub, time.Hour, zap.NewNop(), "reports.revenue")
	if n, err := r.Recover(ctx); err != nil || n != 0 {
		t.Fatalf("events outside the window must be left alone: n=%d err=%v", n, err)
	}
}

func TestServiceFindClampsLimit(t *testing.T) {
	repo := newLogFake()
	ctx := context.Background()
	for i := 0; i < 150; i++ {
		_, _ = repo.Append(ctx, []domain.Event{domain.NewEvent("user", "updated", nil)})
	}
	svc := eventlog.NewService(repo)

	got, err := svc.Find(ctx, eventlog.Filter{})
	if err != nil || len(got) != 100 {
		t.Fatalf("default limit: got %d (%v)", len(got), err)
	}

	now := time.Now()
	_, err = svc.Find(ctx, eventlog.Filter{From: now, To: now.Add(-time.Minute)})
	var de *domain.DomainError
	if !errors.As(err, &de) || de.Code != domain.ErrorCodeInvalid {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}

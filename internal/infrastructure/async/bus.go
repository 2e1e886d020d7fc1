package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	regexp "github.com/wasilibs/go-re2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"pubhub/internal/domain"
)

var (
	ErrBusNotRunning       = errors.New("event bus is not running")
	ErrBusStopped          = errors.New("event bus is stopped")
	ErrBusAlreadyRunning   = errors.New("event bus is already running")
	ErrInvalidTopicPattern = errors.New("invalid topic pattern")
)

const instrumentationName = "pubhub/eventbus"

type busState int

const (
	stateIdle busState = iota
	stateRunning
	stateStopped
)

type messageKind int

const (
	msgEvent messageKind = iota
	msgSubscribe
	msgFlush
	msgShutdown
)

// message is the single inbox entry type. Shutdown is its own kind so no
// topic or code value is reserved.
type message struct {
	kind    messageKind
	event   domain.Event
	sub     *subscription
	flushed chan struct{}
}

type subscription struct {
	handler domain.EventHandler
	pattern *regexp.Regexp
	name    string
}

// Bus is the in-process event bus. One dispatcher goroutine owns the handler
// registrations and consumes the inbox, so handlers never run concurrently
// with each other and every event is fully fanned out before the next one is
// dequeued. Publishing is safe from any number of goroutines and never waits
// on handlers: the inbox is unbounded.
type Bus struct {
	log            *zap.Logger
	tracer         trace.Tracer
	handlerTimeout time.Duration

	// mu serialises lifecycle transitions with enqueueing so that the
	// shutdown message is always the last one in the inbox.
	mu      sync.RWMutex
	state   busState
	initial []subscription

	// The inbox is a FIFO slice. Producers append under qmu and signal wake;
	// the dispatcher takes the whole backlog at once.
	qmu     sync.Mutex
	queue   []message
	wake    chan struct{}
	done    chan struct{}
	pending atomic.Int64

	meter     metric.Meter
	published metric.Int64Counter
	failures  metric.Int64Counter
}

type Option func(*Bus)

// WithHandlerTimeout bounds the context handed to each handler invocation.
// Zero leaves handlers without a deadline.
func WithHandlerTimeout(d time.Duration) Option {
	return func(b *Bus) { b.handlerTimeout = d }
}

func WithTracer(t trace.Tracer) Option {
	return func(b *Bus) { b.tracer = t }
}

// WithMeter registers the bus instruments on m instead of the global meter.
func WithMeter(m metric.Meter) Option {
	return func(b *Bus) { b.meter = m }
}

func NewBus(log *zap.Logger, opts ...Option) *Bus {
	b := &Bus{
		log:    log.With(zap.String("component", "event_bus")),
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.registerMetrics(b.meter)
	return b
}

func (b *Bus) registerMetrics(m metric.Meter) {
	var err error
	if b.published, err = m.Int64Counter("eventbus.events.published",
		metric.WithDescription("Events enqueued on the bus"),
	); err != nil {
		b.log.Warn("register metric", zap.Error(err))
	}
	if b.failures, err = m.Int64Counter("eventbus.handler.failures",
		metric.WithDescription("Handler invocations that returned an error or panicked"),
	); err != nil {
		b.log.Warn("register metric", zap.Error(err))
	}
	if _, err = m.Int64ObservableGauge("eventbus.events.pending",
		metric.WithDescription("Events enqueued but not yet fully dispatched"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(b.pending.Load())
			return nil
		}),
	); err != nil {
		b.log.Warn("register metric", zap.Error(err))
	}
}

// Subscribe registers h. The topic pattern is compiled here, once. Handlers
// are invoked in subscription order; subscribing the same handler twice makes
// it run twice per matching event.
func (b *Bus) Subscribe(h domain.EventHandler) error {
	if h == nil {
		return errors.New("handler cannot be nil")
	}
	re, err := regexp.Compile(h.Topic())
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidTopicPattern, h.Topic(), err)
	}
	sub := subscription{handler: h, pattern: re, name: handlerName(h)}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateIdle:
		b.initial = append(b.initial, sub)
	case stateRunning:
		b.enqueue(message{kind: msgSubscribe, sub: &sub})
	default:
		return ErrBusStopped
	}
	b.log.Debug("handler subscribed", zap.String("handler", sub.name), zap.String("topic", h.Topic()))
	return nil
}

// Run starts the dispatcher. It must be called once, before any Publish.
// Handler contexts inherit the values of ctx but not its cancellation; the
// dispatcher only ends through Stop.
func (b *Bus) Run(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateRunning:
		return ErrBusAlreadyRunning
	case stateStopped:
		return ErrBusStopped
	}

	handlers := b.initial
	b.initial = nil
	b.state = stateRunning

	go b.loop(context.WithoutCancel(ctx), handlers)
	b.log.Info("event bus started", zap.Int("handlers", len(handlers)))
	return nil
}

// Publish enqueues e and returns without waiting for any handler; handling
// happens later on the dispatcher goroutine. Once the bus runs, Publish only
// fails after Stop.
func (b *Bus) Publish(ctx context.Context, e domain.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	switch b.state {
	case stateIdle:
		return ErrBusNotRunning
	case stateStopped:
		return ErrBusStopped
	}

	b.pending.Add(1)
	b.enqueue(message{kind: msgEvent, event: e})
	b.published.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", e.Topic())))
	return nil
}

// PublishAll publishes events in order and returns the first failure. Events
// enqueued before the failure are not withdrawn.
func (b *Bus) PublishAll(ctx context.Context, events []domain.Event) error {
	for _, e := range events {
		if err := b.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Stop enqueues the shutdown message behind every event already published and
// rejects further publishing. It does not wait; use Wait or Done for that.
func (b *Bus) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateIdle:
		return ErrBusNotRunning
	case stateStopped:
		return ErrBusStopped
	}
	b.state = stateStopped
	b.enqueue(message{kind: msgShutdown})
	return nil
}

// PendingEvents is the number of events enqueued but not yet fully
// dispatched. It is an observability figure, not a limit.
func (b *Bus) PendingEvents() uint64 {
	n := b.pending.Load()
	if n < 0 {
		return 0
	}
	return uint64(n)
}

// Done is closed when the dispatcher has exited after Stop.
func (b *Bus) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until every event published before the call has been
// dispatched to all matching handlers. After Stop it waits for the
// dispatcher to exit instead.
func (b *Bus) Wait(ctx context.Context) error {
	b.mu.RLock()
	state := b.state
	var flushed chan struct{}
	if state == stateRunning {
		flushed = make(chan struct{})
		b.enqueue(message{kind: msgFlush, flushed: flushed})
	}
	b.mu.RUnlock()

	switch state {
	case stateIdle:
		return nil
	case stateStopped:
		flushed = b.done
	}

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the bus and waits for in-flight events to drain.
func (b *Bus) Close(ctx context.Context) error {
	err := b.Stop()
	switch {
	case errors.Is(err, ErrBusNotRunning):
		return nil
	case err != nil && !errors.Is(err, ErrBusStopped):
		return err
	}
	return b.Wait(ctx)
}

// enqueue never blocks. Callers hold mu so that nothing follows the shutdown
// message.
func (b *Bus) enqueue(msg message) {
	b.qmu.Lock()
	b.queue = append(b.queue, msg)
	b.qmu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Bus) next() []message {
	b.qmu.Lock()
	defer b.qmu.Unlock()
	batch := b.queue
	b.queue = nil
	return batch
}

func (b *Bus) loop(ctx context.Context, handlers []subscription) {
	defer close(b.done)

	for range b.wake {
		for _, msg := range b.next() {
			switch msg.kind {
			case msgSubscribe:
				handlers = append(handlers, *msg.sub)
			case msgEvent:
				b.dispatch(ctx, handlers, msg.event)
				b.pending.Add(-1)
			case msgFlush:
				close(msg.flushed)
			case msgShutdown:
				b.pending.Store(0)
				b.log.Info("event bus stopped")
				return
			}
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, handlers []subscription, e domain.Event) {
	for i := range handlers {
		if !handlers[i].pattern.MatchString(e.Topic()) {
			continue
		}
		b.invoke(ctx, &handlers[i], e)
	}
}

func (b *Bus) invoke(ctx context.Context, sub *subscription, e domain.Event) {
	ctx, span := b.tracer.Start(ctx, "eventbus.handle",
		trace.WithAttributes(
			attribute.String("event.topic", e.Topic()),
			attribute.String("event.code", e.Code()),
			attribute.String("handler", sub.name),
		))
	defer span.End()

	if b.handlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.handlerTimeout)
		defer cancel()
	}

	handled, err := safeHandle(ctx, sub.handler, e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("handler", sub.name)))
		b.log.Error("event handler failed",
			zap.String("handler", sub.name),
			zap.String("topic", e.Topic()),
			zap.String("code", e.Code()),
			zap.Error(err),
		)
		return
	}
	if !handled {
		b.log.Debug("event ignored by handler",
			zap.String("handler", sub.name),
			zap.String("event", e.String()),
		)
	}
	span.SetStatus(codes.Ok, "")
}

// handlerName labels logs, spans and metrics. Handlers may provide their own
// name; decorators need to, since they share a type.
func handlerName(h domain.EventHandler) string {
	if n, ok := h.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", h)
}

func safeHandle(ctx context.Context, h domain.EventHandler, e domain.Event) (handled bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, e)
}

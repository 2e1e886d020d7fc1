package eventlog

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pubhub/internal/domain"
)

// Recoverer republishes journaled events that some acknowledged handler never
// processed, typically because the process stopped before the bus drained.
type Recoverer struct {
	repo     Repository
	pub      domain.EventPublisher
	handlers []string
	window   time.Duration
	log      *zap.Logger
}

// NewRecoverer sweeps events logged within window for the given handler
// names, which must match the names passed to Acknowledging.
func NewRecoverer(repo Repository, pub domain.EventPublisher, window time.Duration, log *zap.Logger, handlers ...string) *Recoverer {
	return &Recoverer{
		repo:     repo,
		pub:      pub,
		handlers: handlers,
		window:   window,
		log:      log.With(zap.String("component", "event_recovery")),
	}
}

// Recover publishes every event within the window that at least one handler
// has not acknowledged, once, oldest first. It returns the number of events
// republished.
func (r *Recoverer) Recover(ctx context.Context) (int, error) {
	since := time.Now().UTC().Add(-r.window)

	seen := make(map[uuid.UUID]struct{})
	var missing []domain.Event
	for _, h := range r.handlers {
		events, err := r.repo.Unacknowledged(ctx, h, since)
		if err != nil {
			return 0, err
		}
		for _, e := range events {
			if _, ok := seen[e.ID()]; ok {
				continue
			}
			seen[e.ID()] = struct{}{}
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		r.log.Debug("nothing to recover")
		return 0, nil
	}

	slices.SortStableFunc(missing, func(a, b domain.Event) int {
		return a.Timestamp().Compare(b.Timestamp())
	})

	if err := r.pub.PublishAll(ctx, missing); err != nil {
		return 0, err
	}
	r.log.Info("republished unacknowledged events", zap.Int("count", len(missing)))
	return len(missing), nil
}

package async

import (
	"context"

	"go.uber.org/zap"

	"pubhub/internal/domain/notification"
)

// Sink performs the actual delivery of one notification.
type Sink func(ctx context.Context, n notification.Notification) error

// NotificationDeliverer hands notifications to a worker pool so the event
// dispatcher never waits on delivery.
type NotificationDeliverer struct {
	pool *WorkerPool
	sink Sink
	log  *zap.Logger
}

// NewNotificationDeliverer delivers through sink; a nil sink only logs.
func NewNotificationDeliverer(pool *WorkerPool, sink Sink, log *zap.Logger) *NotificationDeliverer {
	d := &NotificationDeliverer{
		pool: pool,
		sink: sink,
		log:  log.With(zap.String("component", "notification_deliverer")),
	}
	if d.sink == nil {
		d.sink = d.logSink
	}
	return d
}

func (d *NotificationDeliverer) Deliver(ctx context.Context, n notification.Notification) error {
	return d.pool.Submit(ctx, func(ctx context.Context) {
		if err := d.sink(ctx, n); err != nil {
			d.log.Warn("notification delivery failed",
				zap.String("notification_id", n.ID),
				zap.String("recipient_id", n.RecipientID),
				zap.Error(err),
			)
		}
	})
}

func (d *NotificationDeliverer) logSink(_ context.Context, n notification.Notification) error {
	d.log.Info("notification delivered",
		zap.String("notification_id", n.ID),
		zap.String("recipient_id", n.RecipientID),
		zap.String("kind", string(n.Kind)),
	)
	return nil
}

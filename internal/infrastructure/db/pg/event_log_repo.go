package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pubhub/internal/domain"
	"pubhub/internal/domain/eventlog"
)

type EventLogRepository struct {
	db *sql.DB
}

func NewEventLogRepository(db *sql.DB) *EventLogRepository {
	return &EventLogRepository{db: db}
}

func (r *EventLogRepository) Append(ctx context.Context, events []domain.Event) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if !e.Persisted() {
			e = e.WithID(uuid.New())
		}
		if _, err := exec(ctx, r.db,
			`INSERT INTO event_log (id, topic, code, timestamp, payload)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			e.ID(), e.Topic(), e.Code(), e.Timestamp(), e.Payload(),
		); err != nil {
			return nil, fmt.Errorf("append %s: %w", e, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *EventLogRepository) Audit(ctx context.Context, e domain.Event) error {
	if !e.Persisted() {
		e = e.WithID(uuid.New())
	}
	_, err := exec(ctx, r.db,
		`INSERT INTO event_log (id, topic, code, timestamp, payload, audited)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 ON CONFLICT (id) DO NOTHING`,
		e.ID(), e.Topic(), e.Code(), e.Timestamp(), e.Payload(),
	)
	if err != nil {
		return fmt.Errorf("audit %s: %w", e, err)
	}
	return nil
}

func (r *EventLogRepository) Find(ctx context.Context, f eventlog.Filter) ([]domain.Event, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Topic != "" {
		add("topic = $%d", f.Topic)
	}
	if f.Code != "" {
		add("code = $%d", f.Code)
	}
	if !f.From.IsZero() {
		add("timestamp >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("timestamp <= $%d", f.To)
	}

	q := `SELECT id, topic, code, timestamp, payload FROM event_log`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY seq`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	return r.scanEvents(ctx, q, args...)
}

func (r *EventLogRepository) Acknowledge(ctx context.Context, eventID uuid.UUID, handler string) error {
	_, err := exec(ctx, r.db,
		`INSERT INTO event_acks (event_id, handler, acked_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (event_id, handler) DO NOTHING`,
		eventID, handler, time.Now().UTC(),
	)
	return err
}

func (r *EventLogRepository) Acknowledged(ctx context.Context, eventID uuid.UUID, handler string) (bool, error) {
	var ok bool
	err := queryRow(ctx, r.db,
		`SELECT EXISTS (SELECT 1 FROM event_acks WHERE event_id = $1 AND handler = $2)`,
		eventID, handler,
	).Scan(&ok)
	return ok, err
}

func (r *EventLogRepository) Unacknowledged(ctx context.Context, handler string, since time.Time) ([]domain.Event, error) {
	return r.scanEvents(ctx,
		`SELECT l.id, l.topic, l.code, l.timestamp, l.payload
		   FROM event_log l
		  WHERE l.timestamp >= $2
		    AND NOT l.audited
		    AND NOT EXISTS (
		        SELECT 1 FROM event_acks a
		         WHERE a.event_id = l.id AND a.handler = $1)
		  ORDER BY l.seq`,
		handler, since,
	)
}

func (r *EventLogRepository) scanEvents(ctx context.Context, q string, args ...any) ([]domain.Event, error) {
	rows, err := query(ctx, r.db, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Event
	for rows.Next() {
		var (
			id          uuid.UUID
			topic, code string
			ts          time.Time
			payload     []byte
		)
		if err := rows.Scan(&id, &topic, &code, &ts, &payload); err != nil {
			return nil, err
		}
		res = append(res, domain.RestoreEvent(id, topic, code, ts.UTC(), payload))
	}
	return res, rows.Err()
}

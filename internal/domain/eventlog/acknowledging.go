package eventlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pubhub/internal/domain"
)

type Ledger interface {
	Acknowledge(ctx context.Context, eventID uuid.UUID, handler string) error
	Acknowledged(ctx context.Context, eventID uuid.UUID, handler string) (bool, error)
}

type acknowledging struct {
	name   string
	next   domain.EventHandler
	ledger Ledger
}

// Acknowledging wraps h so that every journaled event it processes without
// error is recorded in the ledger under name. A journaled event already
// acknowledged by name is not handed to h again, which makes redelivery by
// the Recoverer safe. In-flight events pass straight through.
func Acknowledging(name string, h domain.EventHandler, ledger Ledger) domain.EventHandler {
	return &acknowledging{name: name, next: h, ledger: ledger}
}

func (a *acknowledging) Topic() string { return a.next.Topic() }

func (a *acknowledging) Name() string { return a.name }

func (a *acknowledging) Handle(ctx context.Context, e domain.Event) (bool, error) {
	if !e.Persisted() {
		return a.next.Handle(ctx, e)
	}

	done, err := a.ledger.Acknowledged(ctx, e.ID(), a.name)
	if err != nil {
		return false, fmt.Errorf("check ack %s for %s: %w", e.ID(), a.name, err)
	}
	if done {
		return false, nil
	}

	handled, err := a.next.Handle(ctx, e)
	if err != nil {
		return handled, err
	}
	if err := a.ledger.Acknowledge(ctx, e.ID(), a.name); err != nil {
		return handled, fmt.Errorf("ack %s for %s: %w", e.ID(), a.name, err)
	}
	return handled, nil
}

package donation

import (
	"context"

	"pubhub/internal/domain"
)

type Repository interface {
	Save(ctx context.Context, d *Donation) error
	GetByID(ctx context.Context, id string) (*Donation, error)
	ListPaidByAuthor(ctx context.Context, authorID string) ([]*Donation, error)
}

// Journal writes events to the durable event log. Append must join the
// transaction carried by ctx and returns the events with their log identity.
type Journal interface {
	Append(ctx context.Context, events []domain.Event) ([]domain.Event, error)
}

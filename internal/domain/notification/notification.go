package notification

import (
	"context"
	"time"
)

type Kind string

const (
	KindNewFollower    Kind = "new_follower"
	KindNewPublication Kind = "new_publication"
	KindLiked          Kind = "publication_liked"
	KindReviewed       Kind = "publication_reviewed"
	KindDonationPaid   Kind = "donation_received"
)

type Notification struct {
	ID          string
	RecipientID string
	Kind        Kind
	Message     string
	Read        bool
	CreatedAt   time.Time
}

type Repository interface {
	// Add stores n. A notification whose ID is already stored is left as is
	// and reported as not added.
	Add(ctx context.Context, n Notification) (bool, error)
	// List returns the recipient's notifications, newest first.
	List(ctx context.Context, recipientID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, recipientID, id string) error
}

// Deliverer pushes a stored notification to the recipient out of band.
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}

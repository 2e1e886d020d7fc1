package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pubhub/internal/domain"
	"pubhub/internal/domain/donation"
	"pubhub/internal/domain/publication"
	"pubhub/internal/domain/user"
)

// Notifier turns events from every module into notifications.
type Notifier struct {
	repo         Repository
	users        user.Repository
	publications publication.Repository
	deliverer    Deliverer
	log          *zap.Logger
}

func NewNotifier(
	repo Repository,
	users user.Repository,
	publications publication.Repository,
	deliverer Deliverer,
	log *zap.Logger,
) *Notifier {
	return &Notifier{
		repo:         repo,
		users:        users,
		publications: publications,
		deliverer:    deliverer,
		log:          log.With(zap.String("component", "notifier")),
	}
}

func (n *Notifier) Topic() string { return ".*" }

func (n *Notifier) Name() string { return "notification.notifier" }

func (n *Notifier) Handle(ctx context.Context, e domain.Event) (bool, error) {
	var (
		out []Notification
		err error
	)

	switch e.String() {
	case user.Topic + "." + user.CodeFollowed:
		out, err = n.followed(ctx, e)
	case publication.Topic + "." + publication.CodePublished:
		out, err = n.published(ctx, e)
	case publication.Topic + "." + publication.CodeLiked:
		out, err = n.liked(ctx, e)
	case publication.Topic + "." + publication.CodeReviewed:
		out, err = n.reviewed(ctx, e)
	case donation.Topic + "." + donation.CodePaid:
		out, err = n.donationPaid(e)
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for _, notif := range out {
		added, err := n.repo.Add(ctx, notif)
		if err != nil {
			return false, fmt.Errorf("store notification: %w", err)
		}
		if !added {
			continue
		}
		if err := n.deliverer.Deliver(ctx, notif); err != nil {
			n.log.Warn("deliver notification",
				zap.String("notification_id", notif.ID),
				zap.String("recipient_id", notif.RecipientID),
				zap.Error(err),
			)
		}
	}
	return true, nil
}

func (n *Notifier) followed(ctx context.Context, e domain.Event) ([]Notification, error) {
	p, err := domain.DecodePayload[user.EventPayload](e)
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("%s started following you", n.username(ctx, p.UserID))
	return []Notification{newNotification(e, p.AuthorID, KindNewFollower, msg)}, nil
}

func (n *Notifier) published(ctx context.Context, e domain.Event) ([]Notification, error) {
	p, err := domain.DecodePayload[publication.EventPayload](e)
	if err != nil {
		return nil, err
	}
	followers, err := n.users.ListFollowers(ctx, p.AuthorID)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("%s published %q", n.username(ctx, p.AuthorID), p.Name)
	out := make([]Notification, 0, len(followers))
	for _, id := range followers {
		out = append(out, newNotification(e, id, KindNewPublication, msg))
	}
	return out, nil
}

func (n *Notifier) liked(ctx context.Context, e domain.Event) ([]Notification, error) {
	p, err := domain.DecodePayload[publication.EventPayload](e)
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("%s liked %q", n.username(ctx, p.ReaderID), n.title(ctx, p.PublicationID))
	return []Notification{newNotification(e, p.AuthorID, KindLiked, msg)}, nil
}

func (n *Notifier) reviewed(ctx context.Context, e domain.Event) ([]Notification, error) {
	p, err := domain.DecodePayload[publication.EventPayload](e)
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("%s rated %q %d/5", n.username(ctx, p.ReaderID), n.title(ctx, p.PublicationID), p.Stars)
	return []Notification{newNotification(e, p.AuthorID, KindReviewed, msg)}, nil
}

func (n *Notifier) donationPaid(e domain.Event) ([]Notification, error) {
	p, err := domain.DecodePayload[donation.EventPayload](e)
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("you received a donation of %d.%02d %s", p.Amount/100, p.Amount%100, p.Currency)
	return []Notification{newNotification(e, p.AuthorID, KindDonationPaid, msg)}, nil
}

// username falls back to a neutral label; a missing user must not lose the
// notification.
func (n *Notifier) username(ctx context.Context, id string) string {
	u, err := n.users.GetByID(ctx, id)
	if err != nil {
		return "someone"
	}
	return u.Username
}

func (n *Notifier) title(ctx context.Context, id string) string {
	p, err := n.publications.GetByID(ctx, id)
	if err != nil {
		return "your publication"
	}
	return p.Name
}

// notificationID is stable for a persisted event so that a redelivered event
// maps onto the notifications it already produced.
func notificationID(e domain.Event, recipientID string, kind Kind) string {
	if e.ID() == uuid.Nil {
		return uuid.NewString()
	}
	return uuid.NewSHA1(e.ID(), []byte(recipientID+"/"+string(kind))).String()
}

func newNotification(e domain.Event, recipientID string, kind Kind, msg string) Notification {
	return Notification{
		ID:          notificationID(e, recipientID, kind),
		RecipientID: recipientID,
		Kind:        kind,
		Message:     msg,
		CreatedAt:   time.Now().UTC(),
	}
}

package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pubhub/internal/domain"
	"pubhub/internal/domain/donation"
	"pubhub/internal/domain/notification"
	"pubhub/internal/domain/publication"
	"pubhub/internal/domain/user"
	"pubhub/internal/infrastructure/db/memory"
)

type delivererFake struct {
	mu        sync.Mutex
	delivered []notification.Notification
	err       error
}

func (d *delivererFake) Deliver(ctx context.Context, n notification.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.delivered = append(d.delivered, n)
	return nil
}

type fixture struct {
	users     *memory.UserRepository
	repo      *memory.NotificationRepository
	deliverer *delivererFake
	notifier  *notification.Notifier
	author    *user.User
	reader    *user.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{
		users:     memory.NewUserRepository(),
		repo:      memory.NewNotificationRepository(),
		deliverer: &delivererFake{},
	}
	pubs := memory.NewPublicationRepository()
	f.notifier = notification.NewNotifier(f.repo, f.users, pubs, f.deliverer, zap.NewNop())

	var err error
	f.author, err = user.Register("ann", "", "ann@example.com", user.RoleAuthor)
	require.NoError(t, err)
	f.reader, err = user.Register("bob", "", "bob@example.com", user.RoleReader)
	require.NoError(t, err)
	require.NoError(t, f.reader.Follow(f.author))
	require.NoError(t, f.users.Save(ctx, f.author))
	require.NoError(t, f.users.Save(ctx, f.reader))
	return f
}

func mustEvent(t *testing.T, de domain.DomainEvent) domain.Event {
	t.Helper()
	e, err := de.ToEvent()
	require.NoError(t, err)
	return e
}

func TestNotifierReactsToInterestingEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		event     domain.Event
		recipient string
		kind      notification.Kind
	}{
		{mustEvent(t, user.Followed{UserID: f.reader.ID(), AuthorID: f.author.ID()}), f.author.ID(), notification.KindNewFollower},
		{mustEvent(t, publication.Published{PublicationID: "p1", AuthorID: f.author.ID(), Name: "Essay"}), f.reader.ID(), notification.KindNewPublication},
		{mustEvent(t, publication.Liked{PublicationID: "p1", AuthorID: f.author.ID(), ReaderID: f.reader.ID()}), f.author.ID(), notification.KindLiked},
		{mustEvent(t, publication.Reviewed{PublicationID: "p1", AuthorID: f.author.ID(), ReaderID: f.reader.ID(), Stars: 5}), f.author.ID(), notification.KindReviewed},
		{mustEvent(t, donation.Paid{DonationID: "d1", ReaderID: f.reader.ID(), AuthorID: f.author.ID(), Amount: 1250, Currency: "EUR"}), f.author.ID(), notification.KindDonationPaid},
	}
	for _, tc := range cases {
		t.Run(tc.event.String(), func(t *testing.T) {
			handled, err := f.notifier.Handle(ctx, tc.event)
			require.NoError(t, err)
			assert.True(t, handled)

			list, err := f.repo.List(ctx, tc.recipient, true)
			require.NoError(t, err)
			require.NotEmpty(t, list)
			assert.Equal(t, tc.kind, list[0].Kind)
		})
	}

	author, _ := f.repo.List(ctx, f.author.ID(), false)
	assert.Equal(t, "you received a donation of 12.50 EUR", author[0].Message)
	assert.Len(t, f.deliverer.delivered, len(cases))
}

func TestNotifierIgnoresOtherCodes(t *testing.T) {
	f := newFixture(t)

	for _, e := range []domain.Event{
		mustEvent(t, user.Updated{UserID: f.author.ID()}),
		mustEvent(t, publication.Read{PublicationID: "p1", AuthorID: f.author.ID(), ReaderID: f.reader.ID()}),
		mustEvent(t, donation.Created{DonationID: "d1", AuthorID: f.author.ID()}),
	} {
		handled, err := f.notifier.Handle(context.Background(), e)
		require.NoError(t, err)
		assert.False(t, handled, e.String())
	}
	assert.Empty(t, f.deliverer.delivered)
}

func TestDeliveryFailureKeepsNotification(t *testing.T) {
	f := newFixture(t)
	f.deliverer.err = errors.New("pool closed")
	ctx := context.Background()

	handled, err := f.notifier.Handle(ctx, mustEvent(t, user.Followed{UserID: f.reader.ID(), AuthorID: f.author.ID()}))
	require.NoError(t, err)
	assert.True(t, handled)

	svc := notification.NewService(f.repo)
	list, err := svc.List(ctx, f.author.ID(), true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bob started following you", list[0].Message)

	require.NoError(t, svc.MarkRead(ctx, f.author.ID(), list[0].ID))
	unread, _ := svc.List(ctx, f.author.ID(), true)
	assert.Empty(t, unread)
}

func TestRedeliveredEventNotifiesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := mustEvent(t, user.Followed{UserID: f.reader.ID(), AuthorID: f.author.ID()}).WithID(uuid.New())

	for range 2 {
		handled, err := f.notifier.Handle(ctx, e)
		require.NoError(t, err)
		assert.True(t, handled)
	}

	list, err := f.repo.List(ctx, f.author.ID(), false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, f.deliverer.delivered, 1)

	// An event that was never logged has no identity to dedupe on.
	inflight := mustEvent(t, user.Followed{UserID: f.reader.ID(), AuthorID: f.author.ID()})
	for range 2 {
		_, err := f.notifier.Handle(ctx, inflight)
		require.NoError(t, err)
	}
	list, err = f.repo.List(ctx, f.author.ID(), false)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

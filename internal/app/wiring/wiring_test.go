package wiring_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pubhub/internal/app/wiring"
	"pubhub/internal/domain"
	"pubhub/internal/domain/eventlog"
	"pubhub/internal/domain/notification"
	"pubhub/internal/domain/user"
	"pubhub/internal/infrastructure/async"
)

type recordingDeliverer struct {
	mu   sync.Mutex
	sent []notification.Notification
}

func (d *recordingDeliverer) Deliver(_ context.Context, n notification.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return nil
}

func (d *recordingDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

// dropPublisher accepts events and loses them, as a process that dies right
// after commit would.
type dropPublisher struct{}

func (dropPublisher) Publish(context.Context, domain.Event) error      { return nil }
func (dropPublisher) PublishAll(context.Context, []domain.Event) error { return nil }

func startBus(t *testing.T, repos wiring.Repos, d notification.Deliverer) *async.Bus {
	t.Helper()
	log := zap.NewNop()
	bus := async.NewBus(log)
	require.NoError(t, wiring.Subscribe(bus, wiring.Handlers(repos, d, log)))
	require.NoError(t, bus.Run(context.Background()))
	t.Cleanup(func() { _ = bus.Close(context.Background()) })
	return bus
}

func kinds(list []notification.Notification) []notification.Kind {
	out := make([]notification.Kind, 0, len(list))
	for _, n := range list {
		out = append(out, n.Kind)
	}
	return out
}

func TestChoreography(t *testing.T) {
	ctx := context.Background()
	repos := wiring.MemoryRepos()
	deliverer := &recordingDeliverer{}
	bus := startBus(t, repos, deliverer)
	svc := wiring.NewServices(repos, bus, zap.NewNop())

	ann, err := svc.Users.Register(ctx, "ann", "Ann", "ann@example.com", user.RoleAuthor)
	require.NoError(t, err)
	bob, err := svc.Users.Register(ctx, "bob", "Bob", "bob@example.com", user.RoleReader)
	require.NoError(t, err)
	require.NoError(t, svc.Users.Follow(ctx, bob.ID(), ann.ID()))

	p, err := svc.Publications.Create(ctx, ann.ID(), "Dune notes", "sand")
	require.NoError(t, err)
	_, err = svc.Publications.Publish(ctx, ann.ID(), p.ID())
	require.NoError(t, err)
	require.NoError(t, svc.Publications.Like(ctx, bob.ID(), p.ID()))
	require.NoError(t, svc.Publications.Review(ctx, bob.ID(), p.ID(), 5, "great"))

	d, err := svc.Donations.Donate(ctx, bob.ID(), ann.ID(), 1250, "usd", "thanks")
	require.NoError(t, err)
	_, err = svc.Donations.Pay(ctx, bob.ID(), d.ID(), "tx-1")
	require.NoError(t, err)

	require.NoError(t, bus.Wait(ctx))

	author, err := svc.Catalogue.GetAuthor(ctx, ann.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, author.Followers)
	assert.Equal(t, 1, author.Publications)

	entry, err := svc.Catalogue.GetEntry(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Likes)
	assert.Equal(t, 1, entry.Reviews)
	assert.InDelta(t, 5.0, entry.Rating, 0.001)

	_, err = svc.Catalogue.GetAuthor(ctx, bob.ID())
	assert.True(t, domain.IsNotFound(err), "readers have no author projection")

	annInbox, err := svc.Notifications.List(ctx, ann.ID(), false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []notification.Kind{
		notification.KindNewFollower,
		notification.KindLiked,
		notification.KindReviewed,
		notification.KindDonationPaid,
	}, kinds(annInbox))

	bobInbox, err := svc.Notifications.List(ctx, bob.ID(), false)
	require.NoError(t, err)
	assert.Equal(t, []notification.Kind{notification.KindNewPublication}, kinds(bobInbox))
	assert.Equal(t, 5, deliverer.count())

	revenue, err := svc.Reports.GetRevenue(ctx, ann.ID())
	require.NoError(t, err)
	require.Len(t, revenue, 1)
	assert.Equal(t, "USD", revenue[0].Currency)
	assert.Equal(t, int64(1250), revenue[0].Total)
	assert.Equal(t, 1, revenue[0].Donations)

	logged, err := svc.Events.Find(ctx, eventlog.Filter{Topic: "donation"})
	require.NoError(t, err)
	require.Len(t, logged, 2, "journaled donation events must not be audited twice")
	assert.Equal(t, "created", logged[0].Code())
	assert.Equal(t, "paid", logged[1].Code())

	follows, err := svc.Events.Find(ctx, eventlog.Filter{Topic: "user", Code: "followed"})
	require.NoError(t, err)
	assert.Len(t, follows, 1)

	n, err := wiring.NewRecoverer(repos, bus, time.Hour, zap.NewNop()).Recover(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "everything was acknowledged")
}

func TestRecoveryReplaysLostDonationEvents(t *testing.T) {
	ctx := context.Background()
	repos := wiring.MemoryRepos()

	// First run: the donation commits with its journal entries, but the
	// events never reach a handler.
	crashed := wiring.NewServices(repos, dropPublisher{}, zap.NewNop())
	ann, err := crashed.Users.Register(ctx, "ann", "", "ann@example.com", user.RoleAuthor)
	require.NoError(t, err)
	bob, err := crashed.Users.Register(ctx, "bob", "", "bob@example.com", user.RoleReader)
	require.NoError(t, err)
	d, err := crashed.Donations.Donate(ctx, bob.ID(), ann.ID(), 300, "EUR", "")
	require.NoError(t, err)
	_, err = crashed.Donations.Pay(ctx, bob.ID(), d.ID(), "ref-1")
	require.NoError(t, err)

	rows, err := crashed.Reports.GetRevenue(ctx, ann.ID())
	require.NoError(t, err)
	require.Empty(t, rows)

	// Second run: recovery republishes what the ledger never saw acknowledged.
	deliverer := &recordingDeliverer{}
	bus := startBus(t, repos, deliverer)
	svc := wiring.NewServices(repos, bus, zap.NewNop())
	recoverer := wiring.NewRecoverer(repos, bus, time.Hour, zap.NewNop())

	n, err := recoverer.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, bus.Wait(ctx))

	rows, err = svc.Reports.GetRevenue(ctx, ann.ID())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(300), rows[0].Total)

	inbox, err := svc.Notifications.List(ctx, ann.ID(), false)
	require.NoError(t, err)
	assert.Equal(t, []notification.Kind{notification.KindDonationPaid}, kinds(inbox))

	// A second sweep finds nothing, and replaying by hand is a no-op for the
	// acknowledging handlers.
	n, err = recoverer.Recover(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	logged, err := svc.Events.Find(ctx, eventlog.Filter{Topic: "donation", Code: "paid"})
	require.NoError(t, err)
	require.Len(t, logged, 1)
	require.NoError(t, bus.Publish(ctx, logged[0]))
	require.NoError(t, bus.Wait(ctx))

	inbox, err = svc.Notifications.List(ctx, ann.ID(), false)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
	assert.Equal(t, 1, deliverer.count())
}

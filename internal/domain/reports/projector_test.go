package reports_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubhub/internal/domain/donation"
	"pubhub/internal/domain/reports"
	"pubhub/internal/infrastructure/db/memory"
)

func paidDonation(t *testing.T, amount int64, currency string) *donation.Donation {
	t.Helper()
	d, err := donation.New("reader", "author", amount, currency, "")
	require.NoError(t, err)
	require.NoError(t, d.Pay("reader", "ref"))
	return d
}

func TestRevenueProjectorRecomputesFromPaidDonations(t *testing.T) {
	ctx := context.Background()
	donations := memory.NewDonationRepository()
	repo := memory.NewRevenueRepository()
	p := reports.NewRevenueProjector(repo, donations)

	var last *donation.Donation
	for _, d := range []*donation.Donation{
		paidDonation(t, 500, "EUR"),
		paidDonation(t, 250, "EUR"),
		paidDonation(t, 1000, "USD"),
	} {
		require.NoError(t, donations.Save(ctx, d))
		last = d
	}
	pending, _ := donation.New("reader", "author", 9999, "EUR", "")
	require.NoError(t, donations.Save(ctx, pending))

	evs := last.Events()
	paid := evs[len(evs)-1]
	handled, err := p.Handle(ctx, paid)
	require.NoError(t, err)
	assert.True(t, handled)

	// Replaying the same event yields the same figures.
	_, err = p.Handle(ctx, paid)
	require.NoError(t, err)

	rows, err := reports.NewService(repo).GetRevenue(ctx, "author")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "EUR", rows[0].Currency)
	assert.Equal(t, int64(750), rows[0].Total)
	assert.Equal(t, 2, rows[0].Donations)
	assert.Equal(t, int64(1000), rows[1].Total)
	assert.NotNil(t, rows[1].LastDonationAt)

	handled, err = p.Handle(ctx, evs[0])
	require.NoError(t, err)
	assert.False(t, handled, "only paid donations move revenue")
}

package reports

import (
	"context"
	"slices"
	"strings"

	"pubhub/internal/domain"
	"pubhub/internal/domain/donation"
)

// RevenueProjector recomputes an author's revenue from scratch whenever one
// of their donations is paid.
type RevenueProjector struct {
	repo      Repository
	donations donation.Repository
}

func NewRevenueProjector(repo Repository, donations donation.Repository) *RevenueProjector {
	return &RevenueProjector{repo: repo, donations: donations}
}

func (p *RevenueProjector) Topic() string { return "^donation$" }

func (p *RevenueProjector) Handle(ctx context.Context, e domain.Event) (bool, error) {
	if e.Code() != donation.CodePaid {
		return false, nil
	}
	payload, err := domain.DecodePayload[donation.EventPayload](e)
	if err != nil {
		return false, err
	}

	paid, err := p.donations.ListPaidByAuthor(ctx, payload.AuthorID)
	if err != nil {
		return false, err
	}
	return true, p.repo.ReplaceRevenue(ctx, payload.AuthorID, Summarize(payload.AuthorID, paid))
}

// Summarize folds paid donations into one Revenue per currency.
func Summarize(authorID string, paid []*donation.Donation) []Revenue {
	byCurrency := make(map[string]*Revenue)
	for _, d := range paid {
		r, ok := byCurrency[d.Currency]
		if !ok {
			r = &Revenue{AuthorID: authorID, Currency: d.Currency}
			byCurrency[d.Currency] = r
		}
		r.Total += d.Amount
		r.Donations++
		if d.PaidAt != nil && (r.LastDonationAt == nil || d.PaidAt.After(*r.LastDonationAt)) {
			t := *d.PaidAt
			r.LastDonationAt = &t
		}
	}

	rows := make([]Revenue, 0, len(byCurrency))
	for _, r := range byCurrency {
		rows = append(rows, *r)
	}
	slices.SortFunc(rows, func(a, b Revenue) int { return strings.Compare(a.Currency, b.Currency) })
	return rows
}

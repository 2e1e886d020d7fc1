package memory

import (
	"context"
	"slices"
	"sync"

	"pubhub/internal/domain"
	"pubhub/internal/domain/donation"
)

var _ donation.Repository = (*DonationRepository)(nil)

type DonationRepository struct {
	mu   sync.RWMutex
	byID map[string]*donation.Donation
}

func NewDonationRepository() *DonationRepository {
	return &DonationRepository{byID: make(map[string]*donation.Donation)}
}

func (r *DonationRepository) Save(_ context.Context, d *donation.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[d.ID()] = d.Clone()
	return nil
}

func (r *DonationRepository) GetByID(_ context.Context, id string) (*donation.Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound("donation not found")
	}
	return d.Clone(), nil
}

func (r *DonationRepository) ListPaidByAuthor(_ context.Context, authorID string) ([]*donation.Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var res []*donation.Donation
	for _, d := range r.byID {
		if d.AuthorID == authorID && d.Status == donation.StatusPaid {
			res = append(res, d.Clone())
		}
	}
	slices.SortFunc(res, func(a, b *donation.Donation) int {
		return a.PaidAt.Compare(*b.PaidAt)
	})
	return res, nil
}

package memory

import (
	"context"
	"slices"
	"sync"

	"pubhub/internal/domain/reports"
)

var _ reports.Repository = (*RevenueRepository)(nil)

type RevenueRepository struct {
	mu       sync.RWMutex
	byAuthor map[string][]reports.Revenue
}

func NewRevenueRepository() *RevenueRepository {
	return &RevenueRepository{byAuthor: make(map[string][]reports.Revenue)}
}

func (r *RevenueRepository) ReplaceRevenue(_ context.Context, authorID string, rows []reports.Revenue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byAuthor[authorID] = slices.Clone(rows)
	return nil
}

func (r *RevenueRepository) GetRevenue(_ context.Context, authorID string) ([]reports.Revenue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.byAuthor[authorID]), nil
}

package reports

import (
	"context"
	"time"
)

// Revenue is what an author has received in one currency.
type Revenue struct {
	AuthorID       string
	Currency       string
	Total          int64
	Donations      int
	LastDonationAt *time.Time
}

type Repository interface {
	// ReplaceRevenue swaps all of the author's rows for rows.
	ReplaceRevenue(ctx context.Context, authorID string, rows []Revenue) error
	// GetRevenue returns the author's rows ordered by currency.
	GetRevenue(ctx context.Context, authorID string) ([]Revenue, error)
}

package pg

import (
	"context"
	"database/sql"

	"pubhub/internal/domain/reports"
)

type RevenueRepository struct {
	db *sql.DB
}

func NewRevenueRepository(db *sql.DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

func (r *RevenueRepository) ReplaceRevenue(ctx context.Context, authorID string, rows []reports.Revenue) error {
	if _, err := exec(ctx, r.db, `DELETE FROM revenue WHERE author_id = $1`, authorID); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := exec(ctx, r.db,
			`INSERT INTO revenue (author_id, currency, total, donations, last_donation_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			authorID, row.Currency, row.Total, row.Donations, nullTime(row.LastDonationAt),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *RevenueRepository) GetRevenue(ctx context.Context, authorID string) ([]reports.Revenue, error) {
	rows, err := query(ctx, r.db,
		`SELECT author_id, currency, total, donations, last_donation_at
		   FROM revenue
		  WHERE author_id = $1
		  ORDER BY currency`,
		authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []reports.Revenue
	for rows.Next() {
		var (
			rev  reports.Revenue
			last sql.NullTime
		)
		if err := rows.Scan(&rev.AuthorID, &rev.Currency, &rev.Total, &rev.Donations, &last); err != nil {
			return nil, err
		}
		rev.LastDonationAt = timePtr(last)
		res = append(res, rev)
	}
	return res, rows.Err()
}

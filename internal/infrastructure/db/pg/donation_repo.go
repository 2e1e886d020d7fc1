package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pubhub/internal/domain"
	"pubhub/internal/domain/donation"
)

type DonationRepository struct {
	db *sql.DB
}

func NewDonationRepository(db *sql.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

const donationColumns = `donation_id, reader_id, author_id, amount, currency, message,
       status, reference, paid_at, created_at, updated_at`

func (r *DonationRepository) Save(ctx context.Context, d *donation.Donation) error {
	_, err := exec(ctx, r.db,
		`INSERT INTO donations (`+donationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (donation_id) DO UPDATE
		   SET status = EXCLUDED.status,
		       reference = EXCLUDED.reference,
		       paid_at = EXCLUDED.paid_at,
		       updated_at = EXCLUDED.updated_at`,
		d.ID(), d.ReaderID, d.AuthorID, d.Amount, d.Currency, d.Message,
		string(d.Status), d.Reference, nullTime(d.PaidAt), d.CreatedAt(), nullTime(d.UpdatedAt()),
	)
	return err
}

func (r *DonationRepository) GetByID(ctx context.Context, id string) (*donation.Donation, error) {
	d, err := scanDonation(queryRow(ctx, r.db,
		`SELECT `+donationColumns+` FROM donations WHERE donation_id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("donation")
	}
	return d, err
}

func (r *DonationRepository) ListPaidByAuthor(ctx context.Context, authorID string) ([]*donation.Donation, error) {
	rows, err := query(ctx, r.db,
		`SELECT `+donationColumns+`
		   FROM donations
		  WHERE author_id = $1
		    AND status = 'paid'
		  ORDER BY paid_at`,
		authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*donation.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func scanDonation(row scanner) (*donation.Donation, error) {
	var (
		d                 donation.Donation
		id, status        string
		createdAt         time.Time
		paidAt, updatedAt sql.NullTime
	)
	if err := row.Scan(
		&id, &d.ReaderID, &d.AuthorID, &d.Amount, &d.Currency, &d.Message,
		&status, &d.Reference, &paidAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	d.Status = donation.Status(status)
	d.PaidAt = timePtr(paidAt)
	d.AggregateRoot = domain.RestoreAggregateRoot(id, createdAt.UTC(), timePtr(updatedAt), nil)
	return &d, nil
}

package donation

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"pubhub/internal/domain"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Donation is money a reader gives an author. Amount is in minor units of
// Currency.
type Donation struct {
	domain.AggregateRoot[string]

	ReaderID  string
	AuthorID  string
	Amount    int64
	Currency  string
	Message   string
	Status    Status
	PaidAt    *time.Time
	Reference string
}

func New(readerID, authorID string, amount int64, currency, message string) (*Donation, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	switch {
	case amount <= 0:
		return nil, domain.Invalid("amount must be positive")
	case len(currency) != 3:
		return nil, domain.Invalid("currency must be a three letter code")
	case readerID == authorID:
		return nil, domain.Invalid("cannot donate to yourself")
	}

	d := &Donation{
		AggregateRoot: domain.NewAggregateRoot(uuid.NewString()),
		ReaderID:      readerID,
		AuthorID:      authorID,
		Amount:        amount,
		Currency:      currency,
		Message:       message,
		Status:        StatusPending,
	}
	if err := d.Record(Created{
		DonationID: d.ID(),
		ReaderID:   readerID,
		AuthorID:   authorID,
		Amount:     amount,
		Currency:   currency,
	}); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Donation) pendingFor(readerID string) error {
	if d.ReaderID != readerID {
		return domain.Forbidden("only the donor can settle a donation")
	}
	if d.Status != StatusPending {
		return domain.BadState("donation is " + string(d.Status))
	}
	return nil
}

func (d *Donation) Pay(readerID, reference string) error {
	if err := d.pendingFor(readerID); err != nil {
		return err
	}
	if reference == "" {
		return domain.Invalid("payment reference is required")
	}

	now := time.Now().UTC()
	d.Status = StatusPaid
	d.PaidAt = &now
	d.Reference = reference
	d.Touch()
	return d.Record(Paid{
		DonationID: d.ID(),
		ReaderID:   d.ReaderID,
		AuthorID:   d.AuthorID,
		Amount:     d.Amount,
		Currency:   d.Currency,
		Reference:  reference,
	})
}

func (d *Donation) Cancel(readerID string) error {
	if err := d.pendingFor(readerID); err != nil {
		return err
	}
	d.Status = StatusCancelled
	d.Touch()
	return d.Record(Cancelled{DonationID: d.ID(), ReaderID: d.ReaderID, AuthorID: d.AuthorID})
}

func (d *Donation) Clone() *Donation {
	c := *d
	c.AggregateRoot = d.AggregateRoot.Clone()
	if d.PaidAt != nil {
		t := *d.PaidAt
		c.PaidAt = &t
	}
	return &c
}

package donation

import "pubhub/internal/domain"

const Topic = "donation"

const (
	CodeCreated   = "created"
	CodePaid      = "paid"
	CodeCancelled = "cancelled"
)

type Created struct {
	DonationID string `json:"donation_id"`
	ReaderID   string `json:"reader_id"`
	AuthorID   string `json:"author_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

func (e Created) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeCreated, e)
}

type Paid struct {
	DonationID string `json:"donation_id"`
	ReaderID   string `json:"reader_id"`
	AuthorID   string `json:"author_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Reference  string `json:"reference"`
}

func (e Paid) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodePaid, e)
}

type Cancelled struct {
	DonationID string `json:"donation_id"`
	ReaderID   string `json:"reader_id"`
	AuthorID   string `json:"author_id"`
}

func (e Cancelled) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeCancelled, e)
}

// EventPayload decodes any donation event.
type EventPayload struct {
	DonationID string `json:"donation_id"`
	ReaderID   string `json:"reader_id"`
	AuthorID   string `json:"author_id"`
	Amount     int64  `json:"amount,omitempty"`
	Currency   string `json:"currency,omitempty"`
	Reference  string `json:"reference,omitempty"`
}

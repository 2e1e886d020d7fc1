package dto

import "time"

type Donation struct {
	DonationID string     `json:"donation_id"`
	ReaderID   string     `json:"reader_id"`
	AuthorID   string     `json:"author_id"`
	Amount     int64      `json:"amount"`
	Currency   string     `json:"currency"`
	Message    string     `json:"message,omitempty"`
	Status     string     `json:"status"`
	Reference  string     `json:"reference,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
}

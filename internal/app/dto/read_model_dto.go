package dto

import "time"

type Author struct {
	AuthorID     string `json:"author_id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Followers    int    `json:"followers"`
	Publications int    `json:"publications"`
}

type Entry struct {
	PublicationID string    `json:"publication_id"`
	AuthorID      string    `json:"author_id"`
	Name          string    `json:"name"`
	Synopsis      string    `json:"synopsis"`
	Likes         int       `json:"likes"`
	Views         int       `json:"views"`
	Reviews       int       `json:"reviews"`
	Rating        float64   `json:"rating"`
	PublishedAt   time.Time `json:"published_at"`
}

type Notification struct {
	NotificationID string    `json:"notification_id"`
	Kind           string    `json:"kind"`
	Message        string    `json:"message"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

type Revenue struct {
	Currency       string     `json:"currency"`
	Total          int64      `json:"total"`
	Donations      int        `json:"donations"`
	LastDonationAt *time.Time `json:"last_donation_at,omitempty"`
}

// Event is a durable log entry. Payload is the producer's JSON as written,
// a base64 string for any other encoding, or null when empty.
type Event struct {
	EventID   string    `json:"event_id"`
	Topic     string    `json:"topic"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

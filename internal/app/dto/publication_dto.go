package dto

import "time"

type Review struct {
	ReaderID  string    `json:"reader_id"`
	Stars     int       `json:"stars"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Publication struct {
	PublicationID string     `json:"publication_id"`
	AuthorID      string     `json:"author_id"`
	Name          string     `json:"name"`
	Synopsis      string     `json:"synopsis"`
	Status        string     `json:"status"`
	Likes         int        `json:"likes"`
	Views         int        `json:"views"`
	Rating        float64    `json:"rating"`
	Reviews       []Review   `json:"reviews"`
	CreatedAt     time.Time  `json:"created_at"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

type PublicationShort struct {
	PublicationID string `json:"publication_id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
}

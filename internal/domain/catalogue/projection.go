package catalogue

import (
	"context"
	"time"
)

// Author is the public read model of an author.
type Author struct {
	ID           string
	Username     string
	DisplayName  string
	Followers    int
	Publications int
	UpdatedAt    time.Time
}

// Entry is the public read model of a published publication.
type Entry struct {
	PublicationID string
	AuthorID      string
	Name          string
	Synopsis      string
	Likes         int
	Views         int
	Reviews       int
	Rating        float64
	PublishedAt   time.Time
}

// Repository stores the projections. Saves overwrite.
type Repository interface {
	SaveAuthor(ctx context.Context, a Author) error
	DeleteAuthor(ctx context.Context, id string) error
	GetAuthor(ctx context.Context, id string) (Author, error)
	SaveEntry(ctx context.Context, e Entry) error
	DeleteEntry(ctx context.Context, publicationID string) error
	GetEntry(ctx context.Context, publicationID string) (Entry, error)
	// ListEntries returns entries newest first; an empty authorID lists all.
	ListEntries(ctx context.Context, authorID string) ([]Entry, error)
}

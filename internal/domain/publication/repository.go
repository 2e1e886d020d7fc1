package publication

import "context"

type Repository interface {
	Save(ctx context.Context, p *Publication) error
	// GetByID returns soft-deleted publications too.
	GetByID(ctx context.Context, id string) (*Publication, error)
	// ListByAuthor returns the author's live publications, oldest first.
	ListByAuthor(ctx context.Context, authorID string, publishedOnly bool) ([]*Publication, error)
}

package memory

import (
	"context"
	"slices"
	"sync"

	"pubhub/internal/domain"
	"pubhub/internal/domain/publication"
)

var _ publication.Repository = (*PublicationRepository)(nil)

type PublicationRepository struct {
	mu   sync.RWMutex
	byID map[string]*publication.Publication
}

func NewPublicationRepository() *PublicationRepository {
	return &PublicationRepository{byID: make(map[string]*publication.Publication)}
}

func (r *PublicationRepository) Save(_ context.Context, p *publication.Publication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID()] = p.Clone()
	return nil
}

func (r *PublicationRepository) GetByID(_ context.Context, id string) (*publication.Publication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound("publication not found")
	}
	return p.Clone(), nil
}

func (r *PublicationRepository) ListByAuthor(_ context.Context, authorID string, publishedOnly bool) ([]*publication.Publication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var res []*publication.Publication
	for _, p := range r.byID {
		if p.AuthorID != authorID || p.IsDeleted() {
			continue
		}
		if publishedOnly && !p.IsPublished() {
			continue
		}
		res = append(res, p.Clone())
	}
	slices.SortFunc(res, func(a, b *publication.Publication) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	return res, nil
}

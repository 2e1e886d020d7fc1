package memory

import (
	"context"
	"slices"
	"sync"

	"pubhub/internal/domain"
	"pubhub/internal/domain/catalogue"
)

var _ catalogue.Repository = (*CatalogueRepository)(nil)

type CatalogueRepository struct {
	mu      sync.RWMutex
	authors map[string]catalogue.Author
	entries map[string]catalogue.Entry
}

func NewCatalogueRepository() *CatalogueRepository {
	return &CatalogueRepository{
		authors: make(map[string]catalogue.Author),
		entries: make(map[string]catalogue.Entry),
	}
}

func (r *CatalogueRepository) SaveAuthor(_ context.Context, a catalogue.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authors[a.ID] = a
	return nil
}

func (r *CatalogueRepository) DeleteAuthor(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.authors, id)
	return nil
}

func (r *CatalogueRepository) GetAuthor(_ context.Context, id string) (catalogue.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.authors[id]
	if !ok {
		return catalogue.Author{}, domain.NotFound("author not found")
	}
	return a, nil
}

func (r *CatalogueRepository) SaveEntry(_ context.Context, e catalogue.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.PublicationID] = e
	return nil
}

func (r *CatalogueRepository) DeleteEntry(_ context.Context, publicationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, publicationID)
	return nil
}

func (r *CatalogueRepository) GetEntry(_ context.Context, publicationID string) (catalogue.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[publicationID]
	if !ok {
		return catalogue.Entry{}, domain.NotFound("entry not found")
	}
	return e, nil
}

func (r *CatalogueRepository) ListEntries(_ context.Context, authorID string) ([]catalogue.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var res []catalogue.Entry
	for _, e := range r.entries {
		if authorID == "" || e.AuthorID == authorID {
			res = append(res, e)
		}
	}
	slices.SortFunc(res, func(a, b catalogue.Entry) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return res, nil
}

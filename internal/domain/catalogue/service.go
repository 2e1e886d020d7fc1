package catalogue

import "context"

type Service interface {
	GetAuthor(ctx context.Context, id string) (Author, error)
	GetEntry(ctx context.Context, publicationID string) (Entry, error)
	ListEntries(ctx context.Context, authorID string) ([]Entry, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAuthor(ctx context.Context, id string) (Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *service) GetEntry(ctx context.Context, publicationID string) (Entry, error) {
	return s.repo.GetEntry(ctx, publicationID)
}

func (s *service) ListEntries(ctx context.Context, authorID string) ([]Entry, error) {
	return s.repo.ListEntries(ctx, authorID)
}

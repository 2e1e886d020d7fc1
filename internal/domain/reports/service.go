package reports

import "context"

type Service interface {
	GetRevenue(ctx context.Context, authorID string) ([]Revenue, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetRevenue(ctx context.Context, authorID string) ([]Revenue, error) {
	return s.repo.GetRevenue(ctx, authorID)
}

package eventlog

import (
	"context"

	"pubhub/internal/domain"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type Service interface {
	Find(ctx context.Context, f Filter) ([]domain.Event, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Find(ctx context.Context, f Filter) ([]domain.Event, error) {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, domain.Invalid("to must not be before from")
	}
	switch {
	case f.Limit <= 0:
		f.Limit = defaultLimit
	case f.Limit > maxLimit:
		f.Limit = maxLimit
	}
	return s.repo.Find(ctx, f)
}

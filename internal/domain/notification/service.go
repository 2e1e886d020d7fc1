package notification

import "context"

type Service interface {
	List(ctx context.Context, recipientID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, recipientID, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, recipientID string, unreadOnly bool) ([]Notification, error) {
	return s.repo.List(ctx, recipientID, unreadOnly)
}

func (s *service) MarkRead(ctx context.Context, recipientID, id string) error {
	return s.repo.MarkRead(ctx, recipientID, id)
}

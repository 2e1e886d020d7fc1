package memory

import (
	"context"
	"slices"
	"sync"

	"pubhub/internal/domain"
	"pubhub/internal/domain/notification"
)

var _ notification.Repository = (*NotificationRepository)(nil)

type NotificationRepository struct {
	mu    sync.RWMutex
	items []notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Add(_ context.Context, n notification.Notification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.ContainsFunc(r.items, func(it notification.Notification) bool { return it.ID == n.ID }) {
		return false, nil
	}
	r.items = append(r.items, n)
	return true, nil
}

func (r *NotificationRepository) List(_ context.Context, recipientID string, unreadOnly bool) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var res []notification.Notification
	for _, n := range r.items {
		if n.RecipientID != recipientID || (unreadOnly && n.Read) {
			continue
		}
		res = append(res, n)
	}
	slices.Reverse(res)
	return res, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, recipientID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].RecipientID == recipientID {
			r.items[i].Read = true
			return nil
		}
	}
	return domain.NotFound("notification not found")
}

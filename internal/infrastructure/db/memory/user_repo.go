package memory

import (
	"context"
	"slices"
	"sync"

	"pubhub/internal/domain"
	"pubhub/internal/domain/user"
)

var _ user.Repository = (*UserRepository)(nil)

type UserRepository struct {
	mu   sync.RWMutex
	byID map[string]*user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]*user.User)}
}

func (r *UserRepository) Save(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID()] = u.Clone()
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound("user not found")
	}
	return u.Clone(), nil
}

func (r *UserRepository) ExistsUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) CountFollowers(ctx context.Context, authorID string) (int, error) {
	ids, err := r.ListFollowers(ctx, authorID)
	return len(ids), err
}

// ListFollowers skips deactivated followers.
func (r *UserRepository) ListFollowers(_ context.Context, authorID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []string
	for _, u := range r.byID {
		if !u.IsDeleted() && u.IsFollowing(authorID) {
			ids = append(ids, u.ID())
		}
	}
	slices.Sort(ids)
	return ids, nil
}

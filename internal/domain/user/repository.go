package user

import "context"

type Repository interface {
	Save(ctx context.Context, u *User) error
	// GetByID returns deactivated users too; callers check IsDeleted.
	GetByID(ctx context.Context, id string) (*User, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	CountFollowers(ctx context.Context, authorID string) (int, error)
	ListFollowers(ctx context.Context, authorID string) ([]string, error)
}

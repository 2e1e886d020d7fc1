package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pubhub/internal/domain"
	"pubhub/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Save upserts the user and replaces its follow list. It expects to run
// inside a transaction.
func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	if _, err := exec(ctx, r.db,
		`INSERT INTO users (user_id, username, display_name, email, role, created_at, updated_at, deleted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id) DO UPDATE
		   SET display_name = EXCLUDED.display_name,
		       email = EXCLUDED.email,
		       updated_at = EXCLUDED.updated_at,
		       deleted_at = EXCLUDED.deleted_at`,
		u.ID(), u.Username, u.DisplayName, u.Email, string(u.Role),
		u.CreatedAt(), nullTime(u.UpdatedAt()), nullTime(u.DeletedAt()),
	); err != nil {
		return err
	}

	if _, err := exec(ctx, r.db, `DELETE FROM follows WHERE follower_id = $1`, u.ID()); err != nil {
		return err
	}
	for i, authorID := range u.Following {
		if _, err := exec(ctx, r.db,
			`INSERT INTO follows (follower_id, author_id, position) VALUES ($1, $2, $3)`,
			u.ID(), authorID, i,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var (
		u                    user.User
		role                 string
		createdAt            time.Time
		updatedAt, deletedAt sql.NullTime
	)
	err := queryRow(ctx, r.db,
		`SELECT username, display_name, email, role, created_at, updated_at, deleted_at
		   FROM users
		  WHERE user_id = $1`,
		id,
	).Scan(&u.Username, &u.DisplayName, &u.Email, &role, &createdAt, &updatedAt, &deletedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user")
	}
	if err != nil {
		return nil, err
	}
	u.Role = user.Role(role)
	u.AggregateRoot = domain.RestoreAggregateRoot(id, createdAt.UTC(), timePtr(updatedAt), timePtr(deletedAt))

	rows, err := query(ctx, r.db,
		`SELECT author_id FROM follows WHERE follower_id = $1 ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var authorID string
		if err := rows.Scan(&authorID); err != nil {
			return nil, err
		}
		u.Following = append(u.Following, authorID)
	}
	return &u, rows.Err()
}

func (r *UserRepository) ExistsUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := queryRow(ctx, r.db,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`,
		username,
	).Scan(&exists)
	return exists, err
}

func (r *UserRepository) CountFollowers(ctx context.Context, authorID string) (int, error) {
	var n int
	err := queryRow(ctx, r.db,
		`SELECT COUNT(*)
		   FROM follows f
		   JOIN users u ON u.user_id = f.follower_id
		  WHERE f.author_id = $1
		    AND u.deleted_at IS NULL`,
		authorID,
	).Scan(&n)
	return n, err
}

func (r *UserRepository) ListFollowers(ctx context.Context, authorID string) ([]string, error) {
	rows, err := query(ctx, r.db,
		`SELECT f.follower_id
		   FROM follows f
		   JOIN users u ON u.user_id = f.follower_id
		  WHERE f.author_id = $1
		    AND u.deleted_at IS NULL
		  ORDER BY f.follower_id`,
		authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		res = append(res, id)
	}
	return res, rows.Err()
}

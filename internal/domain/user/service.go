package user

import (
	"context"

	"go.uber.org/zap"

	"pubhub/internal/domain"
)

type Service interface {
	Register(ctx context.Context, username, displayName, email string, role Role) (*User, error)
	UpdateProfile(ctx context.Context, id, displayName, email string) (*User, error)
	Follow(ctx context.Context, followerID, authorID string) error
	Unfollow(ctx context.Context, followerID, authorID string) error
	Deactivate(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*User, error)
}

type service struct {
	uow    domain.UnitOfWork
	users  Repository
	events domain.EventPublisher
	log    *zap.Logger
}

func NewService(uow domain.UnitOfWork, users Repository, events domain.EventPublisher, log *zap.Logger) Service {
	return &service{
		uow:    uow,
		users:  users,
		events: events,
		log:    log,
	}
}

func (s *service) Register(ctx context.Context, username, displayName, email string, role Role) (*User, error) {
	u, err := Register(username, displayName, email, role)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context) error {
		taken, err := s.users.ExistsUsername(ctx, u.Username)
		if err != nil {
			return err
		}
		if taken {
			return &domain.DomainError{
				Code:       domain.ErrorCodeUsernameTaken,
				Message:    "username already exists",
				HTTPStatus: 409,
			}
		}
		return s.users.Save(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, u)
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, id, displayName, email string) (*User, error) {
	var res *User

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := u.UpdateProfile(displayName, email); err != nil {
			return err
		}
		res = u
		return s.users.Save(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, res)
	return res, nil
}

func (s *service) Follow(ctx context.Context, followerID, authorID string) error {
	var follower *User

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByID(ctx, followerID)
		if err != nil {
			return err
		}
		author, err := s.users.GetByID(ctx, authorID)
		if err != nil {
			return err
		}
		if err := u.Follow(author); err != nil {
			return err
		}
		follower = u
		return s.users.Save(ctx, u)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, follower)
	return nil
}

func (s *service) Unfollow(ctx context.Context, followerID, authorID string) error {
	var follower *User

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByID(ctx, followerID)
		if err != nil {
			return err
		}
		if err := u.Unfollow(authorID); err != nil {
			return err
		}
		follower = u
		return s.users.Save(ctx, u)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, follower)
	return nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	var res *User

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := u.Deactivate(); err != nil {
			return err
		}
		res = u
		return s.users.Save(ctx, u)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, res)
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// publish runs after commit. A failure here cannot undo the write, so it is
// logged and the events stay recorded on the aggregate.
func (s *service) publish(ctx context.Context, u *User) {
	if s.events == nil {
		return
	}
	if err := domain.PublishAndClear(ctx, s.events, u); err != nil {
		s.log.Warn("publish user events", zap.String("user_id", u.ID()), zap.Error(err))
	}
}

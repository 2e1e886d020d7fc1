package publication

import (
	"context"

	"go.uber.org/zap"

	"pubhub/internal/domain"
	"pubhub/internal/domain/user"
)

type Service interface {
	Create(ctx context.Context, authorID, name, synopsis string) (*Publication, error)
	Update(ctx context.Context, actorID, id, name, synopsis string) (*Publication, error)
	Publish(ctx context.Context, actorID, id string) (*Publication, error)
	Like(ctx context.Context, readerID, id string) error
	Unlike(ctx context.Context, readerID, id string) error
	Read(ctx context.Context, readerID, id string) (*Publication, error)
	Review(ctx context.Context, readerID, id string, stars int, comment string) error
	Delete(ctx context.Context, actorID, id string) error
	Get(ctx context.Context, id string) (*Publication, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*Publication, error)
}

type service struct {
	uow          domain.UnitOfWork
	publications Repository
	users        user.Repository
	events       domain.EventPublisher
	log          *zap.Logger
}

func NewService(
	uow domain.UnitOfWork,
	publications Repository,
	users user.Repository,
	events domain.EventPublisher,
	log *zap.Logger,
) Service {
	return &service{
		uow:          uow,
		publications: publications,
		users:        users,
		events:       events,
		log:          log,
	}
}

func (s *service) Create(ctx context.Context, authorID, name, synopsis string) (*Publication, error) {
	var res *Publication

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		author, err := s.users.GetByID(ctx, authorID)
		if err != nil {
			return err
		}
		if author.IsDeleted() || author.Role != user.RoleAuthor {
			return domain.Forbidden("only authors can create publications")
		}

		p, err := New(authorID, name, synopsis)
		if err != nil {
			return err
		}
		res = p
		return s.publications.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, res)
	return res, nil
}

func (s *service) Update(ctx context.Context, actorID, id, name, synopsis string) (*Publication, error) {
	return s.change(ctx, id, func(p *Publication) error {
		return p.Update(actorID, name, synopsis)
	})
}

func (s *service) Publish(ctx context.Context, actorID, id string) (*Publication, error) {
	return s.change(ctx, id, func(p *Publication) error {
		return p.Publish(actorID)
	})
}

func (s *service) Like(ctx context.Context, readerID, id string) error {
	_, err := s.change(ctx, id, func(p *Publication) error {
		return p.Like(readerID)
	})
	return err
}

func (s *service) Unlike(ctx context.Context, readerID, id string) error {
	_, err := s.change(ctx, id, func(p *Publication) error {
		return p.Unlike(readerID)
	})
	return err
}

func (s *service) Read(ctx context.Context, readerID, id string) (*Publication, error) {
	return s.change(ctx, id, func(p *Publication) error {
		return p.Read(readerID)
	})
}

func (s *service) Review(ctx context.Context, readerID, id string, stars int, comment string) error {
	_, err := s.change(ctx, id, func(p *Publication) error {
		return p.Review(readerID, stars, comment)
	})
	return err
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	_, err := s.change(ctx, id, func(p *Publication) error {
		return p.Delete(actorID)
	})
	return err
}

func (s *service) Get(ctx context.Context, id string) (*Publication, error) {
	p, err := s.publications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsDeleted() {
		return nil, domain.NotFound("publication not found")
	}
	return p, nil
}

func (s *service) ListByAuthor(ctx context.Context, authorID string) ([]*Publication, error) {
	return s.publications.ListByAuthor(ctx, authorID, false)
}

// change loads the publication, applies fn and saves it in one transaction,
// then publishes what fn recorded.
func (s *service) change(ctx context.Context, id string, fn func(p *Publication) error) (*Publication, error) {
	var res *Publication

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.publications.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		res = p
		return s.publications.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, res)
	return res, nil
}

func (s *service) publish(ctx context.Context, p *Publication) {
	if s.events == nil {
		return
	}
	if err := domain.PublishAndClear(ctx, s.events, p); err != nil {
		s.log.Warn("publish publication events", zap.String("publication_id", p.ID()), zap.Error(err))
	}
}

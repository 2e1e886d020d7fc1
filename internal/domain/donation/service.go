package donation

import (
	"context"

	"go.uber.org/zap"

	"pubhub/internal/domain"
	"pubhub/internal/domain/user"
)

type Service interface {
	Donate(ctx context.Context, readerID, authorID string, amount int64, currency, message string) (*Donation, error)
	Pay(ctx context.Context, readerID, id, reference string) (*Donation, error)
	Cancel(ctx context.Context, readerID, id string) (*Donation, error)
	Get(ctx context.Context, id string) (*Donation, error)
}

// service writes every donation event to the journal in the same transaction
// as the donation itself. Events published after commit carry their log id,
// so a lost publish is found again by the recovery sweep.
type service struct {
	uow       domain.UnitOfWork
	donations Repository
	users     user.Repository
	journal   Journal
	events    domain.EventPublisher
	log       *zap.Logger
}

func NewService(
	uow domain.UnitOfWork,
	donations Repository,
	users user.Repository,
	journal Journal,
	events domain.EventPublisher,
	log *zap.Logger,
) Service {
	return &service{
		uow:       uow,
		donations: donations,
		users:     users,
		journal:   journal,
		events:    events,
		log:       log,
	}
}

func (s *service) Donate(ctx context.Context, readerID, authorID string, amount int64, currency, message string) (*Donation, error) {
	var res *Donation

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		reader, err := s.users.GetByID(ctx, readerID)
		if err != nil {
			return err
		}
		if reader.IsDeleted() {
			return domain.BadState("reader is deactivated")
		}
		author, err := s.users.GetByID(ctx, authorID)
		if err != nil {
			return err
		}
		if author.IsDeleted() || author.Role != user.RoleAuthor {
			return domain.NotFound("author not found")
		}

		d, err := New(readerID, authorID, amount, currency, message)
		if err != nil {
			return err
		}
		res = d
		return s.save(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, res)
	return res, nil
}

func (s *service) Pay(ctx context.Context, readerID, id, reference string) (*Donation, error) {
	return s.change(ctx, id, func(d *Donation) error {
		return d.Pay(readerID, reference)
	})
}

func (s *service) Cancel(ctx context.Context, readerID, id string) (*Donation, error) {
	return s.change(ctx, id, func(d *Donation) error {
		return d.Cancel(readerID)
	})
}

func (s *service) Get(ctx context.Context, id string) (*Donation, error) {
	return s.donations.GetByID(ctx, id)
}

func (s *service) change(ctx context.Context, id string, fn func(d *Donation) error) (*Donation, error) {
	var res *Donation

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		d, err := s.donations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
		res = d
		return s.save(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, res)
	return res, nil
}

// save persists d and swaps its recorded events for their journaled copies.
func (s *service) save(ctx context.Context, d *Donation) error {
	if err := s.donations.Save(ctx, d); err != nil {
		return err
	}
	logged, err := s.journal.Append(ctx, d.Events())
	if err != nil {
		return err
	}
	d.CleanEvents()
	for _, e := range logged {
		d.RecordEvent(e)
	}
	return nil
}

func (s *service) publish(ctx context.Context, d *Donation) {
	if s.events == nil {
		return
	}
	if err := domain.PublishAndClear(ctx, s.events, d); err != nil {
		s.log.Warn("publish donation events, left for recovery",
			zap.String("donation_id", d.ID()),
			zap.Error(err),
		)
	}
}

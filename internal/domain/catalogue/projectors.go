package catalogue

import (
	"context"
	"time"

	"pubhub/internal/domain"
	"pubhub/internal/domain/publication"
	"pubhub/internal/domain/user"
)

// AuthorProjector keeps the Author projection in step with the identity
// module. It never trusts the payload beyond the ids: the current user is
// re-read and the projection overwritten, so replays are harmless.
type AuthorProjector struct {
	repo         Repository
	users        user.Repository
	publications publication.Repository
}

func NewAuthorProjector(repo Repository, users user.Repository, publications publication.Repository) *AuthorProjector {
	return &AuthorProjector{repo: repo, users: users, publications: publications}
}

func (p *AuthorProjector) Topic() string { return "^user$" }

func (p *AuthorProjector) Name() string { return "catalogue.authors" }

func (p *AuthorProjector) Handle(ctx context.Context, e domain.Event) (bool, error) {
	payload, err := domain.DecodePayload[user.EventPayload](e)
	if err != nil {
		return false, err
	}

	authorID := payload.UserID
	switch e.Code() {
	case user.CodeFollowed, user.CodeUnfollowed:
		authorID = payload.AuthorID
	case user.CodeRegistered, user.CodeUpdated, user.CodeDeleted:
	default:
		return false, nil
	}
	return p.refresh(ctx, authorID)
}

func (p *AuthorProjector) refresh(ctx context.Context, authorID string) (bool, error) {
	u, err := p.users.GetByID(ctx, authorID)
	if err != nil {
		return false, err
	}
	if u.IsDeleted() {
		return true, p.repo.DeleteAuthor(ctx, authorID)
	}
	if u.Role != user.RoleAuthor {
		return false, nil
	}

	followers, err := p.users.CountFollowers(ctx, authorID)
	if err != nil {
		return false, err
	}
	published, err := p.publications.ListByAuthor(ctx, authorID, true)
	if err != nil {
		return false, err
	}

	return true, p.repo.SaveAuthor(ctx, Author{
		ID:           u.ID(),
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		Followers:    followers,
		Publications: len(published),
		UpdatedAt:    time.Now().UTC(),
	})
}

// PublicationProjector maintains the Entry projection and the author's
// publication count.
type PublicationProjector struct {
	repo         Repository
	publications publication.Repository
}

func NewPublicationProjector(repo Repository, publications publication.Repository) *PublicationProjector {
	return &PublicationProjector{repo: repo, publications: publications}
}

func (p *PublicationProjector) Topic() string { return "^publication$" }

func (p *PublicationProjector) Name() string { return "catalogue.entries" }

func (p *PublicationProjector) Handle(ctx context.Context, e domain.Event) (bool, error) {
	if e.Code() == publication.CodeCreated {
		return false, nil
	}
	payload, err := domain.DecodePayload[publication.EventPayload](e)
	if err != nil {
		return false, err
	}

	pub, err := p.publications.GetByID(ctx, payload.PublicationID)
	if err != nil {
		return false, err
	}
	if pub.IsPublished() {
		err = p.repo.SaveEntry(ctx, entryOf(pub))
	} else {
		err = p.repo.DeleteEntry(ctx, pub.ID())
	}
	if err != nil {
		return false, err
	}

	return true, p.recount(ctx, pub.AuthorID)
}

func (p *PublicationProjector) recount(ctx context.Context, authorID string) error {
	a, err := p.repo.GetAuthor(ctx, authorID)
	if domain.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	published, err := p.publications.ListByAuthor(ctx, authorID, true)
	if err != nil {
		return err
	}
	a.Publications = len(published)
	a.UpdatedAt = time.Now().UTC()
	return p.repo.SaveAuthor(ctx, a)
}

func entryOf(p *publication.Publication) Entry {
	e := Entry{
		PublicationID: p.ID(),
		AuthorID:      p.AuthorID,
		Name:          p.Name,
		Synopsis:      p.Synopsis,
		Likes:         len(p.Likes),
		Views:         p.Views,
		Reviews:       len(p.Reviews),
		Rating:        p.Rating(),
	}
	if p.PublishedAt != nil {
		e.PublishedAt = *p.PublishedAt
	}
	return e
}

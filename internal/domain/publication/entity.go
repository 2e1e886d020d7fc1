package publication

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"pubhub/internal/domain"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

type Review struct {
	ReaderID  string
	Stars     int
	Comment   string
	CreatedAt time.Time
}

// Publication is a piece written by an author. Likes holds the ids of the
// readers that liked it, one entry per reader.
type Publication struct {
	domain.AggregateRoot[string]

	AuthorID    string
	Name        string
	Synopsis    string
	Status      Status
	Likes       []string
	Views       int
	Reviews     []Review
	PublishedAt *time.Time
}

func New(authorID, name, synopsis string) (*Publication, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	if authorID == "" {
		return nil, domain.Invalid("author_id is required")
	}

	p := &Publication{
		AggregateRoot: domain.NewAggregateRoot(uuid.NewString()),
		AuthorID:      authorID,
		Name:          name,
		Synopsis:      synopsis,
		Status:        StatusDraft,
	}
	if err := p.Record(Created{PublicationID: p.ID(), AuthorID: authorID}); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publication) IsPublished() bool { return p.Status == StatusPublished && !p.IsDeleted() }

// Rating is the mean of the review stars, zero without reviews.
func (p *Publication) Rating() float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Stars
	}
	return float64(sum) / float64(len(p.Reviews))
}

func (p *Publication) LikedBy(readerID string) bool {
	return slices.Contains(p.Likes, readerID)
}

func (p *Publication) ownedBy(actorID string) error {
	if p.IsDeleted() {
		return domain.NotFound("publication not found")
	}
	if p.AuthorID != actorID {
		return domain.Forbidden("only the author can change a publication")
	}
	return nil
}

func (p *Publication) readable() error {
	if !p.IsPublished() {
		return domain.NotFound("publication not found")
	}
	return nil
}

func (p *Publication) Update(actorID, name, synopsis string) error {
	if err := p.ownedBy(actorID); err != nil {
		return err
	}
	if name = strings.TrimSpace(name); name != "" {
		p.Name = name
	}
	if synopsis != "" {
		p.Synopsis = synopsis
	}
	p.Touch()
	return p.Record(Updated{PublicationID: p.ID(), AuthorID: p.AuthorID})
}

func (p *Publication) Publish(actorID string) error {
	if err := p.ownedBy(actorID); err != nil {
		return err
	}
	if p.Status == StatusPublished {
		return domain.BadState("publication is already published")
	}

	now := time.Now().UTC()
	p.Status = StatusPublished
	p.PublishedAt = &now
	p.Touch()
	return p.Record(Published{PublicationID: p.ID(), AuthorID: p.AuthorID, Name: p.Name})
}

func (p *Publication) Like(readerID string) error {
	if err := p.readable(); err != nil {
		return err
	}
	if p.LikedBy(readerID) {
		return domain.Conflict("publication already liked")
	}
	p.Likes = append(p.Likes, readerID)
	return p.Record(Liked{PublicationID: p.ID(), AuthorID: p.AuthorID, ReaderID: readerID})
}

func (p *Publication) Unlike(readerID string) error {
	if err := p.readable(); err != nil {
		return err
	}
	i := slices.Index(p.Likes, readerID)
	if i < 0 {
		return domain.Conflict("publication is not liked")
	}
	p.Likes = slices.Delete(p.Likes, i, i+1)
	return p.Record(Unliked{PublicationID: p.ID(), AuthorID: p.AuthorID, ReaderID: readerID})
}

func (p *Publication) Read(readerID string) error {
	if err := p.readable(); err != nil {
		return err
	}
	p.Views++
	return p.Record(Read{PublicationID: p.ID(), AuthorID: p.AuthorID, ReaderID: readerID})
}

func (p *Publication) Review(readerID string, stars int, comment string) error {
	if err := p.readable(); err != nil {
		return err
	}
	if stars < 1 || stars > 5 {
		return domain.Invalid("stars must be between 1 and 5")
	}
	if readerID == p.AuthorID {
		return domain.Forbidden("authors cannot review their own publication")
	}
	for _, r := range p.Reviews {
		if r.ReaderID == readerID {
			return domain.Conflict("publication already reviewed")
		}
	}

	p.Reviews = append(p.Reviews, Review{
		ReaderID:  readerID,
		Stars:     stars,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	})
	return p.Record(Reviewed{PublicationID: p.ID(), AuthorID: p.AuthorID, ReaderID: readerID, Stars: stars})
}

func (p *Publication) Delete(actorID string) error {
	if err := p.ownedBy(actorID); err != nil {
		return err
	}
	p.MarkDeleted()
	return p.Record(Deleted{PublicationID: p.ID(), AuthorID: p.AuthorID})
}

func (p *Publication) Clone() *Publication {
	c := *p
	c.AggregateRoot = p.AggregateRoot.Clone()
	c.Likes = slices.Clone(p.Likes)
	c.Reviews = slices.Clone(p.Reviews)
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		c.PublishedAt = &t
	}
	return &c
}

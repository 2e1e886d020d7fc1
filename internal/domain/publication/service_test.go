package publication_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"pubhub/internal/domain"
	"pubhub/internal/domain/publication"
	"pubhub/internal/domain/user"
)

type uowStub struct{}

func (uowStub) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type eventBusFake struct{ events []domain.Event }

func (e *eventBusFake) Publish(ctx context.Context, ev domain.Event) error {
	e.events = append(e.events, ev)
	return nil
}

func (e *eventBusFake) PublishAll(ctx context.Context, evs []domain.Event) error {
	e.events = append(e.events, evs...)
	return nil
}

func (e *eventBusFake) last() string {
	if len(e.events) == 0 {
		return ""
	}
	return e.events[len(e.events)-1].String()
}

type userRepoFake struct {
	user.Repository
	byID map[string]*user.User
}

func (r *userRepoFake) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}

type pubRepoFake struct {
	byID map[string]*publication.Publication
}

func (r *pubRepoFake) Save(ctx context.Context, p *publication.Publication) error {
	r.byID[p.ID()] = p.Clone()
	return nil
}
func (r *pubRepoFake) GetByID(ctx context.Context, id string) (*publication.Publication, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound("publication not found")
	}
	return p.Clone(), nil
}
func (r *pubRepoFake) ListByAuthor(ctx context.Context, authorID string, publishedOnly bool) ([]*publication.Publication, error) {
	var res []*publication.Publication
	for _, p := range r.byID {
		if p.AuthorID != authorID || p.IsDeleted() || (publishedOnly && !p.IsPublished()) {
			continue
		}
		res = append(res, p.Clone())
	}
	return res, nil
}

func restoreUser(id string, role user.Role) *user.User {
	now := time.Now()
	return &user.User{
		AggregateRoot: domain.RestoreAggregateRoot(id, now, &now, nil),
		Username:      id,
		Role:          role,
	}
}

type fixture struct {
	svc  publication.Service
	pubs *pubRepoFake
	bus  *eventBusFake
}

func newFixture() fixture {
	users := &userRepoFake{byID: map[string]*user.User{
		"author": restoreUser("author", user.RoleAuthor),
		"reader": restoreUser("reader", user.RoleReader),
	}}
	pubs := &pubRepoFake{byID: map[string]*publication.Publication{}}
	bus := &eventBusFake{}
	return fixture{
		svc:  publication.NewService(uowStub{}, pubs, users, bus, zap.NewNop()),
		pubs: pubs,
		bus:  bus,
	}
}

func TestCreateRequiresAuthor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, "reader", "Essay", ""); err == nil {
		t.Fatalf("reader must not create publications")
	}
	if _, err := f.svc.Create(ctx, "ghost", "Essay", ""); !domain.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND for unknown author, got %v", err)
	}

	p, err := f.svc.Create(ctx, "author", "Essay", "about things")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != publication.StatusDraft {
		t.Fatalf("new publication must be a draft")
	}
	if f.bus.last() != "publication.created" {
		t.Fatalf("unexpected last event %q", f.bus.last())
	}
}

func TestOnlyAuthorChangesPublication(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p, _ := f.svc.Create(ctx, "author", "Essay", "")

	var de *domain.DomainError
	if _, err := f.svc.Publish(ctx, "reader", p.ID()); !errors.As(err, &de) || de.Code != domain.ErrorCodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if err := f.svc.Delete(ctx, "reader", p.ID()); !errors.As(err, &de) || de.Code != domain.ErrorCodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if _, err := f.svc.Update(ctx, "author", p.ID(), "Better essay", ""); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, _ := f.svc.Get(ctx, p.ID()); got.Name != "Better essay" {
		t.Fatalf("update not saved")
	}
}

func TestReaderInteractionsRequirePublished(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p, _ := f.svc.Create(ctx, "author", "Essay", "")

	if err := f.svc.Like(ctx, "reader", p.ID()); !domain.IsNotFound(err) {
		t.Fatalf("liking a draft must fail with NOT_FOUND, got %v", err)
	}

	if _, err := f.svc.Publish(ctx, "author", p.ID()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if f.bus.last() != "publication.published" {
		t.Fatalf("unexpected last event %q", f.bus.last())
	}

	if err := f.svc.Like(ctx, "reader", p.ID()); err != nil {
		t.Fatalf("Like: %v", err)
	}
	var de *domain.DomainError
	if err := f.svc.Like(ctx, "reader", p.ID()); !errors.As(err, &de) || de.Code != domain.ErrorCodeConflict {
		t.Fatalf("expected CONFLICT on second like, got %v", err)
	}
	if _, err := f.svc.Read(ctx, "reader", p.ID()); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := f.svc.Review(ctx, "reader", p.ID(), 6, ""); !errors.As(err, &de) || de.Code != domain.ErrorCodeInvalid {
		t.Fatalf("expected INVALID_ARGUMENT for 6 stars, got %v", err)
	}
	if err := f.svc.Review(ctx, "reader", p.ID(), 4, "good"); err != nil {
		t.Fatalf("Review: %v", err)
	}

	got, _ := f.svc.Get(ctx, p.ID())
	if len(got.Likes) != 1 || got.Views != 1 || got.Rating() != 4 {
		t.Fatalf("unexpected state likes=%d views=%d rating=%v", len(got.Likes), got.Views, got.Rating())
	}

	if err := f.svc.Unlike(ctx, "reader", p.ID()); err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	if err := f.svc.Unlike(ctx, "reader", p.ID()); !errors.As(err, &de) || de.Code != domain.ErrorCodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestDeleteHidesPublication(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p, _ := f.svc.Create(ctx, "author", "Essay", "")

	if err := f.svc.Delete(ctx, "author", p.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.bus.last() != "publication.deleted" {
		t.Fatalf("unexpected last event %q", f.bus.last())
	}
	if _, err := f.svc.Get(ctx, p.ID()); !domain.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}
	if !f.pubs.byID[p.ID()].IsDeleted() {
		t.Fatalf("delete must be soft")
	}
	list, _ := f.svc.ListByAuthor(ctx, "author")
	if len(list) != 0 {
		t.Fatalf("deleted publication listed")
	}
}

func TestEventPayloadCarriesIdentifiers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p, _ := f.svc.Create(ctx, "author", "Essay", "")
	_, _ = f.svc.Publish(ctx, "author", p.ID())
	_ = f.svc.Review(ctx, "reader", p.ID(), 5, "")

	payload, err := domain.DecodePayload[publication.EventPayload](f.bus.events[len(f.bus.events)-1])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.PublicationID != p.ID() || payload.AuthorID != "author" || payload.ReaderID != "reader" || payload.Stars != 5 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

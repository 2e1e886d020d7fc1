package user

import (
	"strings"

	"github.com/google/uuid"

	"pubhub/internal/domain"
)

type Role string

const (
	RoleReader Role = "reader"
	RoleAuthor Role = "author"
)

func (r Role) Valid() bool {
	return r == RoleReader || r == RoleAuthor
}

// User is the identity aggregate. Following holds the ids of the authors the
// user follows.
type User struct {
	domain.AggregateRoot[string]

	Username    string
	DisplayName string
	Email       string
	Role        Role
	Following   []string
}

func Register(username, displayName, email string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.Invalid("username is required")
	}
	if !role.Valid() {
		return nil, domain.Invalid("role must be reader or author")
	}
	if !strings.Contains(email, "@") {
		return nil, domain.Invalid("email is invalid")
	}
	if displayName == "" {
		displayName = username
	}

	u := &User{
		AggregateRoot: domain.NewAggregateRoot(uuid.NewString()),
		Username:      username,
		DisplayName:   displayName,
		Email:         email,
		Role:          role,
	}
	if err := u.Record(Registered{UserID: u.ID(), Username: username, Role: role}); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) UpdateProfile(displayName, email string) error {
	if u.IsDeleted() {
		return domain.BadState("user is deactivated")
	}
	if displayName != "" {
		u.DisplayName = displayName
	}
	if email != "" {
		if !strings.Contains(email, "@") {
			return domain.Invalid("email is invalid")
		}
		u.Email = email
	}
	u.Touch()
	return u.Record(Updated{UserID: u.ID()})
}

func (u *User) IsFollowing(authorID string) bool {
	for _, id := range u.Following {
		if id == authorID {
			return true
		}
	}
	return false
}

func (u *User) Follow(author *User) error {
	switch {
	case u.IsDeleted():
		return domain.BadState("user is deactivated")
	case author.ID() == u.ID():
		return domain.Invalid("cannot follow yourself")
	case author.IsDeleted() || author.Role != RoleAuthor:
		return domain.NotFound("author not found")
	case u.IsFollowing(author.ID()):
		return domain.Conflict("already following this author")
	}

	u.Following = append(u.Following, author.ID())
	u.Touch()
	return u.Record(Followed{UserID: u.ID(), AuthorID: author.ID()})
}

func (u *User) Unfollow(authorID string) error {
	if !u.IsFollowing(authorID) {
		return domain.Conflict("not following this author")
	}

	kept := u.Following[:0]
	for _, id := range u.Following {
		if id != authorID {
			kept = append(kept, id)
		}
	}
	u.Following = kept
	u.Touch()
	return u.Record(Unfollowed{UserID: u.ID(), AuthorID: authorID})
}

func (u *User) Deactivate() error {
	if u.IsDeleted() {
		return domain.BadState("user is already deactivated")
	}
	u.MarkDeleted()
	return u.Record(Deleted{UserID: u.ID()})
}

// Clone returns a copy without the uncommitted events.
func (u *User) Clone() *User {
	c := *u
	c.AggregateRoot = u.AggregateRoot.Clone()
	c.Following = append([]string(nil), u.Following...)
	return &c
}

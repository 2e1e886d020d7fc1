package user

import "pubhub/internal/domain"

const Topic = "user"

const (
	CodeRegistered = "registered"
	CodeUpdated    = "updated"
	CodeFollowed   = "followed"
	CodeUnfollowed = "unfollowed"
	CodeDeleted    = "deleted"
)

type Registered struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (e Registered) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeRegistered, e)
}

type Updated struct {
	UserID string `json:"user_id"`
}

func (e Updated) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeUpdated, e)
}

// Followed is recorded on the follower. AuthorID is the followed user.
type Followed struct {
	UserID   string `json:"user_id"`
	AuthorID string `json:"author_id"`
}

func (e Followed) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeFollowed, e)
}

type Unfollowed struct {
	UserID   string `json:"user_id"`
	AuthorID string `json:"author_id"`
}

func (e Unfollowed) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeUnfollowed, e)
}

type Deleted struct {
	UserID string `json:"user_id"`
}

func (e Deleted) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeDeleted, e)
}

// EventPayload is the union of the fields carried by user events, for
// handlers that react to several codes.
type EventPayload struct {
	UserID   string `json:"user_id"`
	AuthorID string `json:"author_id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

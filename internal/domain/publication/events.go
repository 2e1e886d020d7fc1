package publication

import "pubhub/internal/domain"

const Topic = "publication"

const (
	CodeCreated   = "created"
	CodeUpdated   = "updated"
	CodePublished = "published"
	CodeLiked     = "liked"
	CodeUnliked   = "unliked"
	CodeRead      = "read"
	CodeReviewed  = "reviewed"
	CodeDeleted   = "deleted"
)

type Created struct {
	PublicationID string `json:"publication_id"`
	AuthorID      string `json:"author_id"`
}

func (e Created) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeCreated, e)
}

type Updated struct {
	PublicationID string `json:"publication_id"`
	AuthorID      string `json:"author_id"`
}

func (e Updated) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeUpdated, e)
}

type Published struct {
	PublicationID string `json:"publication_id"`
	AuthorID      string `json:"author_id"`
	Name          string `json:"name"`
}

func (e Published) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodePublished, e)
}

type Liked struct {
	PublicationID string `json:"publication_id"`
	AuthorID      string `json:"author_id"`
	ReaderID      string `json:"reader_id"`
}

func (e Liked) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeLiked, e)
}

type Unliked struct {
	PublicationID string `json:"publication_id"`
	AuthorID      string `json:"author_id"`
	ReaderID      string `json:"reader_id"`
}

func (e Unliked) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeUnliked, e)
}

type Read struct {
	PublicationID string `json:"publication_id"`
	AuthorID      string `json:"author_id"`
	ReaderID      string `json:"reader_id"`
}

func (e Read) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeRead, e)
}

type Reviewed struct {
	PublicationID string `json:"publication_id"`
	AuthorID      string `json:"author_id"`
	ReaderID      string `json:"reader_id"`
	Stars         int    `json:"stars"`
}

func (e Reviewed) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeReviewed, e)
}

type Deleted struct {
	PublicationID string `json:"publication_id"`
	AuthorID      string `json:"author_id"`
}

func (e Deleted) ToEvent() (domain.Event, error) {
	return domain.EncodeEvent(Topic, CodeDeleted, e)
}

// EventPayload decodes any publication event.
type EventPayload struct {
	PublicationID string `json:"publication_id"`
	AuthorID      string `json:"author_id"`
	ReaderID      string `json:"reader_id,omitempty"`
	Name          string `json:"name,omitempty"`
	Stars         int    `json:"stars,omitempty"`
}

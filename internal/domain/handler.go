package domain

import "context"

// EventHandler reacts to events published by other modules.
//
// Topic returns a regular expression searched (not anchored) against the
// event topic. Handle reports whether the handler acted on the event: false
// means the topic matched but the code is not one it cares about.
type EventHandler interface {
	Topic() string
	Handle(ctx context.Context, e Event) (bool, error)
}

// HandlerFunc is the function form of EventHandler's Handle.
type HandlerFunc func(ctx context.Context, e Event) (bool, error)

type funcHandler struct {
	topic string
	fn    HandlerFunc
}

// NewHandler adapts a function to an EventHandler subscribed to topic.
func NewHandler(topic string, fn HandlerFunc) EventHandler {
	return &funcHandler{topic: topic, fn: fn}
}

func (h *funcHandler) Topic() string { return h.topic }

func (h *funcHandler) Handle(ctx context.Context, e Event) (bool, error) {
	return h.fn(ctx, e)
}

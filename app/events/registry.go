package events

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrEventNotSupported = errors.New("event is not supported")

// Handler reacts to a single provider webhook event type.
type Handler interface {
	Name() string
	Handle(ctx context.Context, data json.RawMessage) error
}

type Registry struct {
	handlers map[string]Handler
}

func NewRegistry(handlers ...Handler) *Registry {
	items := make(map[string]Handler, len(handlers))
	for _, h := range handlers {
		items[h.Name()] = h
	}
	return &Registry{handlers: items}
}

func (r *Registry) Get(name string) (Handler, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, ErrEventNotSupported
	}
	return handler, nil
}

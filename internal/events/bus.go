package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Event describes a domain occurrence fanned out to notifiers.
type Event struct {
	Topic       string
	AggregateID string
	Payload     map[string]any
}

// Notifier reacts to emitted events (notification sink, metrics, ...).
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, event Event) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus fans domain events out to the configured notifiers.
type Bus struct {
	Notifiers []Notifier
}

// Emit dispatches the event to all notifiers, joining their errors. A failing
// notifier never blocks the others.
func (b *Bus) Emit(ctx context.Context, topic, aggregateID string, payload map[string]any) error {
	if b == nil {
		return nil
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return errors.New("events: topic is required")
	}
	ev := Event{Topic: topic, AggregateID: aggregateID, Payload: payload}
	var joined error
	for _, notifier := range b.Notifiers {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, ev); err != nil {
			joined = errors.Join(joined, fmt.Errorf("events: notifier: %w", err))
		}
	}
	return joined
}

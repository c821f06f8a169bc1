package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shopfront/internal/events"
)

func TestEmitFansOutToAllNotifiers(t *testing.T) {
	var first, second []string
	bus := &events.Bus{Notifiers: []events.Notifier{
		events.NotifierFunc(func(ctx context.Context, ev events.Event) error {
			first = append(first, ev.Topic)
			return nil
		}),
		events.NotifierFunc(func(ctx context.Context, ev events.Event) error {
			second = append(second, ev.Topic)
			return nil
		}),
	}}

	err := bus.Emit(context.Background(), events.TopicOrderPlaced, "o-1", map[string]any{"total": 30.0})
	require.NoError(t, err)
	require.Equal(t, []string{events.TopicOrderPlaced}, first)
	require.Equal(t, []string{events.TopicOrderPlaced}, second)
}

func TestEmitJoinsNotifierErrors(t *testing.T) {
	boom := errors.New("boom")
	var reached bool
	bus := &events.Bus{Notifiers: []events.Notifier{
		events.NotifierFunc(func(ctx context.Context, ev events.Event) error { return boom }),
		events.NotifierFunc(func(ctx context.Context, ev events.Event) error {
			reached = true
			return nil
		}),
	}}

	err := bus.Emit(context.Background(), events.TopicOrderFailed, "o-2", nil)
	require.ErrorIs(t, err, boom)
	require.True(t, reached)
}

func TestEmitRequiresTopic(t *testing.T) {
	bus := &events.Bus{}
	require.Error(t, bus.Emit(context.Background(), "  ", "o-3", nil))
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *events.Bus
	require.NoError(t, bus.Emit(context.Background(), events.TopicOrderPlaced, "o-4", nil))
}

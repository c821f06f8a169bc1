package state_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shopfront/internal/cart"
	"github.com/noah-isme/shopfront/internal/notify"
	"github.com/noah-isme/shopfront/internal/order"
	"github.com/noah-isme/shopfront/internal/state"
)

func newStore(t *testing.T) (*state.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return state.NewStore(rdb, "shopfront:test_store", zerolog.Nop()), mr
}

func TestHydrateMissingKey(t *testing.T) {
	store, _ := newStore(t)
	var snap state.Snapshot
	found, err := store.Hydrate(context.Background(), &snap)
	require.NoError(t, err)
	require.False(t, found)
}

func TestWriteThenHydrateRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	store.Write(ctx, state.Snapshot{
		Cart:          []cart.Line{{ProductID: "p1", Qty: 2}},
		Orders:        []order.Order{{ID: "ORD-1", Total: 30, Status: order.StatusPending, PlacedAt: time.Unix(1700000000, 0).UTC()}},
		Notifications: []notify.Notification{{ID: "n1", Text: "Order ORD-1 placed", Type: notify.TypeSuccess}},
	})

	var snap state.Snapshot
	found, err := store.Hydrate(ctx, &snap)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []cart.Line{{ProductID: "p1", Qty: 2}}, snap.Cart)
	require.Len(t, snap.Orders, 1)
	require.Equal(t, "ORD-1", snap.Orders[0].ID)
	require.Len(t, snap.Notifications, 1)
}

func TestFlusherWritesThrough(t *testing.T) {
	store, mr := newStore(t)
	engine := cart.NewEngine()
	history := order.NewHistory()
	sink := notify.NewSink(nil)
	flush := store.Flusher(engine, history, sink)

	engine.Add("p9", 4)
	flush(context.Background())

	require.True(t, mr.Exists("shopfront:test_store"))

	fresh := cart.NewEngine()
	var snap state.Snapshot
	found, err := store.Hydrate(context.Background(), &snap)
	require.NoError(t, err)
	require.True(t, found)
	state.Restore(snap, fresh, order.NewHistory(), notify.NewSink(nil))
	require.Equal(t, []cart.Line{{ProductID: "p9", Qty: 4}}, fresh.Lines())
}

func TestWriteFailureIsSwallowed(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := state.NewStore(rdb, "shopfront:test_store", zerolog.Nop())
	mr.Close()

	// must not panic or propagate
	store.Write(context.Background(), state.Snapshot{Cart: []cart.Line{{ProductID: "p1", Qty: 1}}})
}

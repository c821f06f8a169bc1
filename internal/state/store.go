package state

import (
	"context"
	"encoding/json"
	"errors"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/shopfront/internal/cart"
	"github.com/noah-isme/shopfront/internal/notify"
	"github.com/noah-isme/shopfront/internal/order"
)

// Snapshot is the single JSON document persisted under the namespaced key.
type Snapshot struct {
	Cart          []cart.Line           `json:"cart"`
	Orders        []order.Order         `json:"orders"`
	Notifications []notify.Notification `json:"notifications"`
}

// Store is the write-through persistence collaborator. It is read exactly once
// at startup; afterwards reads come from memory and every relevant mutation
// schedules a best-effort write. Writes are not transactional: a crash between
// mutation and write may lose the latest change.
type Store struct {
	rdb *redis.Client
	key string
	log zerolog.Logger
}

// NewStore constructs a store bound to a namespaced key.
func NewStore(rdb *redis.Client, key string, log zerolog.Logger) *Store {
	if key == "" {
		key = "shopfront:app_store"
	}
	return &Store{rdb: rdb, key: key, log: log}
}

// Hydrate loads the snapshot. It reports whether a snapshot existed; a missing
// key is not an error.
func (s *Store) Hydrate(ctx context.Context, dst *Snapshot) (bool, error) {
	if s == nil || s.rdb == nil || dst == nil {
		return false, nil
	}
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Write persists the snapshot best-effort. Failures are logged and swallowed;
// persistence must never take the storefront down.
func (s *Store) Write(ctx context.Context, snap Snapshot) {
	if s == nil || s.rdb == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode state snapshot")
		return
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("persist state snapshot")
	}
}

// Flusher builds the write-through hook handlers call after each mutation.
// Reads never come back from the persistence layer after hydration.
func (s *Store) Flusher(engine *cart.Engine, history *order.History, sink *notify.Sink) func(context.Context) {
	return func(ctx context.Context) {
		snap := Snapshot{}
		if engine != nil {
			snap.Cart = engine.Lines()
		}
		if history != nil {
			snap.Orders = history.All()
		}
		if sink != nil {
			snap.Notifications = sink.All()
		}
		s.Write(ctx, snap)
	}
}

// Restore pushes a hydrated snapshot into the in-memory owners.
func Restore(snap Snapshot, engine *cart.Engine, history *order.History, sink *notify.Sink) {
	if engine != nil && snap.Cart != nil {
		engine.Replace(snap.Cart)
	}
	if history != nil && snap.Orders != nil {
		history.Replace(snap.Orders)
	}
	if sink != nil && snap.Notifications != nil {
		sink.Replace(snap.Notifications)
	}
}

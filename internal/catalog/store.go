package catalog

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Fetcher retrieves a page of products from the remote products service.
type Fetcher interface {
	Fetch(ctx context.Context, page, limit int) ([]Product, error)
}

// Store holds the in-session product list. The initial load degrades to seed
// data on failure; an explicit refresh propagates the error to its caller.
type Store struct {
	mu       sync.RWMutex
	products []Product
	index    map[string]Product

	fetcher Fetcher
	limit   int
	log     zerolog.Logger

	// OnFetchError observes failed fetches. Nil is skipped.
	OnFetchError func()
}

// NewStore constructs a store pre-filled with seed products.
func NewStore(fetcher Fetcher, pageLimit int, log zerolog.Logger) *Store {
	s := &Store{
		fetcher: fetcher,
		limit:   pageLimit,
		log:     log,
	}
	s.replace(SeedProducts())
	return s
}

// FetchAll loads the first page from the products service. On failure the
// previously loaded (or seed) products are retained and a warning is logged;
// the caller never sees the error.
func (s *Store) FetchAll(ctx context.Context, page, limit int) []Product {
	if limit <= 0 {
		limit = s.limit
	}
	if s.fetcher != nil {
		products, err := s.fetcher.Fetch(ctx, page, limit)
		if err != nil {
			s.log.Warn().Err(err).Msg("catalog fetch failed, keeping current products")
			s.reportFetchError()
		} else {
			s.replace(products)
		}
	}
	return s.Products()
}

// Refresh re-fetches the catalog and propagates failure, leaving the current
// products untouched on error.
func (s *Store) Refresh(ctx context.Context) ([]Product, error) {
	if s.fetcher == nil {
		return s.Products(), nil
	}
	products, err := s.fetcher.Fetch(ctx, 1, s.limit)
	if err != nil {
		s.reportFetchError()
		return nil, err
	}
	s.replace(products)
	return s.Products(), nil
}

// Products returns a copy of the current product list.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Product resolves a single product by id.
func (s *Store) Product(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.index[id]
	return p, ok
}

// Len reports the number of loaded products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func (s *Store) reportFetchError() {
	if s.OnFetchError != nil {
		s.OnFetchError()
	}
}

func (s *Store) replace(products []Product) {
	index := make(map[string]Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	s.mu.Lock()
	s.products = products
	s.index = index
	s.mu.Unlock()
}

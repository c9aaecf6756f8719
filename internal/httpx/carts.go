package httpx

import (
	"sync"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
)

// CartStore keeps one active cart per terminal session. Each cart itself is
// single-writer; the map lock only protects concurrent sessions from each
// other.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]*sales.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*sales.Cart)}
}

func (s *CartStore) Get(token string) *sales.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[token]
	if !ok {
		c = sales.NewCart()
		s.carts[token] = c
	}
	return c
}

func (s *CartStore) Drop(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, token)
}

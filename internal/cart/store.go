package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Snapshot is a point-in-time copy of a cart, safe to hand to renderers.
type Snapshot struct {
	Lines        []Line
	Instructions string
	Totals       Totals
}

// Store keeps one cart per session in memory. Carts are created lazily and
// are lost when the process exits.
type Store struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*Cart
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{carts: make(map[uuid.UUID]*Cart)}
}

// Get returns a snapshot of the session's cart. Unknown sessions have an
// empty cart.
func (s *Store) Get(sessionID uuid.UUID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return Snapshot{Totals: ComputeTotals(nil)}
	}
	return snapshot(c)
}

// Update runs fn against the session's cart while holding the store lock and
// returns the resulting snapshot. If fn fails the error is returned as-is;
// fn is responsible for leaving the cart consistent.
func (s *Store) Update(sessionID uuid.UUID, fn func(c *Cart) error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = &Cart{}
		s.carts[sessionID] = c
	}
	if err := fn(c); err != nil {
		return snapshot(c), err
	}
	if c.Len() == 0 && c.Instructions() == "" {
		delete(s.carts, sessionID)
	}
	return snapshot(c), nil
}

// Take returns the session's cart contents and empties it in one step.
func (s *Store) Take(sessionID uuid.UUID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return Snapshot{Totals: ComputeTotals(nil)}
	}
	delete(s.carts, sessionID)
	return snapshot(c)
}

// Len is the number of non-empty carts held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

func snapshot(c *Cart) Snapshot {
	return Snapshot{
		Lines:        c.Lines(),
		Instructions: c.Instructions(),
		Totals:       c.Totals(),
	}
}

// Package order holds placed orders in memory.
package order

import (
	"errors"
	"sync"
	"time"

	"github.com/fooddash/api/internal/cart"
	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown order ids.
var ErrNotFound = errors.New("order not found")

// Order is an immutable record of a checkout. Lines and totals are copied
// from the cart at placement time.
type Order struct {
	ID              string
	SessionID       uuid.UUID
	Lines           []cart.Line
	Totals          cart.Totals
	FullName        string
	DeliveryAddress string
	Country         string
	PaymentMethod   string
	Instructions    string
	PlacedAt        time.Time
	EstimatedFrom   time.Time
	EstimatedTo     time.Time
}

// Store is a concurrency-safe in-memory order table.
type Store struct {
	mu     sync.RWMutex
	orders map[string]Order
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{orders: make(map[string]Order)}
}

// Save inserts or replaces an order.
func (s *Store) Save(o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

// Get returns the order with the given id.
func (s *Store) Get(id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

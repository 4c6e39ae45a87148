package tracking

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the time between two stage changes.
const DefaultInterval = 5 * time.Second

// Errors returned by the tracker.
var (
	ErrNotTracked     = errors.New("order is not being tracked")
	ErrAlreadyTracked = errors.New("order is already being tracked")
	ErrClosed         = errors.New("tracker is closed")
)

// Listener is called after every stage change, from the order's timer
// goroutine. Listeners must not block for long.
type Listener func(Progress)

// Tracker runs one simulation per order. Finished simulations stay
// readable until the process exits.
type Tracker struct {
	interval time.Duration
	logger   *zap.Logger

	mu        sync.RWMutex
	orders    map[string]Progress
	listeners []Listener
	closed    bool

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewTracker creates a Tracker ticking every interval. A non-positive
// interval falls back to DefaultInterval.
func NewTracker(interval time.Duration, logger *zap.Logger) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		interval: interval,
		logger:   logger,
		orders:   make(map[string]Progress),
		stop:     make(chan struct{}),
	}
}

// Subscribe registers fn for every future stage change of every order.
func (t *Tracker) Subscribe(fn Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Start begins the simulation for orderID and returns its initial state.
func (t *Tracker) Start(orderID string) (Progress, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return Progress{}, ErrClosed
	}
	if _, ok := t.orders[orderID]; ok {
		return Progress{}, ErrAlreadyTracked
	}

	p := NewProgress(orderID)
	t.orders[orderID] = p

	t.wg.Add(1)
	go t.run(orderID)

	t.logger.Info("tracking started", zap.String("order_id", orderID), zap.Duration("interval", t.interval))
	return p, nil
}

// Get returns the latest state of an order.
func (t *Tracker) Get(orderID string) (Progress, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, ok := t.orders[orderID]
	if !ok {
		return Progress{}, ErrNotTracked
	}
	return p, nil
}

// Close stops every running simulation and waits for the timers to exit.
// Progress reached so far stays readable.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.stop)
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *Tracker) run(orderID string) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			p, listeners, ok := t.advance(orderID)
			if !ok {
				return
			}
			for _, fn := range listeners {
				fn(p)
			}
			if p.Done {
				t.logger.Info("order delivered", zap.String("order_id", orderID))
				return
			}
		}
	}
}

func (t *Tracker) advance(orderID string) (Progress, []Listener, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return Progress{}, nil, false
	}
	p, changed := t.orders[orderID].Advance()
	if !changed {
		return p, nil, false
	}
	t.orders[orderID] = p

	listeners := make([]Listener, len(t.listeners))
	copy(listeners, t.listeners)
	return p, listeners, true
}

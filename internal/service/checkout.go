package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fooddash/api/internal/cart"
	"github.com/fooddash/api/internal/checkout"
	"github.com/fooddash/api/internal/enum"
	"github.com/fooddash/api/internal/notify"
	"github.com/fooddash/api/internal/order"
	"github.com/fooddash/api/internal/tracking"
	"github.com/google/uuid"
	"github.com/lucsky/cuid"
	"go.uber.org/zap"
)

// Delivery window shown on the tracking page, relative to placement.
const (
	etaFrom = 30 * time.Minute
	etaTo   = 45 * time.Minute
)

const publishTimeout = 5 * time.Second

// ErrEmptyCart is returned when checking out a session with no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// CartStore is the cart access the checkout needs.
// Satisfied by *cart.Store.
type CartStore interface {
	Get(sessionID uuid.UUID) cart.Snapshot
	Take(sessionID uuid.UUID) cart.Snapshot
}

// OrderStore persists placed orders. Satisfied by *order.Store.
type OrderStore interface {
	Save(o order.Order)
	Get(id string) (order.Order, error)
}

// Tracker starts and reads progress simulations. Satisfied by *tracking.Tracker.
type Tracker interface {
	Start(orderID string) (tracking.Progress, error)
	Get(orderID string) (tracking.Progress, error)
}

// Delays configures the simulated waits around placement.
type Delays struct {
	PlaceOrder time.Duration
	Redirect   time.Duration
}

// PlaceOrderResult is what the caller needs to confirm a placement.
type PlaceOrderResult struct {
	Order         order.Order
	Progress      tracking.Progress
	RedirectPath  string
	RedirectAfter time.Duration
}

// CheckoutService turns a validated checkout into a tracked order.
type CheckoutService struct {
	carts     CartStore
	orders    OrderStore
	tracker   Tracker
	publisher notify.Publisher
	logger    *zap.Logger
	delays    Delays

	newID func() string
	now   func() time.Time
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(carts CartStore, orders OrderStore, tracker Tracker, publisher notify.Publisher, logger *zap.Logger, delays Delays) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		orders:    orders,
		tracker:   tracker,
		publisher: publisher,
		logger:    logger,
		delays:    delays,
		newID:     cuid.Slug,
		now:       time.Now,
	}
}

// TrackingPath is the page showing an order's progress.
func TrackingPath(orderID string) string {
	return "/order-tracking/" + orderID
}

// PlaceOrder validates the submission, waits the placement delay, moves the
// session's cart into a new order and starts tracking it. The cart is left
// untouched when validation fails or ctx is cancelled during the wait.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID uuid.UUID, sub checkout.Submission) (*PlaceOrderResult, error) {
	if err := checkout.Validate(sub); err != nil {
		return nil, err
	}
	if len(s.carts.Get(sessionID).Lines) == 0 {
		return nil, ErrEmptyCart
	}

	if s.delays.PlaceOrder > 0 {
		timer := time.NewTimer(s.delays.PlaceOrder)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("place order: %w", ctx.Err())
		case <-timer.C:
		}
	}

	snap := s.carts.Take(sessionID)
	if len(snap.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	placedAt := s.now().UTC()
	o := order.Order{
		ID:              s.newID(),
		SessionID:       sessionID,
		Lines:           snap.Lines,
		Totals:          snap.Totals,
		FullName:        sub.FullName,
		DeliveryAddress: sub.DeliveryAddress(),
		Country:         sub.Country,
		PaymentMethod:   sub.PaymentMethod,
		Instructions:    snap.Instructions,
		PlacedAt:        placedAt,
		EstimatedFrom:   placedAt.Add(etaFrom),
		EstimatedTo:     placedAt.Add(etaTo),
	}
	s.orders.Save(o)

	progress, err := s.tracker.Start(o.ID)
	if err != nil {
		return nil, fmt.Errorf("start tracking %s: %w", o.ID, err)
	}

	s.publish(ctx, notify.KeyOrderPlaced, enum.EventOrderPlaced, o.ID, placedPayload(o))

	s.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.Int("items", o.Totals.ItemCount),
		zap.String("total", o.Totals.Total.StringFixed(2)),
	)

	return &PlaceOrderResult{
		Order:         o,
		Progress:      progress,
		RedirectPath:  TrackingPath(o.ID),
		RedirectAfter: s.delays.Redirect,
	}, nil
}

// Order returns a placed order.
func (s *CheckoutService) Order(id string) (order.Order, error) {
	return s.orders.Get(id)
}

// Progress returns the latest progress of a placed order.
func (s *CheckoutService) Progress(id string) (tracking.Progress, error) {
	if _, err := s.orders.Get(id); err != nil {
		return tracking.Progress{}, err
	}
	return s.tracker.Get(id)
}

// PublishProgress forwards a stage change to the event publisher. It is
// registered as a tracking listener.
func (s *CheckoutService) PublishProgress(p tracking.Progress) {
	eventType := enum.EventStageAdvanced
	if p.Done {
		eventType = enum.EventOrderComplete
	}
	s.publish(context.Background(), notify.StageKey(p.Current().ID), eventType, p.OrderID, p)
}

func (s *CheckoutService) publish(ctx context.Context, key, eventType, orderID string, payload any) {
	if s.publisher == nil {
		return
	}
	msg, err := notify.NewMessage(eventType, orderID, payload)
	if err != nil {
		s.logger.Error("build event", zap.String("type", eventType), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, key, msg); err != nil {
		s.logger.Warn("publish event", zap.String("routing_key", key), zap.String("order_id", orderID), zap.Error(err))
	}
}

type placedLine struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type placedEvent struct {
	OrderID       string       `json:"order_id"`
	Lines         []placedLine `json:"lines"`
	Subtotal      string       `json:"subtotal"`
	Total         string       `json:"total"`
	PaymentMethod string       `json:"payment_method"`
	PlacedAt      time.Time    `json:"placed_at"`
}

func placedPayload(o order.Order) placedEvent {
	lines := make([]placedLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = placedLine{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
		}
	}
	return placedEvent{
		OrderID:       o.ID,
		Lines:         lines,
		Subtotal:      o.Totals.Subtotal.StringFixed(2),
		Total:         o.Totals.Total.StringFixed(2),
		PaymentMethod: o.PaymentMethod,
		PlacedAt:      o.PlacedAt,
	}
}

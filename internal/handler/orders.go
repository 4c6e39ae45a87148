package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fooddash/api/internal/enum"
	"github.com/fooddash/api/internal/order"
	"github.com/fooddash/api/internal/tracking"
	"github.com/fooddash/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderReader reads placed orders and their progress.
// Satisfied by *service.CheckoutService.
type OrderReader interface {
	Order(id string) (order.Order, error)
	Progress(id string) (tracking.Progress, error)
}

// OrderHandler serves placed orders and their tracking state.
type OrderHandler struct {
	orders OrderReader
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders OrderReader, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// RegisterRoutes registers order endpoints. Expected mount: /api/orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{id}", h.Get)
	r.Get("/{id}/progress", h.Progress)
}

// --- Response types ---

type deliveryWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type orderResponse struct {
	ID                string         `json:"id"`
	Lines             []lineResponse `json:"lines"`
	DeliveryAddress   string         `json:"delivery_address"`
	PaymentMethod     string         `json:"payment_method"`
	Instructions      string         `json:"instructions,omitempty"`
	PlacedAt          time.Time      `json:"placed_at"`
	EstimatedDelivery deliveryWindow `json:"estimated_delivery"`
	totalsResponse
}

type progressResponse struct {
	OrderID      string           `json:"order_id"`
	CurrentStage string           `json:"current_stage"`
	Done         bool             `json:"done"`
	Stages       []tracking.Stage `json:"stages"`
}

func toOrderResponse(o order.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		Lines:           toLineResponses(o.Lines),
		DeliveryAddress: o.DeliveryAddress,
		PaymentMethod:   o.PaymentMethod,
		Instructions:    o.Instructions,
		PlacedAt:        o.PlacedAt,
		EstimatedDelivery: deliveryWindow{
			From: o.EstimatedFrom,
			To:   o.EstimatedTo,
		},
		totalsResponse: toTotalsResponse(o.Totals),
	}
}

func toProgressResponse(p tracking.Progress) progressResponse {
	return progressResponse{
		OrderID:      p.OrderID,
		CurrentStage: p.Current().ID,
		Done:         p.Done,
		Stages:       p.Stages,
	}
}

// --- Handlers ---

// Get returns a placed order.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Order(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, h.logger, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// Progress returns the order's current tracking stages.
func (h *OrderHandler) Progress(w http.ResponseWriter, r *http.Request) {
	p, err := h.orders.Progress(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) || errors.Is(err, tracking.ErrNotTracked) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, h.logger, "get order progress", err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponse(p))
}

// --- WebSocket glue ---

// ProgressEvent wraps a progress state in the WebSocket event for its kind.
func ProgressEvent(eventType string, p tracking.Progress) (ws.Event, error) {
	return ws.NewEvent(eventType, toProgressResponse(p))
}

// Snapshot is a ws.SnapshotFunc sending the order's current state.
func (h *OrderHandler) Snapshot(orderID string) (ws.Event, bool) {
	p, err := h.orders.Progress(orderID)
	if err != nil {
		return ws.Event{}, false
	}
	ev, err := ProgressEvent(enum.EventSnapshot, p)
	if err != nil {
		h.logger.Error("build snapshot event", zap.String("order_id", orderID), zap.Error(err))
		return ws.Event{}, false
	}
	return ev, true
}

// BroadcastProgress returns a tracking listener pushing every stage change
// to the order's WebSocket subscribers.
func BroadcastProgress(hub *ws.Hub, logger *zap.Logger) tracking.Listener {
	return func(p tracking.Progress) {
		eventType := enum.EventStageAdvanced
		if p.Done {
			eventType = enum.EventOrderComplete
		}
		ev, err := ProgressEvent(eventType, p)
		if err != nil {
			logger.Error("build progress event", zap.String("order_id", p.OrderID), zap.Error(err))
			return
		}
		hub.BroadcastToOrder(p.OrderID, ev)
	}
}

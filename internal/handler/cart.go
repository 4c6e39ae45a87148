package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fooddash/api/internal/cart"
	"github.com/fooddash/api/internal/catalog"
	mw "github.com/fooddash/api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartStore defines the cart access needed by cart handlers.
// Satisfied by *cart.Store.
type CartStore interface {
	Get(sessionID uuid.UUID) cart.Snapshot
	Update(sessionID uuid.UUID, fn func(c *cart.Cart) error) (cart.Snapshot, error)
}

// ItemLookup resolves menu items by id. Satisfied by *catalog.Catalog.
type ItemLookup interface {
	Item(itemID string) (catalog.MenuItem, string, error)
}

// CartHandler serves the session cart.
type CartHandler struct {
	store  CartStore
	items  ItemLookup
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(store CartStore, items ItemLookup, logger *zap.Logger) *CartHandler {
	return &CartHandler{store: store, items: items, logger: logger}
}

// RegisterRoutes registers cart endpoints. Expected mount: /api/cart
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Delete("/", h.Clear)
	r.Post("/items", h.AddItem)
	r.Patch("/items/{itemID}", h.UpdateItem)
	r.Delete("/items/{itemID}", h.RemoveItem)
	r.Put("/instructions", h.SetInstructions)
}

// --- Request / Response types ---

type addItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Exactly one of Quantity (absolute) or Delta (relative) must be set.
type updateItemRequest struct {
	Quantity *int `json:"quantity"`
	Delta    *int `json:"delta"`
}

type instructionsRequest struct {
	Instructions string `json:"instructions"`
}

type cartResponse struct {
	Lines        []lineResponse `json:"lines"`
	Instructions string         `json:"instructions"`
	totalsResponse
}

func toCartResponse(s cart.Snapshot) cartResponse {
	return cartResponse{
		Lines:          toLineResponses(s.Lines),
		Instructions:   s.Instructions,
		totalsResponse: toTotalsResponse(s.Totals),
	}
}

// --- Handlers ---

// Get returns the session's cart with totals.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sid := mw.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, toCartResponse(h.store.Get(sid)))
}

// AddItem adds a menu item, merging with an existing line.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, _, err := h.items.Item(req.ItemID)
	if err != nil {
		if errors.Is(err, catalog.ErrMenuItemNotFound) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		writeInternalError(w, h.logger, "lookup menu item", err)
		return
	}

	sid := mw.SessionFromContext(r.Context())
	snap, err := h.store.Update(sid, func(c *cart.Cart) error {
		return c.Add(cart.LineFor(item), req.Quantity)
	})
	if err != nil {
		h.writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(snap))
}

// UpdateItem sets or adjusts a line's quantity. Reaching zero removes it.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if (req.Quantity == nil) == (req.Delta == nil) {
		writeError(w, http.StatusBadRequest, "exactly one of quantity or delta is required")
		return
	}

	itemID := chi.URLParam(r, "itemID")
	sid := mw.SessionFromContext(r.Context())
	snap, err := h.store.Update(sid, func(c *cart.Cart) error {
		if req.Quantity != nil {
			return c.SetQuantity(itemID, *req.Quantity)
		}
		return c.Adjust(itemID, *req.Delta)
	})
	if err != nil {
		h.writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(snap))
}

// RemoveItem deletes a line.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	sid := mw.SessionFromContext(r.Context())
	snap, err := h.store.Update(sid, func(c *cart.Cart) error {
		return c.Remove(itemID)
	})
	if err != nil {
		h.writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(snap))
}

// SetInstructions replaces the special instructions.
func (h *CartHandler) SetInstructions(w http.ResponseWriter, r *http.Request) {
	var req instructionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sid := mw.SessionFromContext(r.Context())
	snap, _ := h.store.Update(sid, func(c *cart.Cart) error {
		c.SetInstructions(req.Instructions)
		return nil
	})
	writeJSON(w, http.StatusOK, toCartResponse(snap))
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sid := mw.SessionFromContext(r.Context())
	_, _ = h.store.Update(sid, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func (h *CartHandler) writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrLineNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeInternalError(w, h.logger, "update cart", err)
	}
}

// isValidationError checks if the error is a cart input error that should
// result in 400 Bad Request.
func isValidationError(err error) bool {
	return errors.Is(err, cart.ErrInvalidQuantity) ||
		errors.Is(err, cart.ErrInvalidItem)
}

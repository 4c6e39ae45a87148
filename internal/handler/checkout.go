package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fooddash/api/internal/checkout"
	"github.com/fooddash/api/internal/enum"
	mw "github.com/fooddash/api/internal/middleware"
	"github.com/fooddash/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderPlacer places orders. Satisfied by *service.CheckoutService.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, sessionID uuid.UUID, sub checkout.Submission) (*service.PlaceOrderResult, error)
}

// CheckoutHandler serves checkout submission.
type CheckoutHandler struct {
	svc    OrderPlacer
	logger *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(svc OrderPlacer, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers checkout endpoints. Expected mount: /api/checkout
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Get("/options", h.Options)
	r.Post("/", h.PlaceOrder)
}

// --- Response types ---

type countryResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type checkoutOptionsResponse struct {
	Defaults       checkout.Submission `json:"defaults"`
	Countries      []countryResponse   `json:"countries"`
	PaymentMethods []string            `json:"payment_methods"`
}

type placeOrderResponse struct {
	Order           orderResponse    `json:"order"`
	Progress        progressResponse `json:"progress"`
	Redirect        string           `json:"redirect"`
	RedirectAfterMS int64            `json:"redirect_after_ms"`
}

type validationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// --- Handlers ---

// Options returns form defaults and the selectable choices.
func (h *CheckoutHandler) Options(w http.ResponseWriter, r *http.Request) {
	countries := make([]countryResponse, len(enum.Countries))
	for i, c := range enum.Countries {
		countries[i] = countryResponse{Code: c.Code, Name: c.Name}
	}
	writeJSON(w, http.StatusOK, checkoutOptionsResponse{
		Defaults:       checkout.Defaults(),
		Countries:      countries,
		PaymentMethods: []string{enum.PaymentMethodCard, enum.PaymentMethodCOD},
	})
}

// PlaceOrder validates the submission and turns the session cart into an order.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var sub checkout.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sid := mw.SessionFromContext(r.Context())
	res, err := h.svc.PlaceOrder(r.Context(), sid, sub)
	if err != nil {
		if ve, ok := checkout.AsValidationError(err); ok {
			writeJSON(w, http.StatusBadRequest, validationErrorResponse{
				Error:  "validation failed",
				Fields: ve.Map(),
			})
			return
		}
		if errors.Is(err, service.ErrEmptyCart) {
			writeError(w, http.StatusConflict, "cart is empty")
			return
		}
		writeInternalError(w, h.logger, "place order", err)
		return
	}

	writeJSON(w, http.StatusCreated, placeOrderResponse{
		Order:           toOrderResponse(res.Order),
		Progress:        toProgressResponse(res.Progress),
		Redirect:        res.RedirectPath,
		RedirectAfterMS: res.RedirectAfter.Milliseconds(),
	})
}

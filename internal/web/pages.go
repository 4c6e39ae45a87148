package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fooddash/api/internal/cart"
	"github.com/fooddash/api/internal/catalog"
	"github.com/fooddash/api/internal/checkout"
	"github.com/fooddash/api/internal/enum"
	mw "github.com/fooddash/api/internal/middleware"
	"github.com/fooddash/api/internal/order"
	"github.com/fooddash/api/internal/service"
	"github.com/fooddash/api/internal/tracking"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// --- Page data ---

type cuisineToggle struct {
	Name     string
	Selected bool
}

type homePage struct {
	layout
	Query       string
	Cuisines    []cuisineToggle
	Restaurants []catalog.Restaurant
}

type restaurantPage struct {
	layout
	Restaurant catalog.Restaurant
	Added      string
}

type cartPage struct {
	layout
	Cart cart.Snapshot
}

type checkoutPage struct {
	layout
	Form      checkout.Submission
	Errors    map[string]string
	Cart      cart.Snapshot
	Countries []countryOption
	Notice    string
}

type countryOption struct {
	Code     string
	Name     string
	Selected bool
}

type placedPage struct {
	layout
	Order        order.Order
	TrackingPath string
}

type trackingPage struct {
	layout
	Order    order.Order
	Progress tracking.Progress
}

func (p *Pages) layoutFor(r *http.Request, title string) layout {
	snap := p.carts.Get(mw.SessionFromContext(r.Context()))
	return layout{Title: title, CartCount: snap.Totals.ItemCount}
}

// --- Handlers ---

// Home lists restaurants filtered by ?q= and the selected ?cuisine= toggles.
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	selected := q["cuisine"]

	toggles := make([]cuisineToggle, len(enum.CuisineFilters))
	for i, c := range enum.CuisineFilters {
		toggles[i] = cuisineToggle{Name: c, Selected: contains(selected, c)}
	}

	p.render(w, http.StatusOK, "home", homePage{
		layout:      p.layoutFor(r, "Restaurants"),
		Query:       query,
		Cuisines:    toggles,
		Restaurants: p.catalog.Filter(query, selected),
	})
}

// Restaurant shows one restaurant's menu.
func (p *Pages) Restaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := p.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		p.NotFound(w, r)
		return
	}

	added := ""
	if id := r.URL.Query().Get("added"); id != "" {
		if item, _, err := p.catalog.Item(id); err == nil {
			added = item.Name
		}
	}

	p.render(w, http.StatusOK, "restaurant", restaurantPage{
		layout:     p.layoutFor(r, rest.Name),
		Restaurant: rest,
		Added:      added,
	})
}

// AddToCart adds one (or ?quantity) of a menu item and returns to the menu.
func (p *Pages) AddToCart(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "id")
	item, owner, err := p.catalog.Item(chi.URLParam(r, "itemID"))
	if err != nil || owner != restaurantID {
		p.NotFound(w, r)
		return
	}

	qty := 1
	if v := r.PostFormValue("quantity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid quantity", http.StatusBadRequest)
			return
		}
		qty = n
	}

	sid := mw.SessionFromContext(r.Context())
	_, err = p.carts.Update(sid, func(c *cart.Cart) error {
		return c.Add(cart.LineFor(item), qty)
	})
	if errors.Is(err, cart.ErrInvalidQuantity) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		p.internalError(w, "add to cart", err)
		return
	}

	target := "/restaurant/" + url.PathEscape(restaurantID) + "?added=" + url.QueryEscape(item.ID)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Cart shows the cart with its totals.
func (p *Pages) Cart(w http.ResponseWriter, r *http.Request) {
	sid := mw.SessionFromContext(r.Context())
	snap := p.carts.Get(sid)
	p.render(w, http.StatusOK, "cart", cartPage{
		layout: layout{Title: "Your Cart", CartCount: snap.Totals.ItemCount},
		Cart:   snap,
	})
}

// ChangeQuantity applies a "delta" or absolute "quantity" form value.
func (p *Pages) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	var apply func(c *cart.Cart) error
	if v := r.PostFormValue("delta"); v != "" {
		delta, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid delta", http.StatusBadRequest)
			return
		}
		apply = func(c *cart.Cart) error { return c.Adjust(itemID, delta) }
	} else {
		qty, err := strconv.Atoi(r.PostFormValue("quantity"))
		if err != nil {
			http.Error(w, "invalid quantity", http.StatusBadRequest)
			return
		}
		apply = func(c *cart.Cart) error { return c.SetQuantity(itemID, qty) }
	}

	p.updateCart(w, r, apply)
}

// RemoveFromCart deletes a line.
func (p *Pages) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	p.updateCart(w, r, func(c *cart.Cart) error { return c.Remove(itemID) })
}

// SaveInstructions stores the special instructions text.
func (p *Pages) SaveInstructions(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.PostFormValue("instructions"))
	p.updateCart(w, r, func(c *cart.Cart) error {
		c.SetInstructions(text)
		return nil
	})
}

func (p *Pages) updateCart(w http.ResponseWriter, r *http.Request, fn func(c *cart.Cart) error) {
	sid := mw.SessionFromContext(r.Context())
	_, err := p.carts.Update(sid, fn)
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil && !errors.Is(err, cart.ErrLineNotFound):
		p.internalError(w, "update cart", err)
		return
	}
	// A stale form for a line that is already gone just reloads the cart.
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Checkout shows the delivery and payment form.
func (p *Pages) Checkout(w http.ResponseWriter, r *http.Request) {
	p.renderCheckout(w, r, http.StatusOK, checkout.Defaults(), nil, "")
}

// PlaceOrder validates the form and, on success, shows the confirmation
// that redirects to the tracking page after the configured delay.
func (p *Pages) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sub, err := checkout.DecodeForm(r.PostForm)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sid := mw.SessionFromContext(r.Context())
	res, err := p.orders.PlaceOrder(r.Context(), sid, sub)
	if err != nil {
		if ve, ok := checkout.AsValidationError(err); ok {
			p.renderCheckout(w, r, http.StatusBadRequest, sub, ve.Map(), "")
			return
		}
		if errors.Is(err, service.ErrEmptyCart) {
			p.renderCheckout(w, r, http.StatusConflict, sub, nil, "Your cart is empty. Add some delicious food first!")
			return
		}
		p.internalError(w, "place order", err)
		return
	}

	seconds := int(res.RedirectAfter.Seconds())
	p.render(w, http.StatusOK, "placed", placedPage{
		layout: layout{
			Title:          "Order Placed",
			RefreshContent: fmt.Sprintf("%d;url=%s", seconds, res.RedirectPath),
		},
		Order:        res.Order,
		TrackingPath: res.RedirectPath,
	})
}

func (p *Pages) renderCheckout(w http.ResponseWriter, r *http.Request, status int, form checkout.Submission, errs map[string]string, notice string) {
	snap := p.carts.Get(mw.SessionFromContext(r.Context()))

	countries := make([]countryOption, len(enum.Countries))
	for i, c := range enum.Countries {
		countries[i] = countryOption{Code: c.Code, Name: c.Name, Selected: c.Code == form.Country}
	}

	p.render(w, status, "checkout", checkoutPage{
		layout:    layout{Title: "Checkout", CartCount: snap.Totals.ItemCount},
		Form:      form,
		Errors:    errs,
		Cart:      snap,
		Countries: countries,
		Notice:    notice,
	})
}

// Tracking shows an order and its live progress.
func (p *Pages) Tracking(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	o, err := p.orders.Order(orderID)
	if err != nil {
		p.NotFound(w, r)
		return
	}
	progress, err := p.orders.Progress(orderID)
	if err != nil {
		p.logger.Warn("order has no progress, showing initial stage", zap.String("order_id", orderID), zap.Error(err))
		progress = tracking.NewProgress(orderID)
	}

	p.render(w, http.StatusOK, "tracking", trackingPage{
		layout:   p.layoutFor(r, "Track Order"),
		Order:    o,
		Progress: progress,
	})
}

// NotFound renders the catch-all page.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusNotFound, "notfound", struct{ layout }{p.layoutFor(r, "Page Not Found")})
}

func (p *Pages) internalError(w http.ResponseWriter, msg string, err error) {
	p.logger.Error(msg, zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
